package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/seorap-app/seorap-backend/internal/service"
)

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	cron     *cron.Cron
	services *service.Services
}

// NewScheduler registers the maintenance jobs: an hourly purge of expired
// invitations and a daily sweep of stale pending join requests.
func NewScheduler(services *service.Services) *Scheduler {
	s := &Scheduler{
		cron:     cron.New(),
		services: services,
	}

	s.cron.AddFunc("0 * * * *", s.purgeExpiredInvitations)
	s.cron.AddFunc("30 4 * * *", s.sweepStaleJoinRequests)

	return s
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[Cron] ✅ Scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) purgeExpiredInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.services.Invitation.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[Cron] ❌ Expired invitation purge failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("[Cron] Purged %d expired invitations", count)
	}
}

func (s *Scheduler) sweepStaleJoinRequests() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.services.JoinRequest.SweepStale(ctx)
	if err != nil {
		log.Printf("[Cron] ❌ Stale join request sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("[Cron] Rejected %d stale join requests", count)
	}
}
