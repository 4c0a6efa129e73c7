package seed

import (
	"context"
	"log"

	"github.com/seorap-app/seorap-backend/internal/service"
)

// Run seeds development data: two users and one drawer owned by the first.
// Skips silently when the data already exists.
func Run(ctx context.Context, services *service.Services) {
	alice, err := services.Auth.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		if err == service.ErrUserExists {
			log.Println("[Seed] Data already present, skipping")
			return
		}
		log.Printf("[Seed] ⚠️ Failed to seed users: %v", err)
		return
	}

	bob, err := services.Auth.Register(ctx, "Bob", "bob@example.com", "password123")
	if err != nil {
		log.Printf("[Seed] ⚠️ Failed to seed users: %v", err)
		return
	}

	description := "A drawer for trying things out"
	drawer, err := services.Drawer.Create(ctx, alice.User.ID, "Sample Drawer", &description, nil, nil)
	if err != nil {
		log.Printf("[Seed] ⚠️ Failed to seed drawer: %v", err)
		return
	}

	public := true
	if _, err := services.Drawer.UpdateSettings(ctx, drawer.ID, alice.User.ID, &public, &public, nil); err != nil {
		log.Printf("[Seed] ⚠️ Failed to open sample drawer: %v", err)
		return
	}

	if _, err := services.JoinRequest.Request(ctx, drawer.ID, bob.User.ID); err != nil {
		log.Printf("[Seed] ⚠️ Failed to join Bob: %v", err)
		return
	}

	log.Println("[Seed] ✅ Development data seeded")
}
