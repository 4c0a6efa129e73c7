package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
	"github.com/seorap-app/seorap-backend/internal/service"
)

func TestErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotMember, http.StatusForbidden},
		{service.ErrOwnerCannotLeave, http.StatusForbidden},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{service.ErrUserExists, http.StatusConflict},
		{service.ErrInvitationInvalid, http.StatusConflict},
		{service.ErrInvitationExhausted, http.StatusConflict},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			is := is.New(t)
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tc.err)
			is.Equal(rec.Code, tc.status)
		})
	}
}
