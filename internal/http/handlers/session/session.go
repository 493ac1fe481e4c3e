// Package session serves the teacher login.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/classroom-api/internal/auth"
	"github.com/aanand-mishra/classroom-api/internal/types"
	"github.com/aanand-mishra/classroom-api/internal/utils/request"
	"github.com/aanand-mishra/classroom-api/internal/utils/response"
)

// TeacherSource returns the current teacher record.
type TeacherSource interface {
	Teacher(ctx context.Context) types.Teacher
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token   string               `json:"token"`
	Teacher types.TeacherProfile `json:"teacher"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Login handles POST /api/auth/login
//
// Request body (JSON):
//
//	{ "email": "teacher@school.com", "password": "teacher123" }
//
// Success response (200 OK):
//
//	{ "token": "...", "teacher": { "id": "teacher-001", "name": "John Smith",
//	                               "email": "teacher@school.com" } }
//
// Error responses:
//
//	400 Bad Request  — email or password missing
//	401 Unauthorized — credentials do not match
//
// ─────────────────────────────────────────────────────────────────────────────
func Login(teachers TeacherSource, issuer auth.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// An empty body falls through to the missing-credentials check.
		var req LoginRequest
		if err := request.DecodeJSON(r, &req); err != nil && !errors.Is(err, request.ErrEmptyBody) {
			response.Error(w, err)
			return
		}

		teacher := teachers.Teacher(r.Context())
		if err := auth.CheckCredentials(teacher, req.Email, req.Password); err != nil {
			slog.Warn("login rejected", slog.String("email", req.Email))
			response.Error(w, err)
			return
		}

		token, err := issuer.Issue(teacher)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("teacher logged in", slog.String("id", teacher.ID))
		response.WriteJSON(w, http.StatusOK, LoginResponse{
			Token:   token,
			Teacher: teacher.Profile(),
		})
	}
}
