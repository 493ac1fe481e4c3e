// Package student contains all HTTP handlers related to the Student resource.
//
// Every handler is built by a factory that receives its dependencies and
// returns the http.HandlerFunc the router needs:
//
//	r.Post("/api/students", student.New(repo))
//	//                      ^^^^^^^^^^^^^^^^
//	// New(repo) runs ONCE at startup; the returned func runs per request.
package student

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/classroom-api/internal/repository"
	"github.com/aanand-mishra/classroom-api/internal/types"
	"github.com/aanand-mishra/classroom-api/internal/utils/request"
	"github.com/aanand-mishra/classroom-api/internal/utils/response"
)

// Students is the subset of the repository these handlers use.
type Students interface {
	List(ctx context.Context, q repository.ListQuery) (types.StudentPage, error)
	Get(ctx context.Context, id string) (types.Student, error)
	Create(ctx context.Context, in repository.CreateInput) (types.Student, error)
	Update(ctx context.Context, id string, in repository.UpdateInput) (types.Student, error)
	Delete(ctx context.Context, id string) (types.Student, error)
}

// DeleteResponse is the body of a successful DELETE.
type DeleteResponse struct {
	Message string        `json:"message"`
	Student types.Student `json:"student"`
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON):
//
//	{ "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
//	  "age": 20, "courses": ["Mathematics"] }
//
// Success response (201 Created): the stored student, with generated id
// and defaults filled in.
//
// Error responses:
//
//	400 Bad Request  — empty/malformed body, missing names or email,
//	                   age out of range, email already used
//	500 Internal     — the document could not be saved
//
// ─────────────────────────────────────────────────────────────────────────────
func New(students Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in repository.CreateInput
		if err := request.DecodeJSON(r, &in); err != nil {
			response.Error(w, err)
			return
		}

		student, err := students.Create(r.Context(), in)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students?page=1&limit=10&search=emma
//
// Success response (200 OK):
//
//	{ "students": [ ... ],
//	  "pagination": { "currentPage": 1, "totalPages": 2, "totalStudents": 12,
//	                  "studentsPerPage": 10, "hasNextPage": true,
//	                  "hasPreviousPage": false } }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(students Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := repository.ListQuery{
			Page:   request.IntQuery(r, "page", repository.DefaultPage),
			Limit:  request.IntQuery(r, "limit", repository.DefaultLimit),
			Search: r.URL.Query().Get("search"),
		}
		slog.Debug("listing students",
			slog.Int("page", q.Page),
			slog.Int("limit", q.Limit),
			slog.String("search", q.Search))

		page, err := students.List(r.Context(), q)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, page)
	}
}

// GetByID handles GET /api/students/{id}: 200 with the student, or 404.
func GetByID(students Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := students.Get(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// Applies a PARTIAL update: absent fields keep their stored value.
//
// Success response (200 OK): the merged student.
//
// Error responses:
//
//	400 Bad Request  — malformed body, age out of range, email taken
//	404 Not Found    — unknown id
//	500 Internal     — the document could not be saved
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(students Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a student", slog.String("id", id))

		var in repository.UpdateInput
		if err := request.DecodeJSON(r, &in); err != nil {
			response.Error(w, err)
			return
		}

		updated, err := students.Update(r.Context(), id, in)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// Delete handles DELETE /api/students/{id}
//
// Success response (200 OK):
//
//	{ "message": "Student deleted successfully", "student": { ... } }
func Delete(students Students) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a student", slog.String("id", id))

		removed, err := students.Delete(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		slog.Info("student deleted", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, DeleteResponse{
			Message: "Student deleted successfully",
			Student: removed,
		})
	}
}
