// Package router wires handlers and middleware into one http.Handler.
//
// Route table:
//
//	POST   /api/auth/login       → teacher login                  (public)
//	GET    /api/health           → liveness probe                 (public)
//	GET    /api/stats            → collection statistics          (token)
//	GET    /api/students         → paginated, searchable list     (token)
//	GET    /api/students/{id}    → one student                    (token)
//	POST   /api/students         → create a student               (token)
//	PUT    /api/students/{id}    → partial update                 (token)
//	DELETE /api/students/{id}    → delete, echoing the record     (token)
//
// Anything else, including a known path with an unknown method, is a JSON
// 404.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/classroom-api/internal/auth"
	"github.com/aanand-mishra/classroom-api/internal/config"
	"github.com/aanand-mishra/classroom-api/internal/http/handlers/health"
	"github.com/aanand-mishra/classroom-api/internal/http/handlers/session"
	"github.com/aanand-mishra/classroom-api/internal/http/handlers/stats"
	"github.com/aanand-mishra/classroom-api/internal/http/handlers/student"
	"github.com/aanand-mishra/classroom-api/internal/http/middleware"
	"github.com/aanand-mishra/classroom-api/internal/repository"
	"github.com/aanand-mishra/classroom-api/internal/utils/response"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Repo   *repository.Repository
	Tokens auth.Scheme
	CORS   config.CORS
	Log    *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// New builds the API handler.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CORS(d.CORS))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Recovery(d.Log))

	r.NotFound(routeNotFound)
	r.MethodNotAllowed(routeNotFound)

	r.Post("/api/auth/login", session.Login(d.Repo, d.Tokens))
	r.Get("/api/health", health.Check(d.Now))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.Tokens))

		r.Get("/api/stats", stats.Get(d.Repo))

		r.Route("/api/students", func(r chi.Router) {
			r.Get("/", student.GetList(d.Repo))
			r.Post("/", student.New(d.Repo))
			r.Get("/{id}", student.GetByID(d.Repo))
			r.Put("/{id}", student.Update(d.Repo))
			r.Delete("/{id}", student.Delete(d.Repo))
		})
	})

	return r
}

func routeNotFound(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusNotFound, response.GeneralError("Route not found"))
}
