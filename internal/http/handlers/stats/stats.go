// Package stats serves the dashboard summary.
package stats

import (
	"context"
	"net/http"

	"github.com/aanand-mishra/classroom-api/internal/types"
	"github.com/aanand-mishra/classroom-api/internal/utils/response"
)

// Source computes the statistics.
type Source interface {
	Stats(ctx context.Context) (types.Stats, error)
}

// Get handles GET /api/stats
//
// Success response (200 OK):
//
//	{ "totalStudents": 12, "totalUniqueCourses": 33,
//	  "averageAge": 20, "enrollmentsThisYear": 0 }
func Get(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := src.Stats(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, s)
	}
}
