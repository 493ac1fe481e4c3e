// Package health serves the liveness probe.
package health

import (
	"net/http"
	"time"

	"github.com/aanand-mishra/classroom-api/internal/utils/response"
)

// TimestampFormat is RFC 3339 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Status is the body of GET /api/health.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Check handles GET /api/health. It needs no token and touches no storage.
func Check(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, Status{
			Status:    "ok",
			Timestamp: now().UTC().Format(TimestampFormat),
		})
	}
}
