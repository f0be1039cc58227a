package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// checkAI names the readiness check in health reports.
const checkAI = "ai"

// handleHealth reports uptime and whether the AI components are ready.
func (s *Server) handleHealth(c echo.Context) error {
	check := domain.HealthCheck{OK: s.ports.Readiness.Ready()}
	if !check.OK {
		check.Err = msgInitializing
		if err := s.ports.Readiness.Err(); err != nil {
			check.Err = err.Error()
		}
	}

	report := domain.NewHealthReport(s.started, s.now(), map[string]domain.HealthCheck{
		checkAI: check,
	})

	status := http.StatusOK
	if !report.Status.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}
