package domain

import "time"

// HealthStatus is the overall status of a running server.
type HealthStatus struct {
	OK bool `json:"ok"`
}

// HealthCheck is the result of one readiness check.
type HealthCheck struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// HealthReport is served by the health endpoint.
type HealthReport struct {
	Status    HealthStatus           `json:"status"`
	UptimeSec int64                  `json:"uptime_sec"`
	Checks    map[string]HealthCheck `json:"checks"`
	Time      time.Time              `json:"time"`
}

// NewHealthReport builds a report whose status is OK when every check is.
func NewHealthReport(started, now time.Time, checks map[string]HealthCheck) HealthReport {
	ok := true
	for _, c := range checks {
		ok = ok && c.OK
	}
	return HealthReport{
		Status:    HealthStatus{OK: ok},
		UptimeSec: int64(now.Sub(started).Seconds()),
		Checks:    checks,
		Time:      now.UTC(),
	}
}
