package health

import "context"

type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

type HealthStatus struct {
	Status string `json:"status"`
}

// PingChecker reports healthy when the underlying ping function succeeds.
type PingChecker struct {
	ping func(ctx context.Context) error
}

func NewPingChecker(ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{ping: ping}
}

// Check performs a health check
func (pc *PingChecker) Check(ctx context.Context) HealthStatus {
	if pc.ping != nil {
		if err := pc.ping(ctx); err != nil {
			return HealthStatus{Status: "degraded"}
		}
	}
	return HealthStatus{Status: "healthy"}
}
