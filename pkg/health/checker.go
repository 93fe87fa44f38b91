package health

import (
	"context"
	"time"
)

const DefaultTimeout = 5 * time.Second

type Status string

const (
	StatusUp Status = "up"
	// StatusDegraded means an optional dependency is unavailable. The service
	// still takes traffic without it.
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// Optional reports a failing checker as degraded instead of down. Use it for
// dependencies the request path can work without, such as the cache
// invalidation bus or the audit search index.
func Optional(c Checker) Checker {
	return optional{Checker: c}
}

type optional struct {
	Checker
}

func (o optional) Check(ctx context.Context) Result {
	res := o.Checker.Check(ctx)
	if res.Status == StatusDown {
		res.Status = StatusDegraded
	}
	return res
}
