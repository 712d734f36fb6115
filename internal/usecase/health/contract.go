package health

import "context"

// StorePinger checks object store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ExtractionChecker checks keyword extraction provider availability.
type ExtractionChecker interface {
	HealthCheck(ctx context.Context) error
}
