package ports

import (
	"context"
	"time"
)

// VisitInput is a single redirect to be counted.
type VisitInput struct {
	Code string
	At   time.Time
}

// VisitService records redirect statistics.
type VisitService interface {
	Process(ctx context.Context, visit VisitInput) error
}

// VisitRecorder queues visits for asynchronous processing. Enqueue must not
// block the redirect; it reports false when the visit was dropped.
type VisitRecorder interface {
	Enqueue(visit VisitInput) bool
}
