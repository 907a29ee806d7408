package domain

import (
	"context"
	"time"
)

// InconsistencyEvent is the persisted trace of a partial failure, kept until
// the reconciler or an operator resolves it.
type InconsistencyEvent struct {
	ID                 string
	Kind               ErrorKind
	Operation          string
	SubjectAddress     string
	RecordID           string
	LastCompletedLevel int
	Step               string
	Error              string
	Attempts           int
	Resolved           bool
	CreatedAt          time.Time
	ResolvedAt         *time.Time
}

type InconsistencyRepository interface {
	RecordInconsistency(ctx context.Context, event *InconsistencyEvent) error
	ListOpenInconsistencies(ctx context.Context, kind ErrorKind, limit int) ([]*InconsistencyEvent, error)
	MarkInconsistencyResolved(ctx context.Context, id string, at time.Time) error
	IncrementInconsistencyAttempts(ctx context.Context, id string, lastError string) error
}
