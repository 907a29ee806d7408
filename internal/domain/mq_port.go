package domain

import "context"

type Message struct {
	Key   []byte
	Value []byte
}

const (
	EventParticipantRegistered = "participant.registered"
	EventInvestmentCreated     = "investment.created"
	EventCommissionApplied     = "commission.applied"
	EventInconsistencyDetected = "inconsistency.detected"
)

// EventPublisher delivers domain events keyed by participant address.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, key string, payload any) error
}
