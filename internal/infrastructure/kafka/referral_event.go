package publisher

import "time"

type Envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type ParticipantRegisteredEvent struct {
	Address        string `json:"address"`
	SponsorAddress string `json:"sponsor_address"`
	LevelsCredited int    `json:"levels_credited"`
}

type InvestmentCreatedEvent struct {
	InvestmentID string  `json:"investment_id"`
	OwnerAddress string  `json:"owner_address"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
}

type CommissionAppliedEvent struct {
	ReferrerAddress string  `json:"referrer_address"`
	ReferredAddress string  `json:"referred_address"`
	Level           int     `json:"level"`
	Amount          float64 `json:"amount"`
}

type InconsistencyDetectedEvent struct {
	EventID            string `json:"event_id"`
	Kind               string `json:"kind"`
	Operation          string `json:"operation"`
	SubjectAddress     string `json:"subject_address"`
	RecordID           string `json:"record_id,omitempty"`
	LastCompletedLevel int    `json:"last_completed_level,omitempty"`
	Step               string `json:"step,omitempty"`
	Error              string `json:"error"`
}
