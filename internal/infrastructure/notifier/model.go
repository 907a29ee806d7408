package notifier

import "time"

type InconsistencyAlert struct {
	EventID            string    `json:"event_id"`
	Kind               string    `json:"kind"`
	Operation          string    `json:"operation"`
	SubjectAddress     string    `json:"subject_address"`
	RecordID           string    `json:"record_id,omitempty"`
	LastCompletedLevel int       `json:"last_completed_level,omitempty"`
	Step               string    `json:"step,omitempty"`
	Error              string    `json:"error"`
	DetectedAt         time.Time `json:"detected_at"`
}
