package webhook

import "time"

// CompletionPayload is the body posted when a job reaches the cracked state
type CompletionPayload struct {
	Hash          string    `json:"hash"`
	Status        string    `json:"status"`
	Run           int       `json:"run"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CompletedAt   time.Time `json:"completed_at"`
}
