package worker

import "time"

// Job is one simulated crack run handed to the pool
type Job struct {
	Key           string
	CorrelationID string
	Run           int
	SubmittedAt   time.Time
}
