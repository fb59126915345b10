package model

import "time"

// BatchStatus represents the state of a send batch.
type BatchStatus string

const (
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusPaused    BatchStatus = "paused"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

// Batch is the audit record for one send run.
type Batch struct {
	ID         string      `json:"id"`
	SourceFile string      `json:"source_file"`
	Template   string      `json:"template"`
	Total      int         `json:"total"`
	Sent       int         `json:"sent"`
	Errors     int         `json:"errors"`
	Status     BatchStatus `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// Outcome records the result of a single contact's send attempt.
type Outcome struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batch_id"`
	Index     int       `json:"index"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
