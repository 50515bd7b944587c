package model

import (
	"time"
)

const (
	JobStatusQueued     = "Queued"
	JobStatusProcessing = "Processing"
	JobStatusCompleted  = "Completed"
	JobStatusFailed     = "Failed"
)

// ExecuteRequest is one submission of code against a problem.
type ExecuteRequest struct {
	ProblemID string   `json:"problemId"`
	Language  Language `json:"language"`
	Version   string   `json:"version"`
	Code      string   `json:"code"`
}

// ExecutionJob is an asynchronous run of an ExecuteRequest.
type ExecutionJob struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Request   ExecuteRequest   `json:"request"`
	Report    *ExecutionReport `json:"report,omitempty"`
	LastError *string          `json:"lastError,omitempty"`
	Attempts  int              `json:"attempts"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
