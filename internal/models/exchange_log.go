package models

import "time"

type ExchangeCategory string

const (
	CategoryChat      ExchangeCategory = "chat"
	CategoryDiagnosis ExchangeCategory = "diagnosis"
)

// ExchangeLogRecord is the audit entry written after a successful upstream call.
// Records are written once and never updated.
type ExchangeLogRecord struct {
	Key       string           `json:"key"`
	Category  ExchangeCategory `json:"category"`
	Question  string           `json:"question,omitempty"`
	Crop      string           `json:"crop,omitempty"`
	Purpose   string           `json:"purpose,omitempty"`
	Symptoms  string           `json:"symptoms,omitempty"`
	Answer    string           `json:"answer"`
	Context   *string          `json:"context"`
	Timestamp time.Time        `json:"timestamp"`
}
