package models

import "time"

// DiagnosisRequest is the payload sent to the diagnosis endpoint.
// ImageData is accepted for compatibility and never inspected.
type DiagnosisRequest struct {
	Crop      string `json:"crop"`
	Purpose   string `json:"purpose"`
	Symptoms  string `json:"symptoms,omitempty"`
	ImageData string `json:"imageData,omitempty"`
}

type DiagnosisResponse struct {
	Diagnosis string    `json:"diagnosis"`
	Crop      string    `json:"crop"`
	Purpose   string    `json:"purpose"`
	Timestamp time.Time `json:"timestamp"`
}
