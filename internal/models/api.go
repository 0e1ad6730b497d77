package models

// Error codes returned in ErrorResponse.Code.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeMissingField        = "MISSING_FIELD"
	CodeServiceUnconfigured = "SERVICE_UNCONFIGURED"
	CodeUpstream            = "UPSTREAM_ERROR"
	CodeMalformedUpstream   = "MALFORMED_UPSTREAM_RESPONSE"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse keeps the message in a flat "error" field so that clients
// which only look at "error" keep working; Code is the machine-readable kind.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
