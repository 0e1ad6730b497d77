package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: r.Header.Get("X-Request-ID"),
	}
}

func errorRespWithDetails(code, message, details string, r *http.Request) models.ErrorResponse {
	resp := errorResp(code, message, r)
	resp.Details = details
	return resp
}

// decodeJSON reads a single JSON object from the body. An oversize body
// (see middleware.BodyLimit) and malformed JSON both answer 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp(models.CodeValidation, "Request body too large", r))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResp(models.CodeValidation, "Invalid request body", r))
		return false
	}
	return true
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch e := err.(type) {
	case *services.MissingFieldError:
		writeJSON(w, http.StatusBadRequest, errorResp(models.CodeMissingField, e.Error(), r))
	case *services.UnconfiguredError:
		writeJSON(w, http.StatusInternalServerError, errorRespWithDetails(models.CodeServiceUnconfigured, e.Error(), e.Details, r))
	case *services.UpstreamError:
		writeJSON(w, http.StatusInternalServerError, errorRespWithDetails(models.CodeUpstream, "Failed to get AI response", e.Err.Error(), r))
	case *services.MalformedResponseError:
		writeJSON(w, http.StatusInternalServerError, errorResp(models.CodeMalformedUpstream, "Invalid response format from AI service", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp(models.CodeInternal, "An unexpected error occurred", r))
	}
}
