package handlers

import (
	"context"
	"net/http"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type relayService interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Diagnose(ctx context.Context, req models.DiagnosisRequest) (*models.DiagnosisResponse, error)
}

type RelayHandler struct {
	relay relayService
}

func NewRelayHandler(relay relayService) *RelayHandler {
	return &RelayHandler{relay: relay}
}

func (h *RelayHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

func (h *RelayHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.relay.Chat(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *RelayHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	var req models.DiagnosisRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.relay.Diagnose(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
