package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

// RelayError is a non-2xx answer from the relay.
type RelayError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *RelayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("relay returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}

// Unconfigured reports whether the relay is missing its upstream API key.
// Older relays only say so in the message text.
func (e *RelayError) Unconfigured() bool {
	return e.Code == models.CodeServiceUnconfigured || strings.Contains(e.Message, "API key")
}

// RelayClient talks to the relay's HTTP surface.
type RelayClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewRelayClient(baseURL, anonKey string, timeout time.Duration, logger *logrus.Logger) *RelayClient {
	return &RelayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *RelayClient) Health(ctx context.Context) error {
	var resp models.HealthResponse
	return c.makeRequest(ctx, http.MethodGet, "/health", nil, &resp)
}

func (c *RelayClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/ai-chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RelayClient) Diagnose(ctx context.Context, req models.DiagnosisRequest) (*models.DiagnosisResponse, error) {
	var resp models.DiagnosisResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/ai-diagnose", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *RelayClient) makeRequest(ctx context.Context, method, endpoint string, payload, result interface{}) error {
	url := c.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"method":        method,
		"url":           url,
		"response_size": len(responseBody),
	}).Debug("Relay response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		relayErr := &RelayError{Status: resp.StatusCode, Message: strings.TrimSpace(string(responseBody))}
		var apiErr models.ErrorResponse
		if json.Unmarshal(responseBody, &apiErr) == nil && apiErr.Error != "" {
			relayErr.Code = apiErr.Code
			relayErr.Message = apiErr.Error
			relayErr.Details = apiErr.Details
		}
		return relayErr
	}

	if result != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
