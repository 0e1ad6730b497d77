package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// HarmCategory names a content-safety category blocked at medium probability and above.
type HarmCategory string

const (
	HarmHarassment       HarmCategory = "harassment"
	HarmHateSpeech       HarmCategory = "hate_speech"
	HarmSexuallyExplicit HarmCategory = "sexually_explicit"
	HarmDangerousContent HarmCategory = "dangerous_content"
)

var defaultBlockedCategories = []HarmCategory{
	HarmHarassment,
	HarmHateSpeech,
	HarmSexuallyExplicit,
	HarmDangerousContent,
}

// GenerationProfile is the bounded parameter set for one upstream call.
type GenerationProfile struct {
	Name              string
	Temperature       float32
	TopP              float32
	TopK              int32
	MaxOutputTokens   int32
	BlockedCategories []HarmCategory
}

var (
	// ChatProfile favours a conversational tone.
	ChatProfile = GenerationProfile{
		Name:              "chat",
		Temperature:       0.7,
		TopP:              0.95,
		TopK:              40,
		MaxOutputTokens:   1024,
		BlockedCategories: defaultBlockedCategories,
	}

	// DiagnosisProfile favours consistency over creativity.
	DiagnosisProfile = GenerationProfile{
		Name:              "diagnosis",
		Temperature:       0.3,
		TopP:              0.8,
		TopK:              20,
		MaxOutputTokens:   2048,
		BlockedCategories: defaultBlockedCategories,
	}
)

// Generator is the upstream generative-language API as seen by the relay.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string, profile GenerationProfile) (string, error)
}

type GeminiService struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	logger    *logrus.Logger
	rateChan  chan struct{} // Token bucket
}

// NewGeminiService returns an unconfigured service when apiKey is empty; no
// client is created and every call is rejected before touching the network.
func NewGeminiService(ctx context.Context, apiKey, modelName string, concurrentReqs int, timeout time.Duration, logger *logrus.Logger) (*GeminiService, error) {
	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	s := &GeminiService{
		modelName: modelName,
		timeout:   timeout,
		logger:    logger,
		rateChan:  rateChan,
	}

	if apiKey == "" {
		return s, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *GeminiService) Configured() bool {
	return s.client != nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Generate performs exactly one GenerateContent call. Blocked or empty
// candidates are reported as ErrMalformedResponse.
func (s *GeminiService) Generate(ctx context.Context, prompt string, profile GenerationProfile) (string, error) {
	if s.client == nil {
		return "", errors.New("Gemini client is not configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	model := s.client.GenerativeModel(s.modelName)
	applyProfile(model, profile)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, blocked)
		}
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.WithFields(logrus.Fields{
				"candidate":     i,
				"finish_reason": cand.FinishReason.String(),
				"profile":       profile.Name,
			}).Warn("Gemini candidate did not finish normally")
		}
	}

	text, ok := extractText(resp)
	if !ok {
		return "", fmt.Errorf("%w: no candidate text", ErrMalformedResponse)
	}

	s.logger.WithFields(logrus.Fields{
		"profile":     profile.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"chars":       len(text),
	}).Debug("Gemini call completed")

	return text, nil
}

func applyProfile(model *genai.GenerativeModel, profile GenerationProfile) {
	model.SetTemperature(profile.Temperature)
	model.SetTopP(profile.TopP)
	model.SetTopK(profile.TopK)
	model.SetMaxOutputTokens(profile.MaxOutputTokens)

	model.SafetySettings = nil
	for _, c := range profile.BlockedCategories {
		if hc, ok := genaiHarmCategory(c); ok {
			model.SafetySettings = append(model.SafetySettings, &genai.SafetySetting{
				Category:  hc,
				Threshold: genai.HarmBlockMediumAndAbove,
			})
		}
	}
}

func genaiHarmCategory(c HarmCategory) (genai.HarmCategory, bool) {
	switch c {
	case HarmHarassment:
		return genai.HarmCategoryHarassment, true
	case HarmHateSpeech:
		return genai.HarmCategoryHateSpeech, true
	case HarmSexuallyExplicit:
		return genai.HarmCategorySexuallyExplicit, true
	case HarmDangerousContent:
		return genai.HarmCategoryDangerousContent, true
	}
	return genai.HarmCategoryUnspecified, false
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", false
	}

	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", false
	}
	return text.String(), true
}
