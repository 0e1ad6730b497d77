package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

const unconfiguredDetails = "GEMINI_API_KEY environment variable is missing"

// ExchangeLog is the append-only store for successful exchanges.
type ExchangeLog interface {
	Append(ctx context.Context, rec *models.ExchangeLogRecord) error
}

// RelayService forwards chat and diagnosis prompts to the upstream model.
// It holds no per-request state; every call makes at most one upstream request.
type RelayService struct {
	generator   Generator
	exchangeLog ExchangeLog
	emitter     Emitter
	logger      *logrus.Logger
	now         func() time.Time
}

func NewRelayService(generator Generator, exchangeLog ExchangeLog, emitter Emitter, logger *logrus.Logger) *RelayService {
	if emitter == nil {
		emitter = NopEmitter()
	}
	return &RelayService{
		generator:   generator,
		exchangeLog: exchangeLog,
		emitter:     emitter,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *RelayService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &MissingFieldError{Field: "message"}
	}
	if !s.generator.Configured() {
		s.logger.Warn("AI chat requested but Gemini API key is not configured")
		return nil, &UnconfiguredError{Details: unconfiguredDetails}
	}

	answer, err := s.generate(ctx, buildChatPrompt(message, req.Context), ChatProfile)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var convCtx *string
	if c := strings.TrimSpace(req.Context); c != "" {
		convCtx = &c
	}
	s.record(ctx, &models.ExchangeLogRecord{
		Category:  models.CategoryChat,
		Question:  message,
		Answer:    answer,
		Context:   convCtx,
		Timestamp: now,
	})

	return &models.ChatResponse{Response: answer, Timestamp: now}, nil
}

func (s *RelayService) Diagnose(ctx context.Context, req models.DiagnosisRequest) (*models.DiagnosisResponse, error) {
	crop := strings.TrimSpace(req.Crop)
	purpose := strings.TrimSpace(req.Purpose)
	if crop == "" {
		return nil, &MissingFieldError{Field: "crop"}
	}
	if purpose == "" {
		return nil, &MissingFieldError{Field: "purpose"}
	}
	if !s.generator.Configured() {
		s.logger.Warn("AI diagnosis requested but Gemini API key is not configured")
		return nil, &UnconfiguredError{Details: unconfiguredDetails}
	}

	diagnosis, err := s.generate(ctx, buildDiagnosisPrompt(crop, purpose, req.Symptoms), DiagnosisProfile)
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.record(ctx, &models.ExchangeLogRecord{
		Category:  models.CategoryDiagnosis,
		Crop:      crop,
		Purpose:   purpose,
		Symptoms:  strings.TrimSpace(req.Symptoms),
		Answer:    diagnosis,
		Timestamp: now,
	})

	n := models.NewNotification(models.LevelSuccess, "AI 진단 완료", crop+" "+purpose+" 결과가 준비되었습니다.")
	if err := s.emitter.Emit(ctx, n); err != nil {
		s.logger.WithError(err).Warn("Failed to emit diagnosis notification")
	}

	return &models.DiagnosisResponse{
		Diagnosis: diagnosis,
		Crop:      crop,
		Purpose:   purpose,
		Timestamp: now,
	}, nil
}

func (s *RelayService) generate(ctx context.Context, prompt string, profile GenerationProfile) (string, error) {
	text, err := s.generator.Generate(ctx, prompt, profile)
	if err == nil {
		return text, nil
	}

	if errors.Is(err, ErrMalformedResponse) {
		s.logger.WithError(err).WithField("profile", profile.Name).Error("Invalid response format from Gemini")
		return "", &MalformedResponseError{Reason: err.Error()}
	}
	s.logger.WithError(err).WithField("profile", profile.Name).Error("Gemini call failed")
	return "", &UpstreamError{Err: err}
}

// record writes the audit entry. A failed write does not turn a delivered
// answer into an error.
func (s *RelayService) record(ctx context.Context, rec *models.ExchangeLogRecord) {
	if err := s.exchangeLog.Append(ctx, rec); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"category": rec.Category,
			"key":      rec.Key,
		}).Error("Failed to write exchange log record")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"category": rec.Category,
		"key":      rec.Key,
	}).Info("Exchange logged")
}
