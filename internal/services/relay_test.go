package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/logging"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

type stubGenerator struct {
	configured bool
	reply      string
	err        error
	calls      int
	prompts    []string
	profiles   []GenerationProfile
}

func (g *stubGenerator) Configured() bool { return g.configured }

func (g *stubGenerator) Generate(ctx context.Context, prompt string, profile GenerationProfile) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	g.profiles = append(g.profiles, profile)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

type stubExchangeLog struct {
	records []models.ExchangeLogRecord
	err     error
	seq     int
}

func (l *stubExchangeLog) Append(ctx context.Context, rec *models.ExchangeLogRecord) error {
	if l.err != nil {
		return l.err
	}
	l.seq++
	rec.Key = fmt.Sprintf("%s_%d", rec.Category, l.seq)
	l.records = append(l.records, *rec)
	return nil
}

type stubEmitter struct {
	emitted []models.Notification
}

func (e *stubEmitter) Emit(ctx context.Context, n models.Notification) error {
	e.emitted = append(e.emitted, n)
	return nil
}

func newTestRelay(gen *stubGenerator) (*RelayService, *stubExchangeLog, *stubEmitter) {
	exLog := &stubExchangeLog{}
	emitter := &stubEmitter{}
	return NewRelayService(gen, exLog, emitter, logging.Discard()), exLog, emitter
}

func TestRelayChat_MissingMessage(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		t.Run(fmt.Sprintf("%q", msg), func(t *testing.T) {
			gen := &stubGenerator{configured: true, reply: "ok"}
			relay, exLog, _ := newTestRelay(gen)

			resp, err := relay.Chat(context.Background(), models.ChatRequest{Message: msg, Context: "ctx"})
			assert.Nil(t, resp)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "message", missing.Field)
			assert.Zero(t, gen.calls)
			assert.Empty(t, exLog.records)
		})
	}
}

func TestRelayDiagnose_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		req   models.DiagnosisRequest
		field string
	}{
		{"missing crop", models.DiagnosisRequest{Purpose: "병해 진단"}, "crop"},
		{"missing purpose", models.DiagnosisRequest{Crop: "토마토"}, "purpose"},
		{"both missing", models.DiagnosisRequest{Symptoms: "잎이 노랗게 변함"}, "crop"},
		{"blank crop", models.DiagnosisRequest{Crop: "  ", Purpose: "병해 진단"}, "crop"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{configured: true, reply: "ok"}
			relay, exLog, emitter := newTestRelay(gen)

			_, err := relay.Diagnose(context.Background(), tc.req)

			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.field, missing.Field)
			assert.Zero(t, gen.calls)
			assert.Empty(t, exLog.records)
			assert.Empty(t, emitter.emitted)
		})
	}
}

func TestRelay_Unconfigured(t *testing.T) {
	gen := &stubGenerator{configured: false}
	relay, exLog, _ := newTestRelay(gen)

	_, err := relay.Chat(context.Background(), models.ChatRequest{Message: "고추 탄저병"})
	var unconfigured *UnconfiguredError
	require.ErrorAs(t, err, &unconfigured)
	assert.Contains(t, unconfigured.Details, "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "API key")

	_, err = relay.Diagnose(context.Background(), models.DiagnosisRequest{Crop: "고추", Purpose: "병해 진단"})
	require.ErrorAs(t, err, &unconfigured)

	assert.Zero(t, gen.calls)
	assert.Empty(t, exLog.records)
}

func TestRelayChat_Success(t *testing.T) {
	gen := &stubGenerator{configured: true, reply: "구리계 살균제를 살포하세요."}
	relay, exLog, _ := newTestRelay(gen)
	fixed := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	relay.now = func() time.Time { return fixed }

	resp, err := relay.Chat(context.Background(), models.ChatRequest{
		Message: "토마토 잎마름병 치료 방법",
		Context: "농업 AI 챗봇 상담",
	})
	require.NoError(t, err)

	assert.Equal(t, "구리계 살균제를 살포하세요.", resp.Response)
	assert.Equal(t, fixed, resp.Timestamp)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, ChatProfile, gen.profiles[0])
	assert.Contains(t, gen.prompts[0], "사용자 질문: 토마토 잎마름병 치료 방법")
	assert.Contains(t, gen.prompts[0], "현재 컨텍스트: 농업 AI 챗봇 상담")

	require.Len(t, exLog.records, 1)
	rec := exLog.records[0]
	assert.Equal(t, models.CategoryChat, rec.Category)
	assert.Equal(t, "토마토 잎마름병 치료 방법", rec.Question)
	assert.Equal(t, resp.Response, rec.Answer)
	require.NotNil(t, rec.Context)
	assert.Equal(t, "농업 AI 챗봇 상담", *rec.Context)
	assert.Equal(t, fixed, rec.Timestamp)
	assert.NotEmpty(t, rec.Key)
}

func TestRelayChat_DefaultContextLeavesRecordContextNil(t *testing.T) {
	gen := &stubGenerator{configured: true, reply: "답변"}
	relay, exLog, _ := newTestRelay(gen)

	_, err := relay.Chat(context.Background(), models.ChatRequest{Message: "물주기"})
	require.NoError(t, err)

	assert.Contains(t, gen.prompts[0], "현재 컨텍스트: 일반 농업 상담")
	require.Len(t, exLog.records, 1)
	assert.Nil(t, exLog.records[0].Context)
}

func TestRelayChat_UpstreamError(t *testing.T) {
	gen := &stubGenerator{configured: true, err: errors.New("googleapi: Error 503: overloaded")}
	relay, exLog, _ := newTestRelay(gen)

	_, err := relay.Chat(context.Background(), models.ChatRequest{Message: "비료 주는 시기"})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Error(), "503")
	assert.Equal(t, 1, gen.calls, "relay must not retry")
	assert.Empty(t, exLog.records)
}

func TestRelayChat_MalformedResponse(t *testing.T) {
	gen := &stubGenerator{configured: true, err: fmt.Errorf("%w: no candidate text", ErrMalformedResponse)}
	relay, exLog, _ := newTestRelay(gen)

	_, err := relay.Chat(context.Background(), models.ChatRequest{Message: "날씨"})

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, exLog.records)
}

func TestRelayChat_LogFailureStillAnswers(t *testing.T) {
	gen := &stubGenerator{configured: true, reply: "답변"}
	relay, exLog, _ := newTestRelay(gen)
	exLog.err = errors.New("redis: connection refused")

	resp, err := relay.Chat(context.Background(), models.ChatRequest{Message: "시세"})
	require.NoError(t, err)
	assert.Equal(t, "답변", resp.Response)
}

func TestRelayChat_IdenticalRequestsIdenticalOutput(t *testing.T) {
	gen := &stubGenerator{configured: true, reply: "동일한 답변"}
	relay, exLog, _ := newTestRelay(gen)
	req := models.ChatRequest{Message: "양파 노균병", Context: "상담"}

	first, err := relay.Chat(context.Background(), req)
	require.NoError(t, err)
	second, err := relay.Chat(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Response, second.Response)
	assert.Equal(t, gen.prompts[0], gen.prompts[1])
	require.Len(t, exLog.records, 2)
	assert.NotEqual(t, exLog.records[0].Key, exLog.records[1].Key)
}

func TestRelayDiagnose_Success(t *testing.T) {
	gen := &stubGenerator{configured: true, reply: "## 🔍 진단 결과\n잎마름병"}
	relay, exLog, emitter := newTestRelay(gen)

	resp, err := relay.Diagnose(context.Background(), models.DiagnosisRequest{
		Crop:      "토마토",
		Purpose:   "병해 진단",
		ImageData: "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	assert.Equal(t, gen.reply, resp.Diagnosis)
	assert.Equal(t, "토마토", resp.Crop)
	assert.Equal(t, "병해 진단", resp.Purpose)
	assert.False(t, resp.Timestamp.IsZero())

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, DiagnosisProfile, gen.profiles[0])
	assert.Contains(t, gen.prompts[0], "당신은 토마토 전문 진단 AI입니다.")
	assert.Contains(t, gen.prompts[0], "증상 설명: 사용자가 제공한 정보 없음")
	assert.NotContains(t, gen.prompts[0], "base64")

	require.Len(t, exLog.records, 1)
	assert.Equal(t, models.CategoryDiagnosis, exLog.records[0].Category)
	assert.Equal(t, "토마토", exLog.records[0].Crop)
	assert.Nil(t, exLog.records[0].Context)

	require.Len(t, emitter.emitted, 1)
	assert.Equal(t, models.LevelSuccess, emitter.emitted[0].Level)
}

func TestRelayDiagnose_UpstreamErrorEmitsNothing(t *testing.T) {
	gen := &stubGenerator{configured: true, err: context.DeadlineExceeded}
	relay, exLog, emitter := newTestRelay(gen)

	_, err := relay.Diagnose(context.Background(), models.DiagnosisRequest{Crop: "배추", Purpose: "충해 진단"})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Empty(t, exLog.records)
	assert.Empty(t, emitter.emitted)
}

func TestNewRelayService_NilEmitter(t *testing.T) {
	gen := &stubGenerator{configured: true, reply: "ok"}
	relay := NewRelayService(gen, &stubExchangeLog{}, nil, logging.Discard())

	_, err := relay.Diagnose(context.Background(), models.DiagnosisRequest{Crop: "오이", Purpose: "생육 상태"})
	require.NoError(t, err)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "message is required", (&MissingFieldError{Field: "message"}).Error())
	assert.True(t, strings.HasPrefix((&MalformedResponseError{Reason: "x"}).Error(), "invalid response"))
}
