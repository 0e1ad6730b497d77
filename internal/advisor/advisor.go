// Package advisor is the client side of the relay: it keeps the conversation
// transcript, tracks whether the relay is reachable and falls back to the
// offline FAQ table whenever it is not.
package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrRequestPending = errors.New("a request is already in flight for this conversation")
)

const (
	chatContext  = "농업 AI 챗봇 상담"
	probeMessage = "테스트"
	probeContext = "AI 연결 테스트"

	welcomeText = "안녕하세요! 농업 AI 어시스턴트입니다. 🌱 작물 관리, 병해충 방제, 시세 정보 등 궁금한 점이 있으시면 언제든 물어보세요!\n\n💡 Google AI (Gemini) 모델이 연동되어 더욱 정확한 답변을 제공해드립니다."

	unconfiguredText = "⚠️ Google AI API 키가 설정되지 않았습니다.\n\n설정 방법:\n1. Google AI Studio에서 API 키 발급\n2. 프로젝트 설정에서 API 키 업로드\n3. 농업 AI 서비스 자동 활성화"
)

type ConnectionStatus int

const (
	StatusChecking ConnectionStatus = iota
	StatusConnected
	StatusDisconnected
)

func (s ConnectionStatus) String() string {
	switch s {
	case StatusChecking:
		return "checking"
	case StatusConnected:
		return "connected"
	case StatusDisconnected:
		return "disconnected"
	}
	return "unknown"
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	IsAI      bool      `json:"isAI"`
}

// Reply is one bot answer. IsAI is true only for non-empty relay text.
type Reply struct {
	Text string
	IsAI bool
}

// DiagnosisReport carries either the relay's diagnosis (IsAI) or the local Guidance.
type DiagnosisReport struct {
	Crop     string
	Purpose  models.DiagnosisPurpose
	Text     string
	IsAI     bool
	Guidance *Guidance
}

type Notifier interface {
	Notify(n models.Notification)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(models.Notification)

func (f NotifierFunc) Notify(n models.Notification) { f(n) }

type relay interface {
	Health(ctx context.Context) error
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Diagnose(ctx context.Context, req models.DiagnosisRequest) (*models.DiagnosisResponse, error)
}

// Advisor is one conversation. Relay failures never surface as errors; they
// switch the status to disconnected and produce a fallback answer instead.
type Advisor struct {
	relay    relay
	faq      *FAQResponder
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time

	mu                 sync.Mutex
	status             ConnectionStatus
	transcript         []Message
	pending            bool
	unconfiguredNotice bool
}

func New(r relay, notifier Notifier, logger *logrus.Logger) *Advisor {
	if notifier == nil {
		notifier = NotifierFunc(func(models.Notification) {})
	}
	a := &Advisor{
		relay:    r,
		faq:      NewFAQResponder(),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		status:   StatusChecking,
	}
	a.transcript = []Message{a.botMessage(welcomeText, false)}
	return a
}

func (a *Advisor) Status() ConnectionStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Advisor) setStatus(s ConnectionStatus) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// Transcript returns a copy of the conversation so far.
func (a *Advisor) Transcript() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Message, len(a.transcript))
	copy(out, a.transcript)
	return out
}

// CheckConnection runs the liveness probe: health check, then one synthetic chat.
func (a *Advisor) CheckConnection(ctx context.Context) ConnectionStatus {
	a.setStatus(StatusChecking)

	if err := a.relay.Health(ctx); err != nil {
		a.logger.WithError(err).Info("Relay health check failed")
		a.setStatus(StatusDisconnected)
		return StatusDisconnected
	}

	resp, err := a.relay.Chat(ctx, models.ChatRequest{Message: probeMessage, Context: probeContext})
	if err != nil {
		a.logger.WithError(err).Info("Relay probe failed")
		a.handleUnconfigured(err)
		a.setStatus(StatusDisconnected)
		return StatusDisconnected
	}
	if strings.TrimSpace(resp.Response) == "" {
		a.setStatus(StatusDisconnected)
		return StatusDisconnected
	}

	a.setStatus(StatusConnected)
	return StatusConnected
}

// Respond asks the relay and falls back to the FAQ table on any failure.
func (a *Advisor) Respond(ctx context.Context, msg string) Reply {
	reply, err := a.ask(ctx, msg)
	a.handleUnconfigured(err)
	return reply
}

func (a *Advisor) ask(ctx context.Context, msg string) (Reply, error) {
	resp, err := a.relay.Chat(ctx, models.ChatRequest{Message: msg, Context: chatContext})
	if err != nil {
		a.logger.WithError(err).Info("Relay chat failed, answering from FAQ")
		a.setStatus(StatusDisconnected)
		return Reply{Text: a.faq.Respond(msg)}, err
	}
	if strings.TrimSpace(resp.Response) == "" {
		a.setStatus(StatusDisconnected)
		return Reply{Text: a.faq.Respond(msg)}, nil
	}

	a.setStatus(StatusConnected)
	return Reply{Text: resp.Response, IsAI: true}, nil
}

// Send appends the user message and the bot answer to the transcript. Only
// one send may be in flight per conversation.
func (a *Advisor) Send(ctx context.Context, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}

	a.mu.Lock()
	if a.pending {
		a.mu.Unlock()
		return Message{}, ErrRequestPending
	}
	a.pending = true
	a.transcript = append(a.transcript, a.userMessage(text))
	a.mu.Unlock()

	reply, err := a.ask(ctx, text)
	bot := a.botMessage(reply.Text, reply.IsAI)

	a.mu.Lock()
	a.transcript = append(a.transcript, bot)
	a.pending = false
	a.mu.Unlock()

	a.handleUnconfigured(err)
	return bot, nil
}

// Diagnose requests a diagnosis from the relay, or builds the local guidance report.
func (a *Advisor) Diagnose(ctx context.Context, crop string, purpose models.DiagnosisPurpose, symptoms string) DiagnosisReport {
	report := DiagnosisReport{Crop: crop, Purpose: purpose}

	resp, err := a.relay.Diagnose(ctx, models.DiagnosisRequest{
		Crop:     crop,
		Purpose:  purpose.String(),
		Symptoms: symptoms,
	})
	if err == nil && strings.TrimSpace(resp.Diagnosis) != "" {
		a.setStatus(StatusConnected)
		a.notifier.Notify(models.NewNotification(models.LevelSuccess,
			"Google AI 진단이 완료되었습니다!", "고급 AI 모델로 분석한 결과입니다."))
		report.Text = resp.Diagnosis
		report.IsAI = true
		return report
	}

	if err != nil {
		a.logger.WithError(err).Info("Relay diagnosis failed, using local guidance")
	}
	a.setStatus(StatusDisconnected)
	a.handleUnconfigured(err)
	a.notifier.Notify(models.NewNotification(models.LevelWarning,
		"AI 서비스 연결 실패", "기본 진단 정보를 제공합니다."))

	g := localGuidance(crop, purpose)
	report.Guidance = &g
	report.Text = g.Render()
	return report
}

// handleUnconfigured surfaces a missing relay API key once per conversation.
func (a *Advisor) handleUnconfigured(err error) {
	var relayErr *RelayError
	if !errors.As(err, &relayErr) || !relayErr.Unconfigured() {
		return
	}

	a.mu.Lock()
	if a.unconfiguredNotice {
		a.mu.Unlock()
		return
	}
	a.unconfiguredNotice = true
	a.transcript = append(a.transcript, a.botMessage(unconfiguredText, false))
	a.mu.Unlock()

	a.notifier.Notify(models.NewNotification(models.LevelError,
		"AI 서비스 미설정", "Google AI API 키가 설정되지 않았습니다."))
}

func (a *Advisor) userMessage(text string) Message {
	return Message{ID: uuid.NewString(), Text: text, Sender: SenderUser, Timestamp: a.now()}
}

func (a *Advisor) botMessage(text string, isAI bool) Message {
	return Message{ID: uuid.NewString(), Text: text, Sender: SenderBot, Timestamp: a.now(), IsAI: isAI}
}
