package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/catalog"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/handlers"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/logging"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/middleware"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/models"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/repository"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/services"
	"github.com/kimjaeduck-99/NICKMOONG-AI-agriculture-test/internal/websocket"
)

type fixedGenerator struct {
	configured bool
	calls      int
}

func (g *fixedGenerator) Configured() bool { return g.configured }

func (g *fixedGenerator) Generate(ctx context.Context, prompt string, profile services.GenerationProfile) (string, error) {
	g.calls++
	return "답변: " + profile.Name, nil
}

func newTestRouter(t *testing.T, gen *fixedGenerator, opts Options) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := logging.Discard()
	relay := services.NewRelayService(gen, repository.NewNopExchangeLog(), nil, logger)
	hub := websocket.NewHub(nil, services.NotificationChannel, nil, logger)

	return New(ctx,
		handlers.NewRelayHandler(relay),
		handlers.NewCatalogHandler(catalog.NewStatic()),
		hub,
		opts,
	)
}

func do(h http.Handler, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_HealthAndChat(t *testing.T) {
	gen := &fixedGenerator{configured: true}
	h := newTestRouter(t, gen, Options{})

	rr := do(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Zero(t, gen.calls, "health must not touch the upstream")

	rr = do(h, http.MethodPost, "/ai-chat", `{"message":"물주기"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var chat models.ChatResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&chat))
	assert.Equal(t, "답변: chat", chat.Response)

	rr = do(h, http.MethodPost, "/ai-diagnose", `{"crop":"토마토","purpose":"병해 진단"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, gen.calls)
}

func TestRouter_Unconfigured(t *testing.T) {
	gen := &fixedGenerator{configured: false}
	h := newTestRouter(t, gen, Options{})

	rr := do(h, http.MethodPost, "/ai-chat", `{"message":"물주기"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, models.CodeServiceUnconfigured, resp.Code)
	assert.Equal(t, "GEMINI_API_KEY environment variable is missing", resp.Details)
	assert.Equal(t, rr.Header().Get("X-Request-ID"), resp.RequestID)
	assert.Zero(t, gen.calls)
}

func TestRouter_RoutePrefix(t *testing.T) {
	h := newTestRouter(t, &fixedGenerator{configured: true}, Options{RoutePrefix: "/make-server-6ba9087f"})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/make-server-6ba9087f/health", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_PlatformAuth(t *testing.T) {
	auth := middleware.NewPlatformAuth("secret")
	h := newTestRouter(t, &fixedGenerator{configured: true}, Options{Auth: auth})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", nil).Code, "health stays public")
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/ai-chat", `{"message":"x"}`, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/catalog/crops", "", nil).Code)

	token, err := auth.GenerateToken(middleware.RoleAnon, time.Hour)
	require.NoError(t, err)
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, "/ai-chat", `{"message":"x"}`, header).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/catalog/crops", "", header).Code)
}

func TestRouter_AIRateLimit(t *testing.T) {
	h := newTestRouter(t, &fixedGenerator{configured: true}, Options{AIRateLimit: 2})

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/ai-chat", `{"message":"x"}`, nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodPost, "/ai-chat", `{"message":"x"}`, nil).Code)

	// Catalog and health are outside the AI limiter.
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/catalog/experts", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", nil).Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	gen := &fixedGenerator{configured: true}
	h := newTestRouter(t, gen, Options{MaxBodyBytes: 32})

	body := `{"message":"` + strings.Repeat("a", 64) + `"}`
	rr := do(h, http.MethodPost, "/ai-chat", body, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Zero(t, gen.calls)
}

func TestRouter_Preflight(t *testing.T) {
	h := newTestRouter(t, &fixedGenerator{configured: true}, Options{Auth: middleware.NewPlatformAuth("secret")})

	rr := do(h, http.MethodOptions, "/ai-chat", "", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
