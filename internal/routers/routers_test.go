package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"namegen-api/internal/pipeline"
	"namegen-api/internal/shared"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	calls atomic.Int32
	reply pipeline.GenerationReply
	err   error
}

func (s *stubProvider) Generate(context.Context, pipeline.GenerationRequest) (pipeline.GenerationReply, error) {
	s.calls.Add(1)
	return s.reply, s.err
}

type memRecorder struct {
	mu      sync.Mutex
	records []shared.GenerationRecord
}

func (m *memRecorder) Record(rec shared.GenerationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

func newServer(t *testing.T, provider *stubProvider, recorder *memRecorder) *echo.Echo {
	t.Helper()
	e := NewEcho(zap.NewNop().Sugar())
	cfg := GenerateRouterConfig{
		Pipeline:   pipeline.New(provider),
		Provider:   "stub",
		InstanceID: "instance-1",
	}
	if recorder != nil {
		cfg.Recorder = recorder
	}
	RegisterGenerateRoutes(e, cfg)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGenerateSuccess(t *testing.T) {
	provider := &stubProvider{reply: `'Here's a username: Deep Wanderer'`}
	recorder := &memRecorder{}
	e := newServer(t, provider, recorder)

	for _, path := range GeneratePaths {
		rec := do(e, http.MethodPost, path, `{"prompt": "ocean explorer"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Deep-Wanderer", rec.Body.String())
		assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	}

	require.Len(t, recorder.records, 2)
	assert.Equal(t, "ocean explorer", recorder.records[0].Prompt)
	assert.Equal(t, "Deep-Wanderer", recorder.records[0].Identifier)
	assert.Equal(t, "success", recorder.records[0].Outcome)
	assert.Equal(t, "instance-1", recorder.records[0].InstanceID)
	assert.True(t, strings.HasPrefix(recorder.records[0].RequestID, "req_"))
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		provider *stubProvider
		code     int
		message  string
		calls    int32
	}{
		{name: "missing prompt", body: `{}`, provider: &stubProvider{}, code: 400, message: `please provide a "prompt" in the request body`},
		{name: "blank prompt", body: `{"prompt": "  "}`, provider: &stubProvider{}, code: 400, message: `please provide a "prompt" in the request body`},
		{name: "no body", body: ``, provider: &stubProvider{}, code: 400, message: `please provide a "prompt" in the request body`},
		{name: "not json", body: `prompt=x`, provider: &stubProvider{}, code: 400, message: "request body must be a JSON object"},
		{name: "empty reply", body: `{"prompt": "x"}`, provider: &stubProvider{reply: ""}, code: 500, message: "no identifier could be generated, try a different prompt", calls: 1},
		{
			name:     "provider down",
			body:     `{"prompt": "x"}`,
			provider: &stubProvider{err: pipeline.Unavailable("dial tcp: refused", nil)},
			code:     500,
			message:  "generation failed",
			calls:    1,
		},
		{
			name:     "provider error",
			body:     `{"prompt": 42}`,
			provider: &stubProvider{err: pipeline.ProviderFailure("quota exceeded", shared.ErrProviderStatus)},
			code:     500,
			message:  "generation failed",
			calls:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newServer(t, tt.provider, nil)
			rec := do(e, http.MethodPost, "/generate", tt.body)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.message, rec.Body.String())
			assert.Equal(t, tt.calls, tt.provider.calls.Load())
			assert.NotContains(t, rec.Body.String(), "quota")
		})
	}
}

func TestGenerateListPrompt(t *testing.T) {
	provider := &stubProvider{reply: "TideRunner"}
	recorder := &memRecorder{}
	e := newServer(t, provider, recorder)

	rec := do(e, http.MethodPost, "/generate", `{"prompt": ["ocean", "explorer"]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "TideRunner", rec.Body.String())
	require.Len(t, recorder.records, 1)
	assert.Equal(t, `["ocean","explorer"]`, recorder.records[0].Prompt)
}

func TestGenerateBodyTooLarge(t *testing.T) {
	provider := &stubProvider{reply: "x"}
	e := newServer(t, provider, nil)

	body := `{"prompt": "` + strings.Repeat("a", 70*1024) + `"}`
	rec := do(e, http.MethodPost, "/generate", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, provider.calls.Load())
}

func TestInvalidInputNotRecorded(t *testing.T) {
	recorder := &memRecorder{}
	e := newServer(t, &stubProvider{reply: "x"}, recorder)

	do(e, http.MethodPost, "/generate", `{}`)
	do(e, http.MethodPost, "/generate", `{"prompt": "x"}`)
	assert.Len(t, recorder.records, 1)
}

func TestMethodNotAllowed(t *testing.T) {
	e := newServer(t, &stubProvider{}, nil)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rec := do(e, method, "/", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.Equal(t, "Method Not Allowed", rec.Body.String())
	}
}

func TestPreflight(t *testing.T) {
	e := newServer(t, &stubProvider{}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set(echo.HeaderOrigin, "https://app.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, echo.HeaderContentType, rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
}
