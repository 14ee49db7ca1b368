package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/mohammad-safakhou/contentagent/internal/agent"
)

// stubAgent returns a fixed response or error.
type stubAgent struct {
	resp *agent.Response
	err  error

	gotTopic string
	gotOpts  agent.Options
}

func (s *stubAgent) Run(ctx context.Context, topic string, opts agent.Options) (*agent.Response, error) {
	s.gotTopic = topic
	s.gotOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testConfig() *config.Config {
	return &config.Config{}
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubAgent{resp: &agent.Response{
		RetrievedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Insights: []agent.Insight{{
			Title:     "Automation Pays Off",
			URL:       "https://example.com/a",
			Summary:   "Setup time dropped.",
			KeyPoints: []string{"Setup time dropped forty percent."},
			Keywords:  []string{"automation"},
		}},
		ContentIdeas: agent.ContentIdeas{
			Headlines:   []string{},
			BlogOutline: []string{"Introduction: why it matters"},
			SocialPosts: []string{},
			VideoScript: []string{},
		},
	}}
	e := NewEcho(testConfig(), stub)

	body := `{"topic":"AI marketing automation","tone":"playful","contentFormats":["blog_outline"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotTopic != "AI marketing automation" || stub.gotOpts.Tone != "playful" {
		t.Fatalf("request not passed through: %q %+v", stub.gotTopic, stub.gotOpts)
	}

	var out map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	for _, key := range []string{"retrievedAt", "insights", "contentIdeas"} {
		if _, ok := out[key]; !ok {
			t.Fatalf("response missing %q: %s", key, rec.Body.String())
		}
	}
	// empty lists must serialize as [], not null
	if strings.Contains(rec.Body.String(), `"headlines":null`) {
		t.Fatalf("empty list serialized as null: %s", rec.Body.String())
	}
}

func TestGenerateInvalidRequestIs400(t *testing.T) {
	stub := &stubAgent{err: &agent.InvalidRequestError{Reason: "topic must not be blank"}}
	e := NewEcho(testConfig(), stub)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"topic":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Fatalf("expected error payload, got %s", rec.Body.String())
	}
}

func TestGeneratePipelineFailureIs500(t *testing.T) {
	stub := &stubAgent{err: &agent.EmptyResultError{Stage: "fetching", Err: agent.ErrNoResults}}
	e := NewEcho(testConfig(), stub)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"topic":"obscure"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	e := NewEcho(testConfig(), &stubAgent{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
