package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ielts-speaking/backend/internal/api"
	"github.com/ielts-speaking/backend/internal/llm"
	"github.com/ielts-speaking/backend/internal/ratelimit"
	"github.com/ielts-speaking/backend/internal/service"
	"github.com/ielts-speaking/backend/internal/store"
	"github.com/ielts-speaking/backend/internal/telemetry"
)

type stubProvider struct {
	reply  string
	err    error
	delay  time.Duration
	vector []float32
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, c *llm.Completion) (string, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.reply, p.err
}

func (p *stubProvider) Embed(ctx context.Context, input string) ([]float32, error) {
	if p.vector == nil {
		return nil, &llm.UpstreamError{Provider: "stub", Op: "embed", Err: llm.ErrUnsupported}
	}
	return p.vector, nil
}

type testServer struct {
	handler http.Handler
	svc     *service.GenerationService
}

func newTestServer(t *testing.T, p llm.Provider, limit int, timeout time.Duration) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	metrics, err := telemetry.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	settings := service.DefaultSettings()
	settings.Timeout = timeout
	svc := service.NewGenerationService(p, ratelimit.NewDailyCounter(limit, time.UTC, nil), metrics, settings, 8, logger)
	t.Cleanup(svc.Close)

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "questions.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.NewHandler(svc, db, logger))

	return &testServer{
		handler: api.Logging(logger)(api.CORS([]string{"https://stanleyhi.com"})(mux)),
		svc:     svc,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

const reply = "Band 6 Answer:\nI went to...\n\nBand 6 Comment:\nGood fluency.\n\nVocabulary Highlights:\n1. scenic\n..."

func TestPing(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	rec := s.do(t, http.MethodGet, "/ping", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("expected status ok, got %v", got)
	}
}

func TestGenerate_OK(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: reply}, 5, time.Second)

	rec := s.do(t, http.MethodPost, "/generate", `{"part":"2","question":"Describe a memorable trip.","band":"6"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	got := decode[map[string]string](t, rec)
	want := map[string]string{
		"band6":    "I went to...",
		"comment6": "Good fluency.",
		"vocab6":   "1. scenic\n...",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		limit    int
		timeout  time.Duration
		body     string
		want     int
	}{
		{"malformed JSON", &stubProvider{reply: reply}, 5, time.Second, `{"part":`, http.StatusBadRequest},
		{"missing question", &stubProvider{reply: reply}, 5, time.Second, `{"part":"1"}`, http.StatusBadRequest},
		{"invalid band", &stubProvider{reply: reply}, 5, time.Second, `{"part":"1","question":"Q?","band":"8"}`, http.StatusBadRequest},
		{"invalid part", &stubProvider{reply: reply}, 5, time.Second, `{"part":"4","question":"Q?"}`, http.StatusBadRequest},
		{"limit zero", &stubProvider{reply: reply}, 0, time.Second, `{"part":"1","question":"Q?","band":"6"}`, http.StatusTooManyRequests},
		{"timeout", &stubProvider{reply: reply, delay: 200 * time.Millisecond}, 5, 20 * time.Millisecond, `{"part":"1","question":"Q?","band":"6"}`, http.StatusGatewayTimeout},
		{"provider failure", &stubProvider{err: errors.New("connection refused")}, 5, time.Second, `{"part":"1","question":"Q?","band":"6"}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.provider, tt.limit, tt.timeout)

			rec := s.do(t, http.MethodPost, "/generate", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if got := decode[map[string]string](t, rec); got["error"] == "" {
				t.Error("expected error message in body")
			}
		})
	}
}

func TestGenerate_ProviderMessageSurfaced(t *testing.T) {
	s := newTestServer(t, &stubProvider{err: errors.New("connection refused")}, 5, time.Second)

	rec := s.do(t, http.MethodPost, "/generate", `{"part":"1","question":"Q?"}`)
	got := decode[map[string]string](t, rec)
	if !strings.Contains(got["error"], "connection refused") {
		t.Errorf("expected provider message, got %q", got["error"])
	}
}

func TestGenerate_DailyLimitThenUsage(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: reply}, 1, time.Second)
	body := `{"part":"1","question":"Q?","band":"6"}`

	if rec := s.do(t, http.MethodPost, "/generate", body); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/generate", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	rec := s.do(t, http.MethodGet, "/usage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	usage := decode[ratelimit.Usage](t, rec)
	if usage.Count != 1 || usage.Limit != 1 {
		t.Errorf("unexpected usage %+v", usage)
	}
}

func TestGenerateEmbedding(t *testing.T) {
	s := newTestServer(t, &stubProvider{vector: []float32{0.5, 0.25}}, 1, time.Second)

	rec := s.do(t, http.MethodPost, "/generate-embedding", `{"input":"scenic"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[api.EmbeddingResponse](t, rec)
	if len(got.Embedding) != 2 || got.Embedding[0] != 0.5 {
		t.Errorf("unexpected embedding %v", got.Embedding)
	}
}

func TestGenerateEmbedding_Errors(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	if rec := s.do(t, http.MethodPost, "/generate-embedding", `{"input":""}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty input, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/generate-embedding", `{"input":"x"}`); rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 without embeddings, got %d", rec.Code)
	}
}

func TestListQuestions(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	rec := s.do(t, http.MethodGet, "/questions?part=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[api.QuestionListResponse](t, rec)
	if len(got.Questions) != 8 || len(got.Items) != 8 {
		t.Errorf("expected 8 questions, got %d/%d", len(got.Questions), len(got.Items))
	}
	for i, item := range got.Items {
		if item.Part != 1 || item.Text != got.Questions[i] {
			t.Errorf("unexpected item %+v", item)
		}
	}

	rec = s.do(t, http.MethodGet, "/questions?part=Part%202&limit=3", "")
	if got := decode[api.QuestionListResponse](t, rec); len(got.Questions) != 3 || got.Part != 2 {
		t.Errorf("expected 3 part 2 questions, got %+v", got)
	}
}

func TestListQuestions_BadQuery(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	for _, path := range []string{"/questions", "/questions?part=5", "/questions?part=1&limit=0", "/questions?part=1&limit=abc"} {
		if rec := s.do(t, http.MethodGet, path, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestAddAndDeleteQuestion(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	rec := s.do(t, http.MethodPost, "/questions", `{"part":"3","topic":"Environment","text":"Should plastic bags be banned?"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[api.QuestionResponse](t, rec)
	if created.ID == "" || created.Part != 3 || created.Topic != "Environment" {
		t.Errorf("unexpected question %+v", created)
	}

	if rec := s.do(t, http.MethodDelete, "/questions/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodDelete, "/questions/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAddQuestion_Duplicate(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	rec := s.do(t, http.MethodPost, "/questions", `{"part":"1","topic":"Hometown","text":"Where is your hometown?"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[map[string]string](t, rec); got["error"] != "question already exists" {
		t.Errorf("unexpected error %q", got["error"])
	}
}

func TestGetQuestion(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	rec := s.do(t, http.MethodPost, "/questions", `{"part":"2","text":"Describe a festival you enjoyed."}`)
	created := decode[api.QuestionResponse](t, rec)

	rec = s.do(t, http.MethodGet, "/questions/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[api.QuestionResponse](t, rec); got != created {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	if rec := s.do(t, http.MethodGet, "/questions/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestQuestionStats(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	rec := s.do(t, http.MethodGet, "/questions/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[api.QuestionStatsResponse](t, rec)
	if len(got.ByPart) != 3 {
		t.Fatalf("expected 3 parts, got %v", got.ByPart)
	}
	sum := 0
	for part, n := range got.ByPart {
		if n < 8 {
			t.Errorf("part %s: expected at least 8 questions, got %d", part, n)
		}
		sum += n
	}
	if got.Total != sum {
		t.Errorf("expected total %d, got %d", sum, got.Total)
	}
}

func TestGenerate_ExplicitVariant(t *testing.T) {
	s := newTestServer(t, &stubProvider{reply: reply}, 5, time.Second)

	rec := s.do(t, http.MethodPost, "/generate", `{"part":"1","question":"Q?","variant":"all_bands"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[map[string]string](t, rec); got["fullText"] == "" {
		t.Errorf("expected all bands response, got %v", got)
	}

	rec = s.do(t, http.MethodPost, "/generate", `{"part":"1","question":"Q?","variant":"single_band"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for single_band without band, got %d", rec.Code)
	}
}

func TestAddQuestion_Invalid(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	for _, body := range []string{`{"part":"1","text":""}`, `{"part":"0","text":"Q?"}`} {
		if rec := s.do(t, http.MethodPost, "/questions", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, 1, time.Second)

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "https://stanleyhi.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://stanleyhi.com" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected credentials allowed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unknown origin, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected request still served, got %d", rec.Code)
	}
}
