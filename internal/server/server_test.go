package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/g6viz/pkg/archive"
	"github.com/matzehuels/g6viz/pkg/cache"
	"github.com/matzehuels/g6viz/pkg/errors"
	"github.com/matzehuels/g6viz/pkg/observability"
	"github.com/matzehuels/g6viz/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *archive.Memory) {
	t.Helper()
	t.Cleanup(observability.Reset)
	logger := log.New(io.Discard)
	arc := archive.NewMemory()
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	return New(cfg, runner, arc, logger), arc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body.String())
	}
	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("X-Request-ID %q is not a UUID", rec.Header().Get(HeaderRequestID))
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}
}

func TestRenderPost(t *testing.T) {
	s, arc := newTestServer(t, DefaultConfig())
	rec := do(t, s.Handler(), http.MethodPost, "/render",
		`{"graph6":"Bw","highlight":"0-1","style":{"vertex_color":"red"},"seed":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /render = %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get("X-Graph-Hash") != cache.Hash([]byte("Bw")) {
		t.Errorf("X-Graph-Hash = %q", rec.Header().Get("X-Graph-Hash"))
	}
	svg := rec.Body.String()
	if strings.Count(svg, "<circle") != 3 || strings.Count(svg, "<line") != 3 {
		t.Errorf("unexpected svg: %s", svg)
	}
	if !strings.Contains(svg, "#FF0000") {
		t.Error("style override not applied")
	}

	recs, _ := arc.List(context.Background(), 0)
	if len(recs) != 1 || recs[0].Graph6 != "Bw" || recs[0].Highlight != "0-1" {
		t.Errorf("archive = %+v", recs)
	}
	if rec.Header().Get("X-Render-ID") != recs[0].ID {
		t.Error("X-Render-ID should name the archived record")
	}
}

func TestRenderGet(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())
	target := "/render/" + url.PathEscape("Dhc") + "?format=json&highlight=" + url.QueryEscape("4 (0,1)")
	rec := do(t, s.Handler(), http.MethodGet, target, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d %s", target, rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var doc struct {
		Vertices []struct {
			Highlighted bool `json:"highlighted"`
		} `json:"vertices"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Vertices) != 5 || !doc.Vertices[4].Highlighted {
		t.Errorf("vertices = %+v", doc.Vertices)
	}

	escaped := "/render/" + url.PathEscape("C^")
	if rec := do(t, s.Handler(), http.MethodGet, escaped, ""); rec.Code != http.StatusOK {
		t.Errorf("GET %s = %d %s", escaped, rec.Code, rec.Body.String())
	}
}

func TestRenderErrors(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", http.MethodPost, "/render", `{"graph6":`, 400, errors.ErrCodeInvalidInput},
		{"unknown field", http.MethodPost, "/render", `{"graph6":"Bw","colour":"red"}`, 400, errors.ErrCodeInvalidInput},
		{"empty graph6", http.MethodPost, "/render", `{}`, 400, errors.ErrCodeInvalidInput},
		{"bad graph6", http.MethodPost, "/render", `{"graph6":"B!"}`, 400, errors.ErrCodeInvalidGraph6},
		{"bad format", http.MethodPost, "/render", `{"graph6":"Bw","format":"gif"}`, 400, errors.ErrCodeInvalidFormat},
		{"bad style", http.MethodPost, "/render", `{"graph6":"Bw","style":{"vertex_color":"nope"}}`, 400, errors.ErrCodeInvalidStyle},
		{"bad selector", http.MethodGet, "/render/Bw?highlight=1-", "", 400, errors.ErrCodeInvalidSelector},
		{"bad seed", http.MethodGet, "/render/Bw?seed=-1", "", 400, errors.ErrCodeInvalidInput},
		{"huge canvas", http.MethodPost, "/render", `{"graph6":"Bw","width":1e19,"height":1e19}`, 400, errors.ErrCodeInvalidInput},
		{"unknown vertex", http.MethodGet, "/render/Bw?highlight=3", "", 422, errors.ErrCodeUnknownVertex},
		{"unknown edge", http.MethodPost, "/render", `{"graph6":"A?","highlight":"0-1"}`, 422, errors.ErrCodeUnknownEdge},
		{"missing record", http.MethodGet, "/renders/nope", "", 404, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(), tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := decodeError(t, rec); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestListRenders(t *testing.T) {
	s, arc := newTestServer(t, DefaultConfig())
	ctx := context.Background()
	for i, g6 := range []string{"A_", "Bw"} {
		rec := archive.NewRecord(g6, "svg")
		rec.CreatedAt = time.Unix(int64(i), 0)
		if err := arc.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	rec := do(t, s.Handler(), http.MethodGet, "/renders?limit=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /renders = %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Renders []archive.Record `json:"renders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Renders) != 1 || body.Renders[0].Graph6 != "Bw" {
		t.Errorf("renders = %+v", body.Renders)
	}

	got := do(t, s.Handler(), http.MethodGet, "/renders/"+body.Renders[0].ID, "")
	if got.Code != http.StatusOK || !strings.Contains(got.Body.String(), `"Bw"`) {
		t.Errorf("GET /renders/{id} = %d %s", got.Code, got.Body.String())
	}

	if rec := do(t, s.Handler(), http.MethodGet, "/renders?limit=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d", rec.Code)
	}
}

func TestListRendersWithoutArchive(t *testing.T) {
	t.Cleanup(observability.Reset)
	s := New(DefaultConfig(), pipeline.NewRunner(nil, nil, log.New(io.Discard)), nil, log.New(io.Discard))
	if rec := do(t, s.Handler(), http.MethodGet, "/renders", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 0.001
	cfg.Burst = 2
	s, _ := newTestServer(t, cfg)

	for i := range 2 {
		if rec := do(t, s.Handler(), http.MethodGet, "/render/A_", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, rec.Code)
		}
	}
	rec := do(t, s.Handler(), http.MethodGet, "/render/A_", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if got := decodeError(t, rec); got.Code != errors.ErrCodeRateLimited {
		t.Errorf("code = %s", got.Code)
	}

	// Health checks are never limited.
	if rec := do(t, s.Handler(), http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d", rec.Code)
	}
}

func TestClientLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiter(1, 2)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	a := l.get("10.0.0.1")
	l.get("10.0.0.2")
	if len(l.clients) != 2 {
		t.Fatalf("clients = %d, want 2", len(l.clients))
	}

	now = now.Add(l.idle / 2)
	if l.get("10.0.0.1") != a {
		t.Error("active client lost its bucket before going idle")
	}

	now = now.Add(l.idle)
	l.get("10.0.0.3")
	if len(l.clients) != 1 {
		t.Errorf("clients after sweep = %d, want 1", len(l.clients))
	}
	if _, ok := l.clients["10.0.0.3"]; !ok {
		t.Error("new client missing after sweep")
	}
}

func TestClientLimiterIdleCoversRefill(t *testing.T) {
	if l := newClientLimiter(10, 5); l.idle != limiterIdle {
		t.Errorf("idle = %v, want %v", l.idle, limiterIdle)
	}
	if l := newClientLimiter(0.001, 2); l.idle != 2000*time.Second {
		t.Errorf("idle = %v, want the 2000s refill time", l.idle)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, DefaultConfig())
	do(t, s.Handler(), http.MethodGet, "/render/Bw", "")
	do(t, s.Handler(), http.MethodGet, "/render/Bw?highlight=9", "")

	rec := do(t, s.Handler(), http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`g6viz_http_requests_total{method="GET",route="/render/{graph6}",status="200"} 1`,
		`g6viz_http_requests_total{method="GET",route="/render/{graph6}",status="422"} 1`,
		`g6viz_stage_errors_total{stage="resolve"} 1`,
		`g6viz_stage_duration_seconds_count{stage="layout"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[errors.Code]int{
		errors.ErrCodeInvalidGraph6: 400,
		errors.ErrCodeInvalidStyle:  400,
		errors.ErrCodeUnknownEdge:   422,
		errors.ErrCodeRateLimited:   429,
		errors.ErrCodeTimeout:       504,
		errors.ErrCodeInternal:      500,
		"":                          500,
	}
	for code, want := range tests {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestConfig(t *testing.T) {
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvRateLimit, "2.5")
	t.Setenv(EnvRedisURL, "")
	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv error: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.RateLimit != 2.5 || cfg.Burst != DefaultBurst {
		t.Errorf("cfg = %+v", cfg)
	}

	t.Setenv(EnvRateLimit, "fast")
	if _, err := ConfigFromEnv(); err == nil {
		t.Error("non-numeric rate limit should fail")
	}

	bad := DefaultConfig()
	bad.Burst = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero burst with rate limiting should fail")
	}
}

func TestRunShutsDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	s, _ := newTestServer(t, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
