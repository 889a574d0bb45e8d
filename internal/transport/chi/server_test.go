package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/domain"
	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
	healthuc "github.com/kailas-cloud/moviematch/internal/usecase/health"
)

// --- Mocks ---

type mockRecommender struct {
	byTitleFn    func(ctx context.Context, title string, topN int) (recommendation.Result, error)
	byKeywordsFn func(ctx context.Context, text string, topN int) (recommendation.Result, error)
	lastTopN     int
}

func (m *mockRecommender) ByTitle(ctx context.Context, title string, topN int) (recommendation.Result, error) {
	m.lastTopN = topN
	return m.byTitleFn(ctx, title, topN)
}

func (m *mockRecommender) ByKeywords(ctx context.Context, text string, topN int) (recommendation.Result, error) {
	m.lastTopN = topN
	return m.byKeywordsFn(ctx, text, topN)
}

func (m *mockRecommender) Fingerprint() string { return "fp" }

type mockModel struct{ id string }

func (m mockModel) ModelID() string { return m.id }

// FittedAt is fixed so responses are comparable.
func (m mockModel) FittedAt() time.Time {
	if m.id == "" {
		return time.Time{}
	}
	return time.Date(2026, 10, 17, 9, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("down") }

// --- Helpers ---

func newTestRouter(rec domain.Recommender, health *healthuc.Service) http.Handler {
	if health == nil {
		health = healthuc.New(mockModel{id: "m1"}, nil)
	}
	srv := NewServer(rec, health, Limits{DefaultTopN: 10, MaxTopN: 20}, zap.NewNop())
	r := chi.NewRouter()
	r.Use(JSONRecoverer(zap.NewNop()))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(zap.NewNop()))
	srv.Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func titleResult(title string) recommendation.Result {
	return recommendation.Result{
		Mode:         recommendation.ModeTitle,
		Query:        title,
		MatchedTitle: "Toy Story (1995)",
		MatchScore:   90,
		Items: []recommendation.Item{
			{MovieID: 3114, Title: "Toy Story 2 (1999)", Genres: "Adventure|Animation", Similarity: 0.9321},
		},
	}
}

// --- Tests ---

func TestRecommendByTitle_OK(t *testing.T) {
	rec := &mockRecommender{
		byTitleFn: func(_ context.Context, title string, _ int) (recommendation.Result, error) {
			return titleResult(title), nil
		},
	}
	rr := do(t, newTestRouter(rec, nil), "/recommendations/title?title=toy+story&topn=5")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if rec.lastTopN != 5 {
		t.Errorf("topN = %d, want 5", rec.lastTopN)
	}

	var resp RecommendationResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MatchedTitle != "Toy Story (1995)" || resp.Query != "toy story" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].MovieID != 3114 || resp.Items[0].Similarity != 0.9321 {
		t.Errorf("unexpected items: %+v", resp.Items)
	}
}

func TestRecommendByKeywords_OK(t *testing.T) {
	rec := &mockRecommender{
		byKeywordsFn: func(_ context.Context, text string, _ int) (recommendation.Result, error) {
			return recommendation.Result{Mode: recommendation.ModeKeywords, Query: text, KnownTerms: 0}, nil
		},
	}
	rr := do(t, newTestRouter(rec, nil), "/recommendations/keywords?q=zzzz")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if rec.lastTopN != 10 {
		t.Errorf("default topN = %d, want 10", rec.lastTopN)
	}

	var raw map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if raw["known_terms"] != float64(0) {
		t.Errorf("known_terms = %v, want 0", raw["known_terms"])
	}
	items, ok := raw["items"].([]any)
	if !ok || len(items) != 0 {
		t.Errorf("items should be an empty array, got %v", raw["items"])
	}
}

func TestTopN_Parsing(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantTopN int
	}{
		{"default", "", http.StatusOK, 10},
		{"explicit", "&topn=3", http.StatusOK, 3},
		{"clamped", "&topn=500", http.StatusOK, 20},
		{"zero", "&topn=0", http.StatusBadRequest, 0},
		{"negative", "&topn=-1", http.StatusBadRequest, 0},
		{"not a number", "&topn=ten", http.StatusBadRequest, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &mockRecommender{
				byKeywordsFn: func(context.Context, string, int) (recommendation.Result, error) {
					return recommendation.Result{Mode: recommendation.ModeKeywords}, nil
				},
			}
			rr := do(t, newTestRouter(rec, nil), "/recommendations/keywords?q=comedy"+tc.query)
			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			if tc.wantCode == http.StatusOK && rec.lastTopN != tc.wantTopN {
				t.Errorf("topN = %d, want %d", rec.lastTopN, tc.wantTopN)
			}
			if tc.wantCode == http.StatusBadRequest {
				if resp := decodeError(t, rr); resp.Code != ErrorCodeBadRequest {
					t.Errorf("code = %s, want %s", resp.Code, ErrorCodeBadRequest)
				}
			}
		})
	}
}

func TestMissingQueryParams_400(t *testing.T) {
	h := newTestRouter(&mockRecommender{}, nil)

	for _, target := range []string{
		"/recommendations/title",
		"/recommendations/title?title=%20%20",
		"/recommendations/keywords",
	} {
		rr := do(t, h, target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rr.Code)
			continue
		}
		if resp := decodeError(t, rr); resp.Code != ErrorCodeBadRequest {
			t.Errorf("%s: code = %s", target, resp.Code)
		}
	}
}

func TestDomainErrors_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
		wantMsg    string
	}{
		{"not fitted", domain.ErrNotFitted, http.StatusServiceUnavailable, ErrorCodeNotFitted, "model not fitted"},
		{
			"no match",
			fmt.Errorf("resolve title: %w", domain.NewNoMatch("xyzabc", "Xyz (2001)", 42)),
			http.StatusNotFound, ErrorCodeNoMatch, "no close title match",
		},
		{"internal", errors.New("redis: secret host 10.0.0.1"), http.StatusInternalServerError, ErrorCodeInternalError, "internal error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &mockRecommender{
				byTitleFn: func(context.Context, string, int) (recommendation.Result, error) {
					return recommendation.Result{}, tc.err
				},
			}
			rr := do(t, newTestRouter(rec, nil), "/recommendations/title?title=xyzabc")
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			resp := decodeError(t, rr)
			if resp.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tc.wantCode)
			}
			if resp.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", resp.Message, tc.wantMsg)
			}
		})
	}
}

func TestNoMatch_ReportsBestCandidate(t *testing.T) {
	rec := &mockRecommender{
		byTitleFn: func(context.Context, string, int) (recommendation.Result, error) {
			return recommendation.Result{}, domain.NewNoMatch("xyzabc", "Xyz (2001)", 42.5)
		},
	}
	rr := do(t, newTestRouter(rec, nil), "/recommendations/title?title=xyzabc")

	var resp NoMatchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BestMatch != "Xyz (2001)" || resp.Score != 42.5 {
		t.Errorf("unexpected no-match body: %+v", resp)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name         string
		health       *healthuc.Service
		wantStatus   int
		wantBody     string
		wantFittedAt string
	}{
		{"fitted", healthuc.New(mockModel{id: "m1"}, nil), http.StatusOK, "ok", "2026-10-17T07:30:00Z"},
		{"not fitted", healthuc.New(mockModel{}, nil), http.StatusServiceUnavailable, "error", ""},
		{"cache down", healthuc.New(mockModel{id: "m1"}, failingPinger{}), http.StatusServiceUnavailable, "degraded", "2026-10-17T07:30:00Z"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, newTestRouter(&mockRecommender{}, tc.health), "/health")
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tc.wantBody {
				t.Errorf("status field = %q, want %q", resp.Status, tc.wantBody)
			}
			if resp.FittedAt != tc.wantFittedAt {
				t.Errorf("fitted_at = %q, want %q", resp.FittedAt, tc.wantFittedAt)
			}
		})
	}
}

func TestJSONRecoverer(t *testing.T) {
	rec := &mockRecommender{
		byTitleFn: func(context.Context, string, int) (recommendation.Result, error) {
			panic("boom")
		},
	}
	rr := do(t, newTestRouter(rec, nil), "/recommendations/title?title=heat")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Code != ErrorCodeInternalError {
		t.Errorf("code = %s", resp.Code)
	}
}

func TestMetricsRoute(t *testing.T) {
	rr := do(t, newTestRouter(&mockRecommender{}, nil), "/metrics")
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
