package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/rushteam/pantryrec/cluster"
	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pantry"
	"github.com/rushteam/pantryrec/service"
)

type fakeScorer struct {
	err    error
	gotG   core.Granularity
	gotNow time.Time
	gotLen int
}

func (f *fakeScorer) Score(_ context.Context, entries []pantry.Entry, g core.Granularity, now time.Time) (*service.Result, error) {
	f.gotG, f.gotNow, f.gotLen = g, now, len(entries)
	if f.err != nil {
		return nil, f.err
	}
	return &service.Result{
		Granularity: g,
		Cuisine:     "italian",
		ClusterID:   "0",
		Ranked:      []core.RankedResult{{Recipe: core.Recipe{ID: "R3", Name: "aglio"}, Score: 0.598}},
	}, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(s Scorer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(&Handler{
		Scorer:             s,
		DefaultGranularity: 3,
		Now:                func() time.Time { return fixedNow },
	})
}

func post(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeScorer{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRecommend(t *testing.T) {
	s := &fakeScorer{}
	r := newTestRouter(s)

	w := post(t, r, `{"granularity": 5, "items": [{"name": "onion", "expiry": "2024-03-03"}], "date": "2024-02-28"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		RequestID string              `json:"request_id"`
		Cuisine   string              `json:"cuisine"`
		Ranked    []core.RankedResult `json:"ranked"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RequestID == "" || resp.Cuisine != "italian" || len(resp.Ranked) != 1 || resp.Ranked[0].Recipe.ID != "R3" {
		t.Errorf("response = %+v", resp)
	}
	if s.gotG != 5 || s.gotLen != 1 || !s.gotNow.Equal(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("scorer got g=%d len=%d now=%v", s.gotG, s.gotLen, s.gotNow)
	}

	w = post(t, r, `{"items": [{"name": "onion", "expiry": "2024-03-03"}]}`)
	if w.Code != http.StatusOK || s.gotG != 3 || !s.gotNow.Equal(fixedNow) {
		t.Errorf("defaults: status=%d g=%d now=%v", w.Code, s.gotG, s.gotNow)
	}
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
		code   string
	}{
		{name: "bad json", body: `{"items": `, status: http.StatusBadRequest, code: core.ErrorCodeValidation},
		{name: "missing items", body: `{}`, status: http.StatusBadRequest, code: core.ErrorCodeValidation},
		{name: "bad date", body: `{"items": [], "date": "tomorrow"}`, status: http.StatusBadRequest, code: core.ErrorCodeValidation},
		{name: "configuration", err: core.ConfigurationError(core.ModuleService, nil, "granularity 9 out of range"), status: http.StatusBadRequest, code: core.ErrorCodeConfiguration},
		{name: "lookup", err: core.LookupError(core.ModuleCluster, "cuisine %q not found", "x"), status: http.StatusUnprocessableEntity, code: core.ErrorCodeLookup},
		{name: "data integrity", err: core.DataIntegrityError(core.ModuleCluster, "bad map"), status: http.StatusInternalServerError, code: core.ErrorCodeDataIntegrity},
		{name: "plain", err: context.DeadlineExceeded, status: http.StatusInternalServerError, code: core.ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if body == "" {
				body = `{"items": [{"name": "onion", "expiry": "2024-03-03"}]}`
			}
			w := post(t, newTestRouter(&fakeScorer{err: tt.err}), body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestListClusters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := cluster.NewResolver(cluster.LoaderFunc(func(context.Context, core.Granularity) (map[string][]string, error) {
		return map[string][]string{"1": {"thai"}, "0": {"italian", "french"}}, nil
	}), nil)
	r := NewRouter(&Handler{Scorer: &fakeScorer{}, Clusters: resolver, DefaultGranularity: 3})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/clusters/2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Granularity int           `json:"granularity"`
		Clusters    []ClusterView `json:"clusters"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Granularity != 2 || len(resp.Clusters) != 2 || resp.Clusters[0].ID != "0" || len(resp.Clusters[0].Cuisines) != 2 {
		t.Errorf("response = %+v", resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/clusters/9", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("GET /v1/clusters/9 = %d, want 400", w.Code)
	}
}
