package model

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/rushteam/pantryrec/core"
)

func testVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: map[string]int{"onion": 0, "garlic": 1, "soy": 2, "ginger": 3},
		IDF:        []float64{1.0, 1.5, 2.0, 2.0},
		Lowercase:  true,
		Norm:       "l2",
	}
}

func testClassifier() *LinearClassifier {
	return &LinearClassifier{
		Classes: []string{"italian", "chinese", "indian"},
		Coef: [][]float64{
			{0.2, 1.0, -1.0, -1.0},
			{0.1, 0.2, 1.5, 1.2},
			{1.0, 0.3, -0.5, 0.8},
		},
		Intercept: []float64{0, 0, 0},
	}
}

func TestTFIDFVectorize(t *testing.T) {
	v := testVectorizer()
	fv, err := v.Vectorize("Onion onion garlic saffron")
	if err != nil {
		t.Fatalf("Vectorize() error = %v", err)
	}
	if len(fv) != 2 {
		t.Fatalf("fv = %v, want 2 features", fv)
	}
	// tf*idf: onion=2*1.0, garlic=1*1.5; L2 归一化
	norm := math.Sqrt(4 + 2.25)
	if math.Abs(fv[0]-2/norm) > 1e-9 || math.Abs(fv[1]-1.5/norm) > 1e-9 {
		t.Errorf("fv = %v", fv)
	}
}

func TestTFIDFOrderInsensitive(t *testing.T) {
	v := testVectorizer()
	a, _ := v.Vectorize("onion garlic soy")
	b, _ := v.Vectorize("soy onion garlic")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("unigram vectors differ: %v vs %v", a, b)
		}
	}
}

func TestTFIDFBigrams(t *testing.T) {
	v := &TFIDFVectorizer{
		Vocabulary: map[string]int{"soy": 0, "soy sauce": 1},
		IDF:        []float64{1, 1},
		NGramRange: [2]int{1, 2},
		Lowercase:  true,
		Norm:       "none",
	}
	fv, _ := v.Vectorize("soy sauce")
	if fv[0] != 1 || fv[1] != 1 {
		t.Errorf("fv = %v, want unigram and bigram hits", fv)
	}
}

func TestLinearPredict(t *testing.T) {
	c := testClassifier()
	tests := []struct {
		name string
		fv   FeatureVector
		want string
	}{
		{name: "garlic heavy", fv: FeatureVector{1: 1}, want: "italian"},
		{name: "soy ginger", fv: FeatureVector{2: 0.7, 3: 0.7}, want: "chinese"},
		{name: "onion", fv: FeatureVector{0: 1}, want: "indian"},
		{name: "empty picks first on tie", fv: FeatureVector{}, want: "italian"},
		{name: "out of range index ignored", fv: FeatureVector{0: 1, 99: 5}, want: "indian"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Predict(context.Background(), tt.fv)
			if err != nil || got != tt.want {
				t.Errorf("Predict() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestLinearPredictBinary(t *testing.T) {
	c := &LinearClassifier{Classes: []string{"a", "b"}, Coef: [][]float64{{1, -1}}, Intercept: []float64{0}}
	if err := c.validate(); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Predict(context.Background(), FeatureVector{0: 1}); got != "b" {
		t.Errorf("Predict() = %q, want b", got)
	}
	if got, _ := c.Predict(context.Background(), FeatureVector{1: 1}); got != "a" {
		t.Errorf("Predict() = %q, want a", got)
	}
}

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadCuisineClassifier(t *testing.T) {
	dir := t.TempDir()
	vp := writeJSON(t, dir, "vectorizer.json", testVectorizer())
	cp := writeJSON(t, dir, "classifier.json", testClassifier())

	cc, err := LoadCuisineClassifier(vp, cp)
	if err != nil {
		t.Fatalf("LoadCuisineClassifier() error = %v", err)
	}
	got, err := cc.Classify(context.Background(), "soy ginger garlic")
	if err != nil || got != "chinese" {
		t.Errorf("Classify() = %q, %v, want chinese", got, err)
	}

	if _, err := LoadCuisineClassifier(filepath.Join(dir, "missing.json"), cp); !core.IsConfiguration(err) {
		t.Errorf("missing vectorizer error = %v, want configuration error", err)
	}

	bad := testClassifier()
	bad.Coef[0] = bad.Coef[0][:2]
	bp := writeJSON(t, dir, "bad.json", bad)
	if _, err := LoadCuisineClassifier(vp, bp); !core.IsConfiguration(err) {
		t.Errorf("ragged classifier error = %v, want configuration error", err)
	}
}

func TestNewCuisineClassifierDimMismatch(t *testing.T) {
	c := testClassifier()
	for k := range c.Coef {
		c.Coef[k] = append(c.Coef[k], 0)
	}
	if _, err := NewCuisineClassifier(testVectorizer(), c); !core.IsConfiguration(err) {
		t.Errorf("NewCuisineClassifier() error = %v, want configuration error", err)
	}
}

func TestRPCClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcPredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Indices) != len(req.Values) {
			http.Error(w, "length mismatch", http.StatusBadRequest)
			return
		}
		label := "unknown"
		if len(req.Indices) > 0 && req.Indices[0] == 2 {
			label = "chinese"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rpcPredictResponse{Label: label})
	}))
	defer srv.Close()

	c := NewRPCClassifier("remote", srv.URL, 0)
	cc, err := NewCuisineClassifier(testVectorizer(), c)
	if err != nil {
		t.Fatal(err)
	}
	got, err := cc.Classify(context.Background(), "soy ginger")
	if err != nil || got != "chinese" {
		t.Errorf("Classify() = %q, %v, want chinese", got, err)
	}
}

func TestRPCClassifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewRPCClassifier("remote", srv.URL, 0)
	if _, err := c.Predict(context.Background(), FeatureVector{0: 1}); err == nil {
		t.Error("Predict() error = nil, want rpc error")
	}
}

func TestRPCClassifierZeroValueConcurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rpcPredictResponse{Label: "thai"})
	}))
	defer srv.Close()

	c := &RPCClassifier{Endpoint: srv.URL}
	if c.Name() != "rpc" {
		t.Errorf("Name() = %q, want rpc", c.Name())
	}
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Predict(context.Background(), FeatureVector{0: 1})
			if err == nil && got != "thai" {
				err = fmt.Errorf("Predict() = %q, want thai", got)
			}
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
