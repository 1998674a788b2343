package cluster

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/pantryrec/core"
)

func fixedLoader(maps map[core.Granularity]map[string][]string) LoaderFunc {
	return func(_ context.Context, g core.Granularity) (map[string][]string, error) {
		raw, ok := maps[g]
		if !ok {
			return nil, errors.New("missing file")
		}
		return raw, nil
	}
}

func TestNewClusterMap(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string][]string
		wantErr bool
	}{
		{
			name: "well formed",
			raw:  map[string][]string{"0": {"italian", "french"}, "1": {"mexican"}},
		},
		{
			name: "duplicate inside one cluster is tolerated",
			raw:  map[string][]string{"0": {"italian", "italian"}},
		},
		{
			name:    "cuisine in two clusters",
			raw:     map[string][]string{"0": {"italian"}, "1": {"italian", "greek"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewClusterMap(2, tt.raw)
			if tt.wantErr {
				if !core.IsDataIntegrity(err) {
					t.Fatalf("NewClusterMap() error = %v, want data integrity error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClusterMap() error = %v", err)
			}
			if cm.Granularity != 2 {
				t.Errorf("Granularity = %d, want 2", cm.Granularity)
			}
		})
	}
}

func TestResolverLoad(t *testing.T) {
	calls := 0
	loader := LoaderFunc(func(_ context.Context, g core.Granularity) (map[string][]string, error) {
		calls++
		return map[string][]string{"a": {"thai"}}, nil
	})
	r := NewResolver(loader, nil)

	for _, g := range []core.Granularity{0, 6, -1} {
		if _, err := r.Load(context.Background(), g); !core.IsConfiguration(err) {
			t.Errorf("Load(%d) error = %v, want configuration error", g, err)
		}
	}

	cm1, err := r.Load(context.Background(), 3)
	if err != nil {
		t.Fatalf("Load(3) error = %v", err)
	}
	cm2, _ := r.Load(context.Background(), 3)
	if cm1 != cm2 || calls != 1 {
		t.Errorf("Load should cache per granularity, calls = %d", calls)
	}
}

func TestResolverLoadMissingArtifact(t *testing.T) {
	r := NewResolver(fixedLoader(nil), nil)
	if _, err := r.Load(context.Background(), 1); !core.IsConfiguration(err) {
		t.Fatalf("Load() error = %v, want configuration error", err)
	}
}

func TestResolve(t *testing.T) {
	cm, err := NewClusterMap(1, map[string][]string{
		"0": {"italian", "french"},
		"1": {"japanese", "korean"},
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		id, err := Resolve("korean", cm)
		if err != nil || id != "1" {
			t.Fatalf("Resolve(korean) = %q, %v, want 1", id, err)
		}
	}

	if _, err := Resolve("peruvian", cm); !core.IsLookup(err) {
		t.Errorf("Resolve(peruvian) error = %v, want lookup error", err)
	}
}

func TestCandidatesPreservesOrder(t *testing.T) {
	recipes := []core.Recipe{
		{ID: "r1", Clusters: map[core.Granularity]string{1: "0", 2: "a"}},
		{ID: "r2", Clusters: map[core.Granularity]string{1: "1", 2: "a"}},
		{ID: "r3", Clusters: map[core.Granularity]string{1: "0", 2: "b"}},
		{ID: "r4"},
		{ID: "r5", Clusters: map[core.Granularity]string{1: "0"}},
	}

	got := Candidates("0", recipes, 1)
	want := []string{"r1", "r3", "r5"}
	if len(got) != len(want) {
		t.Fatalf("Candidates() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("Candidates()[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}

	if got := Candidates("a", recipes, 2); len(got) != 2 {
		t.Errorf("Candidates(a, 2) len = %d, want 2", len(got))
	}
	if got := Candidates("zzz", recipes, 1); got == nil || len(got) != 0 {
		t.Errorf("Candidates() for empty cluster = %v, want empty slice", got)
	}
}

func TestValidateRecipes(t *testing.T) {
	cm, _ := NewClusterMap(1, map[string][]string{"0": {"italian"}})
	ok := []core.Recipe{{ID: "r1", Clusters: map[core.Granularity]string{1: "0"}}, {ID: "r2"}}
	if err := ValidateRecipes(cm, ok); err != nil {
		t.Errorf("ValidateRecipes() error = %v", err)
	}
	bad := append(ok, core.Recipe{ID: "r3", Clusters: map[core.Granularity]string{1: "9"}})
	if err := ValidateRecipes(cm, bad); !core.IsDataIntegrity(err) {
		t.Errorf("ValidateRecipes() error = %v, want data integrity error", err)
	}
}

func TestValidateRecipesMissingLevel(t *testing.T) {
	cm, _ := NewClusterMap(3, map[string][]string{"0": {"italian"}})
	recipes := []core.Recipe{
		{ID: "r1", Clusters: map[core.Granularity]string{1: "0"}},
		{ID: "r2", Clusters: map[core.Granularity]string{1: "2"}},
	}
	if err := ValidateRecipes(cm, recipes); !core.IsConfiguration(err) {
		t.Errorf("ValidateRecipes() error = %v, want configuration error", err)
	}
	if err := ValidateRecipes(cm, nil); err != nil {
		t.Errorf("ValidateRecipes(nil) error = %v", err)
	}
}
