package pantry

import (
	"math"
	"testing"
	"time"

	"github.com/rushteam/pantryrec/core"
)

var now = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func mustVocab(t *testing.T, terms ...string) *core.Vocabulary {
	t.Helper()
	v, err := core.NewVocabulary(terms)
	if err != nil {
		t.Fatalf("NewVocabulary() error = %v", err)
	}
	return v
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name     string
		item     string
		expiry   time.Time
		wantErr  bool
		wantName string
	}{
		{name: "future", item: "Onions", expiry: day(2), wantName: "onion"},
		{name: "today is allowed", item: "milk", expiry: day(0), wantName: "milk"},
		{name: "yesterday rejected", item: "eggs", expiry: day(-1), wantErr: true},
		{name: "empty name rejected", item: "  ", expiry: day(3), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			err := p.AddItem(tt.item, tt.expiry, now)
			if tt.wantErr {
				if !core.IsValidation(err) {
					t.Fatalf("AddItem() error = %v, want validation error", err)
				}
				if p.Len() != 0 {
					t.Errorf("rejected item stored, Len() = %d", p.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("AddItem() error = %v", err)
			}
			if _, ok := p.Get(tt.wantName); !ok {
				t.Errorf("Get(%q) missing after AddItem", tt.wantName)
			}
		})
	}
}

func TestAddItemLastEntryWins(t *testing.T) {
	p := New()
	_ = p.AddItem("onion", day(2), now)
	_ = p.AddItem("garlic", day(4), now)
	_ = p.AddItem("onions", day(9), now)

	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	it, _ := p.Get("onion")
	if got := DaysLeft(it, now); got != 9 {
		t.Errorf("DaysLeft(onion) = %d, want 9", got)
	}
	if got := p.Tokens(); got != "onion garlic" {
		t.Errorf("Tokens() = %q, want %q", got, "onion garlic")
	}
}

func TestDaysLeftNeverNegative(t *testing.T) {
	it := Item{Name: "milk", Expiry: day(0)}
	later := now.AddDate(0, 0, 3)
	if got := DaysLeft(it, later); got != 0 {
		t.Errorf("DaysLeft() after expiry = %d, want 0", got)
	}
	if got := DaysLeft(Item{Expiry: day(5)}, now); got != 5 {
		t.Errorf("DaysLeft() = %d, want 5", got)
	}
}

func TestWeightVector(t *testing.T) {
	vocab := mustVocab(t, "onion", "garlic", "rice")
	p := New()
	if err := p.AddItem("onion", day(2), now); err != nil {
		t.Fatal(err)
	}
	if err := p.AddItem("garlic", day(10), now); err != nil {
		t.Fatal(err)
	}
	if err := p.AddItem("saffron", day(1), now); err != nil {
		t.Fatal(err)
	}

	got := p.WeightVector(vocab, now, DefaultEpsilon)
	want := []float64{1 / 2.01, 1 / 10.01, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("weight[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if math.Abs(got[0]-0.498) > 1e-3 || math.Abs(got[1]-0.0999) > 1e-4 {
		t.Errorf("weights = %v, want approximately [0.498 0.0999 0]", got)
	}
}

func TestWeightVectorPositiveForPresent(t *testing.T) {
	vocab := mustVocab(t, "a", "b", "c", "d")
	p := New()
	_ = p.AddItem("a", day(0), now)
	_ = p.AddItem("c", day(30), now)

	for i, w := range p.WeightVector(vocab, now, 0) {
		present := i == 0 || i == 2
		if present && w <= 0 {
			t.Errorf("weight[%d] = %v, want > 0", i, w)
		}
		if !present && w != 0 {
			t.Errorf("weight[%d] = %v, want 0", i, w)
		}
	}
}

func TestWeightMonotonic(t *testing.T) {
	vocab := mustVocab(t, "onion")
	near, far := New(), New()
	_ = near.AddItem("onion", day(5), now)
	_ = far.AddItem("onion", day(15), now)

	wNear := near.WeightVector(vocab, now, DefaultEpsilon)[0]
	wFar := far.WeightVector(vocab, now, DefaultEpsilon)[0]
	if !(wNear > wFar) {
		t.Errorf("weight(5 days) = %v, weight(15 days) = %v, want strictly greater", wNear, wFar)
	}
}

func TestPrioritized(t *testing.T) {
	p := New()
	_ = p.AddItem("rice", day(30), now)
	_ = p.AddItem("milk", day(1), now)
	_ = p.AddItem("bread", day(1), now)
	_ = p.AddItem("onion", day(4), now)

	var names []string
	for _, it := range p.Prioritized() {
		names = append(names, it.Name)
	}
	want := []string{"milk", "bread", "onion", "rice"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Prioritized() = %v, want %v", names, want)
		}
	}
	if got := p.Tokens(); got != "rice milk bread onion" {
		t.Errorf("Tokens() = %q, should keep insertion order", got)
	}
}
