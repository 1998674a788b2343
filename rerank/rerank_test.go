package rerank

import (
	"context"
	"strconv"
	"testing"

	"github.com/rushteam/pantryrec/core"
)

func makeItems(cuisines ...string) []*core.Item {
	items := make([]*core.Item, 0, len(cuisines))
	for i, c := range cuisines {
		r := &core.Recipe{ID: strconv.Itoa(i)}
		if c != "" {
			r.CuisineTags = []string{c}
		}
		items = append(items, core.NewItem(r))
	}
	return items
}

func itemIDs(items []*core.Item) string {
	s := ""
	for _, it := range items {
		s += it.ID
	}
	return s
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   int
		want int
	}{
		{name: "truncate", n: 10, in: 15, want: 10},
		{name: "fewer than n", n: 10, in: 3, want: 3},
		{name: "empty", n: 10, in: 0, want: 0},
		{name: "no limit", n: 0, in: 15, want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cuisines := make([]string, tt.in)
			items := makeItems(cuisines...)
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), &core.RecommendContext{}, items)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
			for i, it := range out {
				if it != items[i] {
					t.Fatalf("order changed at %d", i)
				}
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	items := makeItems("italian", "italian", "thai", "italian", "", "thai", "thai")
	items[5].PutLabel("cuisine", core.Label{Value: "vietnamese", Source: "rule"})

	tests := []struct {
		name string
		max  int
		want string
	}{
		{name: "one per cuisine", max: 1, want: "0245"},
		{name: "two per cuisine", max: 2, want: "012456"},
		{name: "disabled", max: 0, want: "0123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&Diversity{MaxPerKey: tt.max}).Process(context.Background(), &core.RecommendContext{}, items)
			if err != nil {
				t.Fatal(err)
			}
			if got := itemIDs(out); got != tt.want {
				t.Errorf("Process() = %s, want %s", got, tt.want)
			}
		})
	}
}
