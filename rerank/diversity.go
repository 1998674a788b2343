package rerank

import (
	"context"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pipeline"
)

// Diversity 是多样性 ReRank：同一类别最多保留 MaxPerKey 个（按输入顺序保留靠前的）。
// 类别来源优先级：
// - label[LabelKey].Value
// - meta[LabelKey] (string)
// - 食谱的首个菜系标签
//
// MaxPerKey <= 0 时不做限制。
type Diversity struct {
	LabelKey  string // 默认 "cuisine"
	MaxPerKey int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || n.MaxPerKey <= 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "cuisine"
	}

	seen := make(map[string]int, 32)
	out := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}

		cate := category(it, key)
		if cate == "" {
			out = append(out, it)
			continue
		}
		if seen[cate] >= n.MaxPerKey {
			continue
		}
		seen[cate]++
		out = append(out, it)
	}

	return out, nil
}

func category(it *core.Item, key string) string {
	if it.Labels != nil {
		if lbl, ok := it.Labels[key]; ok && lbl.Value != "" {
			return lbl.Value
		}
	}
	if it.Meta != nil {
		if s, ok := it.Meta[key].(string); ok && s != "" {
			return s
		}
	}
	if it.Recipe != nil {
		return it.Recipe.PrimaryCuisine()
	}
	return ""
}
