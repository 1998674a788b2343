package core

// Item 是推荐链路中的统一承载结构：候选食谱、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Recipe *Recipe
	Meta   map[string]any
	Labels map[string]Label
}

func NewItem(recipe *Recipe) *Item {
	it := &Item{
		Recipe: recipe,
		Meta:   make(map[string]any),
		Labels: make(map[string]Label),
	}
	if recipe != nil {
		it.ID = recipe.ID
	}
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Ranked 将 Item 列表转为 RankedResult，跳过没有食谱的条目，保持顺序。
func Ranked(items []*Item) []RankedResult {
	out := make([]RankedResult, 0, len(items))
	for _, it := range items {
		if it == nil || it.Recipe == nil {
			continue
		}
		out = append(out, RankedResult{Recipe: *it.Recipe, Score: it.Score})
	}
	return out
}
