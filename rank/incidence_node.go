package rank

import (
	"context"
	"sort"
	"strconv"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pipeline"
)

// IncidenceNode 是排序 Node：为候选池构建关联矩阵，用 rctx.Weights 做稀疏点积打分。
// - 写入 labels：rank_model=incidence、matched=<命中词表的食材数>、pantry_hits=<与 pantry 重合的食材，'|' 分隔>
// - 更新 item.Score 并按分数降序稳定排序（同分保持输入顺序）
//
// 词表必须与生成 rctx.Weights 时使用的词表是同一个。
type IncidenceNode struct {
	Vocabulary *core.Vocabulary
}

func (n *IncidenceNode) Name() string        { return "rank.incidence" }
func (n *IncidenceNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *IncidenceNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if n.Vocabulary == nil {
		return nil, core.ConfigurationError(core.ModuleVocabulary, nil, "incidence node has no vocabulary")
	}

	kept := make([]*core.Item, 0, len(items))
	recipes := make([]core.Recipe, 0, len(items))
	for _, it := range items {
		if it == nil || it.Recipe == nil {
			continue
		}
		kept = append(kept, it)
		recipes = append(recipes, *it.Recipe)
	}

	m := BuildIncidence(n.Vocabulary, recipes)
	scores := m.Scores(rctx.Weights)
	for r, it := range kept {
		it.Score = scores[r]
		it.PutLabel("rank_model", core.Label{Value: "incidence", Source: "rank"})
		it.PutLabel("matched", core.Label{Value: strconv.Itoa(len(m.Row(r))), Source: "rank"})
		for _, j := range m.Row(r) {
			if j < len(rctx.Weights) && rctx.Weights[j] > 0 {
				it.PutLabel("pantry_hits", core.Label{Value: n.Vocabulary.Term(j), Source: "rank"})
			}
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept, nil
}
