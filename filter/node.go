package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该食谱就会被过滤掉；保留项的相对顺序不变。
type FilterNode struct {
	Filters []Filter
	Logger  *zap.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]*core.Item, 0, len(items))
	filtered := 0

	for _, item := range items {
		if item == nil {
			continue
		}

		drop := false
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				// 过滤器出错时保留该食谱，不中断流程
				logger.Warn("filter failed",
					zap.String("filter", f.Name()),
					zap.String("recipe_id", item.ID),
					zap.Error(err))
				continue
			}
			if ok {
				drop = true
				break
			}
		}

		if drop {
			filtered++
			continue
		}
		out = append(out, item)
	}

	if filtered > 0 {
		logger.Debug("recipes filtered", zap.Int("filtered", filtered), zap.Int("kept", len(out)))
	}
	return out, nil
}
