package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链：Recall → Filter → Rank → ReRank。
type Pipeline struct {
	Nodes  []Node
	Logger *zap.Logger
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		if p.Logger != nil {
			p.Logger.Debug("node processed",
				zap.String("node", node.Name()),
				zap.String("kind", string(node.Kind())),
				zap.Int("in", len(cur)),
				zap.Int("out", len(next)),
				zap.Duration("latency", time.Since(start)),
			)
		}
		cur = next
	}
	return cur, nil
}
