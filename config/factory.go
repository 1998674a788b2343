// Package config 组装运行期配置：Settings 加载，以及根据配置构建 Pipeline 的 NodeFactory。
package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/cluster"
	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/filter"
	"github.com/rushteam/pantryrec/pipeline"
	"github.com/rushteam/pantryrec/pkg/conv"
	"github.com/rushteam/pantryrec/rank"
	"github.com/rushteam/pantryrec/recall"
	"github.com/rushteam/pantryrec/rerank"
)

// Dependencies 是构建 Node 时需要注入的只读依赖。
type Dependencies struct {
	Resolver   *cluster.Resolver
	Recipes    []core.Recipe
	Vocabulary *core.Vocabulary
	Store      core.Store // 可选，黑名单从这里读取
	Logger     *zap.Logger
}

// DefaultFactory 返回包含所有内置 Node 的工厂。
func DefaultFactory(deps Dependencies) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.cluster", func(map[string]any) (pipeline.Node, error) {
		if deps.Resolver == nil {
			return nil, fmt.Errorf("recall.cluster requires a cluster resolver")
		}
		return &recall.ClusterRecall{Resolver: deps.Resolver, Recipes: deps.Recipes}, nil
	})
	factory.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFilterNode(deps, cfg)
	})
	factory.Register("rank.incidence", func(map[string]any) (pipeline.Node, error) {
		if deps.Vocabulary == nil {
			return nil, fmt.Errorf("rank.incidence requires a vocabulary")
		}
		return &rank.IncidenceNode{Vocabulary: deps.Vocabulary}, nil
	})
	factory.Register("rerank.diversity", buildDiversityNode)
	factory.Register("rerank.topn", buildTopNNode)

	return factory
}

func buildFilterNode(deps Dependencies, cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "blacklist":
			ids := conv.SliceAnyToString(filterMap["ids"])
			key := conv.ConfigGet(filterMap, "key", "")
			if key != "" && deps.Store == nil {
				return nil, fmt.Errorf("blacklist key %q requires a store", key)
			}
			filters = append(filters, filter.NewBlacklistFilter(ids, deps.Store, key))

		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter requires an expression")
			}
			f, err := filter.NewExprFilter(expr)
			if err != nil {
				return nil, err
			}
			filters = append(filters, f)

		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters, Logger: deps.Logger}, nil
}

func buildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	labelKey := conv.ConfigGet(cfg, "label_key", "cuisine")
	if labelKey == "" {
		labelKey = "cuisine"
	}
	return &rerank.Diversity{
		LabelKey:  labelKey,
		MaxPerKey: int(conv.ConfigGetInt64(cfg, "max_per_key", 1)),
	}, nil
}

func buildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", rerank.DefaultTopN)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must not be negative, got %d", n)
	}
	return &rerank.TopNNode{N: int(n)}, nil
}
