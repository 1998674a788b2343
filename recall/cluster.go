package recall

import (
	"context"

	"github.com/rushteam/pantryrec/cluster"
	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pipeline"
)

// ClusterRecall 是菜系聚类召回源：把 rctx.Cuisine 解析到 rctx.Granularity 下的聚类，
// 返回该聚类中的全部食谱，顺序与原始数据集一致。
// ClusterRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
//
// 写入 labels：recall_source=cluster、cluster=<id>、cuisine=<食谱落在该聚类中的第一个菜系标签>
type ClusterRecall struct {
	Resolver *cluster.Resolver
	Recipes  []core.Recipe // 全量食谱，只读
}

var (
	_ Source        = (*ClusterRecall)(nil)
	_ pipeline.Node = (*ClusterRecall)(nil)
)

func (r *ClusterRecall) Name() string        { return "recall.cluster" }
func (r *ClusterRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *ClusterRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。聚类表加载失败、食谱引用了不存在的聚类或菜系查不到时直接返回错误，不回退。
func (r *ClusterRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Resolver == nil {
		return nil, core.ConfigurationError(core.ModuleCluster, nil, "cluster recall has no resolver")
	}
	cm, err := r.Resolver.Load(ctx, rctx.Granularity)
	if err != nil {
		return nil, err
	}
	if err := cluster.ValidateRecipes(cm, r.Recipes); err != nil {
		return nil, err
	}
	clusterID, err := cluster.Resolve(rctx.Cuisine, cm)
	if err != nil {
		return nil, err
	}
	rctx.ClusterID = clusterID

	candidates := cluster.Candidates(clusterID, r.Recipes, rctx.Granularity)
	out := make([]*core.Item, 0, len(candidates))
	for i := range candidates {
		it := core.NewItem(&candidates[i])
		it.PutLabel("recall_source", core.Label{Value: "cluster", Source: "recall"})
		it.PutLabel("cluster", core.Label{Value: clusterID, Source: "recall"})
		for _, tag := range candidates[i].CuisineTags {
			if id, ok := cm.ClusterOf(tag); ok && id == clusterID {
				it.PutLabel("cuisine", core.Label{Value: tag, Source: "recall"})
				break
			}
		}
		out = append(out, it)
	}
	return out, nil
}
