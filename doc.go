// Package pantryrec 根据 pantry 中食材的剩余保质期推荐食谱。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 参考数据只读共享：词表、食谱表、聚类表启动时加载，请求之间不共享可变状态
// - 越临期的食材权重越高：weight = 1 / (epsilon + days_left)
package pantryrec

import (
	"github.com/rushteam/pantryrec/pantry"
	"github.com/rushteam/pantryrec/pipeline"
	"github.com/rushteam/pantryrec/service"
)

// 轻量 facade：便于直接 import "pantryrec" 使用核心抽象。
type (
	Pipeline    = pipeline.Pipeline
	Node        = pipeline.Node
	Kind        = pipeline.Kind
	Recommender = service.Recommender
	Result      = service.Result
	Entry       = pantry.Entry
)

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
