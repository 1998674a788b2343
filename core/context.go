package core

import "time"

// RecommendContext 承载一次请求的 pantry 派生数据与解析结果，贯穿整个 Pipeline 透传。
// 每个请求独立构建，不在请求间共享；参考数据（词表、食谱、聚类表）通过 Node 字段只读共享。
type RecommendContext struct {
	Now         time.Time
	Granularity Granularity

	// Tokens 是喂给分类器的文本：归一化后的食材名按插入顺序以单个空格拼接
	Tokens string

	// Weights 是以全局词表为下标的 pantry 权重向量
	Weights []float64

	// Cuisine 是分类器预测的菜系
	Cuisine string

	// ClusterID 由召回阶段解析后写入
	ClusterID string
}
