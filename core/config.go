package core

// RecommendConfig 是推荐相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopK 返回默认返回的食谱数
	DefaultTopK() int

	// DefaultEpsilon 返回权重公式 1/(epsilon+days_left) 中的平滑项
	DefaultEpsilon() float64

	// DefaultGranularity 返回默认的聚类粒度
	DefaultGranularity() Granularity
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopK() int { return 10 }

func (c *DefaultRecommendConfig) DefaultEpsilon() float64 { return 0.01 }

func (c *DefaultRecommendConfig) DefaultGranularity() Granularity { return 3 }
