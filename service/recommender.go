// Package service 把 pantry、菜系分类器与推荐 Pipeline 串成一次完整的推荐调用。
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/normalize"
	"github.com/rushteam/pantryrec/pantry"
	"github.com/rushteam/pantryrec/pipeline"
)

// CuisinePredictor 把 pantry 文本映射为菜系标签，model.CuisineClassifier 实现了它。
type CuisinePredictor interface {
	Classify(ctx context.Context, tokens string) (string, error)
}

// Recommender 持有只读参考数据与链路，可被多个请求并发使用；每次调用的状态都在 Score 内部构建。
type Recommender struct {
	Vocabulary *core.Vocabulary
	Classifier CuisinePredictor
	Pipeline   *pipeline.Pipeline
	Config     core.RecommendConfig

	// Cache 可选；命中时跳过分类与排序
	Cache       core.Store
	CacheTTL    time.Duration
	CachePrefix string

	Logger *zap.Logger
}

// Result 是一次推荐的输出。
type Result struct {
	Granularity core.Granularity    `json:"granularity"`
	Cuisine     string              `json:"cuisine"`
	ClusterID   string              `json:"cluster_id"`
	Ranked      []core.RankedResult `json:"ranked"`
	UseFirst    []string            `json:"use_first"` // pantry 食材按过期日期升序
	Rejected    []pantry.Rejected   `json:"rejected,omitempty"`
	Cached      bool                `json:"cached"`
}

type cachedResult struct {
	Cuisine   string              `json:"cuisine"`
	ClusterID string              `json:"cluster_id"`
	Ranked    []core.RankedResult `json:"ranked"`
}

func (r *Recommender) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Recommender) config() core.RecommendConfig {
	if r.Config == nil {
		return &core.DefaultRecommendConfig{}
	}
	return r.Config
}

// Score 根据 pantry 条目推荐食谱：
// 构建 pantry → 权重向量 → 预测菜系 → 召回聚类候选 → 过滤 → 打分排序 → 截取 Top K。
//
// 粒度越界返回 CONFIGURATION 错误且不做任何工作；单条无效输入只会出现在 Result.Rejected 中；
// 没有任何有效条目时返回 VALIDATION 错误。
func (r *Recommender) Score(ctx context.Context, entries []pantry.Entry, g core.Granularity, now time.Time) (*Result, error) {
	if !g.Valid() {
		return nil, core.ConfigurationError(core.ModuleService, nil,
			"granularity %d out of range [%d, %d]", g, core.MinGranularity, core.MaxGranularity)
	}
	if r.Vocabulary == nil || r.Classifier == nil || r.Pipeline == nil {
		return nil, core.ConfigurationError(core.ModuleService, nil, "recommender is not fully configured")
	}
	log := r.logger()

	p, rejected := pantry.BuildWith(normalize.Against(r.Vocabulary), entries, now)
	for _, rj := range rejected {
		log.Warn("pantry item rejected",
			zap.String("name", rj.Entry.Name),
			zap.String("expiry", rj.Entry.Expiry),
			zap.String("reason", rj.Reason))
	}
	if p.Len() == 0 {
		return nil, core.ValidationError(core.ModuleService, "pantry has no valid items (%d rejected)", len(rejected))
	}

	res := &Result{Granularity: g, Rejected: rejected}
	for _, it := range p.Prioritized() {
		res.UseFirst = append(res.UseFirst, it.Name)
	}

	key := r.cacheKey(p, g, now)
	if cached, ok := r.lookup(ctx, key); ok {
		res.Cuisine, res.ClusterID, res.Ranked, res.Cached = cached.Cuisine, cached.ClusterID, cached.Ranked, true
		log.Debug("recommendation cache hit", zap.String("key", key))
		return res, nil
	}

	tokens := p.Tokens()
	cuisine, err := r.Classifier.Classify(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("classify pantry: %w", err)
	}

	rctx := &core.RecommendContext{
		Now:         now,
		Granularity: g,
		Tokens:      tokens,
		Weights:     p.WeightVector(r.Vocabulary, now, r.config().DefaultEpsilon()),
		Cuisine:     cuisine,
	}
	items, err := r.Pipeline.Run(ctx, rctx, nil)
	if err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}

	ranked := core.Ranked(items)
	if k := r.config().DefaultTopK(); k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	res.Cuisine, res.ClusterID, res.Ranked = cuisine, rctx.ClusterID, ranked

	log.Info("recommendation scored",
		zap.String("cuisine", cuisine),
		zap.String("cluster", rctx.ClusterID),
		zap.Int("granularity", int(g)),
		zap.Int("pantry_items", p.Len()),
		zap.Int("results", len(ranked)))

	r.store(ctx, key, res)
	return res, nil
}

// cacheKey 由粒度、日期、tokens 与每个食材的剩余天数决定，同一天内同一份 pantry 命中同一条缓存。
func (r *Recommender) cacheKey(p *pantry.Pantry, g core.Granularity, now time.Time) string {
	if r.Cache == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(g)))
	b.WriteByte('|')
	b.WriteString(now.Format(pantry.DateLayout))
	b.WriteByte('|')
	b.WriteString(p.Tokens())
	for _, it := range p.Items() {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(pantry.DaysLeft(it, now)))
	}
	return r.CachePrefix + uuid.NewSHA1(uuid.NameSpaceOID, []byte(b.String())).String()
}

func (r *Recommender) lookup(ctx context.Context, key string) (*cachedResult, bool) {
	if r.Cache == nil || key == "" {
		return nil, false
	}
	data, err := r.Cache.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			r.logger().Warn("recommendation cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		r.logger().Warn("recommendation cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &cached, true
}

func (r *Recommender) store(ctx context.Context, key string, res *Result) {
	if r.Cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(cachedResult{Cuisine: res.Cuisine, ClusterID: res.ClusterID, Ranked: res.Ranked})
	if err != nil {
		r.logger().Warn("encode recommendation failed", zap.Error(err))
		return
	}
	if err := r.Cache.Set(ctx, key, data, int(r.CacheTTL/time.Second)); err != nil {
		r.logger().Warn("recommendation cache write failed", zap.Error(err))
	}
}
