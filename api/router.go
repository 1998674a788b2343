// Package api 是推荐服务的 HTTP 接口。
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/cluster"
	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pantry"
	"github.com/rushteam/pantryrec/service"
)

// Scorer 由 service.Recommender 实现。
type Scorer interface {
	Score(ctx context.Context, entries []pantry.Entry, g core.Granularity, now time.Time) (*service.Result, error)
}

// ClusterSource 由 cluster.Resolver 实现。
type ClusterSource interface {
	Load(ctx context.Context, g core.Granularity) (*cluster.ClusterMap, error)
}

// Handler 持有处理请求所需的依赖。
type Handler struct {
	Scorer             Scorer
	Clusters           ClusterSource // 可选
	DefaultGranularity core.Granularity
	Logger             *zap.Logger

	// Now 返回当前时间，请求未指定 date 时使用
	Now func() time.Time
}

// NewRouter 创建 gin 路由：
//   - GET  /healthz
//   - POST /v1/recommendations
//   - GET  /v1/clusters/:granularity（配置了 Clusters 时）
func NewRouter(h *Handler) *gin.Engine {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	if h.Now == nil {
		h.Now = time.Now
	}

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.New().String()
	})))
	router.Use(Recovery(h.Logger))
	router.Use(Logger(h.Logger))

	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	v1.POST("/recommendations", h.Recommend)
	if h.Clusters != nil {
		v1.GET("/clusters/:granularity", h.ListClusters)
	}

	return router
}
