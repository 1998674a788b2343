package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pantry"
	"github.com/rushteam/pantryrec/service"
)

// RecommendRequest 是推荐请求体。
type RecommendRequest struct {
	// Granularity 为空时使用服务端默认粒度
	Granularity *int           `json:"granularity"`
	Items       []pantry.Entry `json:"items" binding:"required"`
	// Date 可选，YYYY-MM-DD；用于计算剩余天数的"今天"
	Date string `json:"date"`
}

// RecommendResponse 是推荐响应体。
type RecommendResponse struct {
	RequestID string `json:"request_id"`
	*service.Result
}

// ErrorResponse 是统一的错误响应体。
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, core.ValidationError(core.ModuleService, "invalid request body: %v", err))
		return
	}

	g := h.DefaultGranularity
	if req.Granularity != nil {
		g = core.Granularity(*req.Granularity)
	}

	now := h.Now()
	if req.Date != "" {
		d, err := pantry.ParseDate(req.Date)
		if err != nil {
			h.fail(c, err)
			return
		}
		now = d
	}

	res, err := h.Scorer.Score(c.Request.Context(), req.Items, g, now)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, RecommendResponse{RequestID: requestid.Get(c), Result: res})
}

// ClusterView 是一个聚类及其菜系。
type ClusterView struct {
	ID       string   `json:"id"`
	Cuisines []string `json:"cuisines"`
}

// ListClusters 列出某个粒度下的全部聚类。
func (h *Handler) ListClusters(c *gin.Context) {
	g, err := core.ParseGranularity(c.Param("granularity"))
	if err != nil {
		h.fail(c, err)
		return
	}
	cm, err := h.Clusters.Load(c.Request.Context(), g)
	if err != nil {
		h.fail(c, err)
		return
	}
	views := make([]ClusterView, 0, len(cm.IDs()))
	for _, id := range cm.IDs() {
		views = append(views, ClusterView{ID: id, Cuisines: cm.Cuisines(id)})
	}
	c.JSON(http.StatusOK, gin.H{"granularity": int(g), "clusters": views})
}

// StatusOf 把领域错误映射为 HTTP 状态码。
func StatusOf(err error) int {
	switch {
	case core.IsValidation(err), core.IsConfiguration(err):
		return http.StatusBadRequest
	case core.IsLookup(err):
		return http.StatusUnprocessableEntity
	case core.IsNotFound(err):
		return http.StatusNotFound
	case core.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := StatusOf(err)
	code := core.ErrorCodeInternalError
	if de := core.GetDomainError(err); de != nil {
		code = de.Code
	}
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("recommendation failed", zap.Error(err), zap.String("request_id", requestid.Get(c)))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code, RequestID: requestid.Get(c)})
}
