package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Joaotp75/dashboard-assessores/internal/exporter"
	"github.com/Joaotp75/dashboard-assessores/internal/metrics"
	"github.com/Joaotp75/dashboard-assessores/internal/session"
	"github.com/Joaotp75/dashboard-assessores/internal/store"
)

// Version API 版本号
const Version = "1.0.0"

// UploadLimits 上传限制
type UploadLimits struct {
	MaxFiles      int
	MaxFileBytes  int64
	RatePerSecond float64 // 0 表示不限流
	Burst         int
}

// Options Handler 依赖
type Options struct {
	Sessions *session.Store
	Store    *store.Store // 可为 nil：不记录上传日志
	Log      logrus.FieldLogger
	Limits   UploadLimits
	Metrics  *metrics.Metrics // 可为 nil
}

// Handler V1 API 处理器
type Handler struct {
	sessions  *session.Store
	store     *store.Store
	exporter  *exporter.Exporter
	log       logrus.FieldLogger
	limits    UploadLimits
	downloads *exportDownloadStore
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
	startedAt time.Time
}

// NewHandler 创建 V1 API 处理器
func NewHandler(opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "api")

	var limiter *rate.Limiter
	if opts.Limits.RatePerSecond > 0 {
		burst := opts.Limits.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Limits.RatePerSecond), burst)
	}

	return &Handler{
		sessions:  opts.Sessions,
		store:     opts.Store,
		exporter:  exporter.NewExporter(log),
		log:       log,
		limits:    opts.Limits,
		downloads: newExportDownloadStore(exportDownloadMaxBytes),
		limiter:   limiter,
		metrics:   opts.Metrics,
		startedAt: time.Now(),
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 上传并合并
	router.POST("/upload", h.rateLimit(), h.Upload)

	// 会话内的筛选与视图
	sessions := router.Group("/sessions/:id")
	{
		sessions.GET("/options", h.GetOptions)
		sessions.GET("/dashboard", h.GetDashboard)
		sessions.GET("/export", h.Export)
		sessions.POST("/export/stream", h.ExportStream)
		sessions.DELETE("", h.DeleteSession)
	}
	router.GET("/export/download/:token", h.DownloadExport)

	// 上传日志
	router.GET("/imports", h.ListImports)
	router.GET("/imports/:id/sheets", h.ListImportSheets)
}

// rateLimit 上传限流（令牌桶）；未配置时直接放行
func (h *Handler) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.limiter != nil && !h.limiter.Allow() {
			h.metrics.ObserveUpload(metrics.UploadRejected, 0, 0)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody(CodeRateLimited, "Muitos envios, tente novamente em instantes."))
			return
		}
		c.Next()
	}
}
