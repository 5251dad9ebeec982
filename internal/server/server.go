package server

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "github.com/Joaotp75/dashboard-assessores/internal/api/v1"
	"github.com/Joaotp75/dashboard-assessores/internal/config"
	"github.com/Joaotp75/dashboard-assessores/internal/logger"
	"github.com/Joaotp75/dashboard-assessores/internal/metrics"
	"github.com/Joaotp75/dashboard-assessores/internal/session"
	"github.com/Joaotp75/dashboard-assessores/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router   *gin.Engine
	store    *store.Store
	sessions *session.Store
	metrics  *metrics.Metrics
	v1       *v1.Handler
	log      logrus.FieldLogger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, log *logrus.Logger) (*Server, error) {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store（上传审计日志）
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}
	sqliteStore, err := store.New(filepath.Join(dataDir, store.DBFileName))
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return newServer(cfg, log, sqliteStore), nil
}

func newServer(cfg *config.AppConfig, log *logrus.Logger, st *store.Store) *Server {
	sessions := session.NewStore(cfg.Session.TTL.Duration)
	m := metrics.New(sessions.Len)

	handler := v1.NewHandler(v1.Options{
		Sessions: sessions,
		Store:    st,
		Log:      log,
		Limits: v1.UploadLimits{
			MaxFiles:      cfg.Upload.MaxFiles,
			MaxFileBytes:  cfg.MaxFileSizeBytes(),
			RatePerSecond: cfg.Upload.RatePerSecond,
			Burst:         cfg.Upload.Burst,
		},
		Metrics: m,
	})

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log.WithField("component", "http")))

	s := &Server{
		router:   router,
		store:    st,
		sessions: sessions,
		metrics:  m,
		v1:       handler,
		log:      log,
	}
	s.setupRoutes(cfg.Server.DevMode)
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Prometheus 指标
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group("/api")
	{
		s.v1.RegisterRoutes(api)
	}

	if devMode {
		// 开发模式：转到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
		return
	}

	// 生产模式：使用 embed 的静态资源
	sub, _ := fs.Sub(staticFiles, "dist")
	assetsSub, _ := fs.Sub(sub, "assets")
	s.router.StaticFS("/assets", http.FS(assetsSub))

	s.router.GET("/favicon.svg", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	})

	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)
	// SPA 路由 fallback
	s.router.NoRoute(index)
}

// Handler 底层 http.Handler（用于测试与自定义 http.Server）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放数据库连接
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
