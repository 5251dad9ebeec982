package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Joaotp75/dashboard-assessores/internal/config"
	"github.com/Joaotp75/dashboard-assessores/internal/logger"
	"github.com/Joaotp75/dashboard-assessores/internal/server"
	"github.com/Joaotp75/dashboard-assessores/internal/util"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认为可执行文件同目录的 config.toml)")
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	logLevel   = flag.String("logLevel", "", "日志级别 (覆盖配置文件)")
	noBrowser  = flag.Bool("noBrowser", false, "启动后不打开浏览器")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Dashboard de Assessores")
	fmt.Println("==========================================")

	// 加载配置
	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, info, err := config.LoadFromPath(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *noBrowser {
		cfg.Server.OpenBrowser = false
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.WithFields(logrus.Fields{
		"config":    info.Path,
		"fileFound": info.FileFound,
		"port":      cfg.Server.Port,
		"dev":       cfg.Server.DevMode,
	}).Info("configuration loaded")

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("服务初始化失败")
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		log.Infof("服务启动中，监听端口 %d ...", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("服务启动失败")
		}
	}()

	// 打开浏览器
	switch {
	case cfg.Server.DevMode:
		fmt.Printf("开发模式: 请访问 %s\n", url)
	case cfg.Server.OpenBrowser:
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	default:
		fmt.Printf("请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("关闭服务失败")
	}
}
