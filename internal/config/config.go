package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName 配置文件名（位于可执行文件同目录）
const ConfigFileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Upload  UploadConfig  `toml:"upload"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据目录配置（仅保存上传日志，不保存流水数据）
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// UploadConfig 上传限制
type UploadConfig struct {
	MaxFiles      int     `toml:"max_files"`
	MaxFileSizeMB int64   `toml:"max_file_size_mb"`
	RatePerSecond float64 `toml:"rate_per_second"` // 0 表示不限流
	Burst         int     `toml:"burst"`
}

// SessionConfig 会话配置
type SessionConfig struct {
	TTL Duration `toml:"ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text/json
}

// Duration 支持 "30m" 形式的 toml 时长
type Duration struct {
	time.Duration
}

// UnmarshalText 解析时长字符串
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText 输出时长字符串
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Upload: UploadConfig{
			MaxFiles:      50,
			MaxFileSizeMB: 20,
			RatePerSecond: 2,
			Burst:         5,
		},
		Session: SessionConfig{
			TTL: Duration{2 * time.Hour},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// MaxFileSizeBytes 单个文件大小上限（字节）
func (c *AppConfig) MaxFileSizeBytes() int64 {
	return c.Upload.MaxFileSizeMB << 20
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port)
	}
	if c.Upload.MaxFiles < 1 {
		return fmt.Errorf("invalid upload.max_files %d: must be at least 1", c.Upload.MaxFiles)
	}
	if c.Upload.MaxFileSizeMB < 1 {
		return fmt.Errorf("invalid upload.max_file_size_mb %d: must be at least 1", c.Upload.MaxFileSizeMB)
	}
	if c.Upload.RatePerSecond < 0 {
		return fmt.Errorf("invalid upload.rate_per_second %v: must not be negative", c.Upload.RatePerSecond)
	}
	if c.Upload.RatePerSecond > 0 && c.Upload.Burst < 1 {
		return fmt.Errorf("invalid upload.burst %d: must be at least 1 when rate limiting", c.Upload.Burst)
	}
	if c.Session.TTL.Duration < time.Minute {
		return fmt.Errorf("invalid session.ttl %v: must be at least 1m", c.Session.TTL.Duration)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverMap, ok := raw["server"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, ConfigFileName)
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFromPath(DefaultConfigPath())
}

// LoadFromPath 从指定路径加载配置；文件不存在时使用默认配置
//
// A .env file in the working directory is loaded first; DASHBOARD_* variables
// override values from the toml file.
func LoadFromPath(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	cfg := DefaultConfig()

	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	portSet, err := applyEnv(cfg)
	if err != nil {
		return nil, info, err
	}
	if portSet {
		info.PortSpecified = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

// EnvPrefix 环境变量前缀
const EnvPrefix = "DASHBOARD"

// envOverrides 环境变量覆盖项（DASHBOARD_PORT、DASHBOARD_SESSION_TTL 等）；未设置的字段保持 nil
type envOverrides struct {
	Port          *int           `split_words:"true"`
	DevMode       *bool          `split_words:"true"`
	OpenBrowser   *bool          `split_words:"true"`
	DataDir       *string        `split_words:"true"`
	MaxFiles      *int           `split_words:"true"`
	MaxFileSizeMB *int64         `split_words:"true"`
	RatePerSecond *float64       `split_words:"true"`
	Burst         *int           `split_words:"true"`
	SessionTTL    *time.Duration `split_words:"true"`
	LogLevel      *string        `split_words:"true"`
	LogFormat     *string        `split_words:"true"`
}

// applyEnv 环境变量覆盖，返回是否覆盖了端口
func applyEnv(cfg *AppConfig) (portSet bool, err error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return false, fmt.Errorf("load config from env: %w", err)
	}

	if env.Port != nil {
		cfg.Server.Port = *env.Port
		portSet = true
	}
	if env.DevMode != nil {
		cfg.Server.DevMode = *env.DevMode
	}
	if env.OpenBrowser != nil {
		cfg.Server.OpenBrowser = *env.OpenBrowser
	}
	if env.DataDir != nil {
		cfg.Data.DataDir = *env.DataDir
	}
	if env.MaxFiles != nil {
		cfg.Upload.MaxFiles = *env.MaxFiles
	}
	if env.MaxFileSizeMB != nil {
		cfg.Upload.MaxFileSizeMB = *env.MaxFileSizeMB
	}
	if env.RatePerSecond != nil {
		cfg.Upload.RatePerSecond = *env.RatePerSecond
	}
	if env.Burst != nil {
		cfg.Upload.Burst = *env.Burst
	}
	if env.SessionTTL != nil {
		cfg.Session.TTL = Duration{*env.SessionTTL}
	}
	if env.LogLevel != nil {
		cfg.Log.Level = *env.LogLevel
	}
	if env.LogFormat != nil {
		cfg.Log.Format = *env.LogFormat
	}
	return portSet, nil
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(cfg *AppConfig, configPath string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在；相对路径相对于可执行文件目录
func EnsureDataDir(cfg *AppConfig) (string, error) {
	dataDir := cfg.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
