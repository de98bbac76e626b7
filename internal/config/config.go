package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config bakesight-dashboard（Dashboard BFF）配置
type Config struct {
	HTTP struct {
		Addr string
	}

	// Central Bake-Sight central API（唯一的数据来源）
	Central CentralConfig

	Dashboard struct {
		DefaultStoreCode string // 未指定 store_code 时使用
		ResolverID       string // 处理 review 时写入 resolved_by
		ClipPublicHost   string // gs://bucket/path → <host>/bucket/path
		BulkConcurrency  int    // MarkAllAlertsAsRead 并发上限，0 = 不限制
	}

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Cache struct {
		TTL time.Duration // store / device 列表缓存时间
	}

	Log struct {
		Level  string
		Format string
	}
	MetricsEnabled bool
}

// CentralConfig central API 客户端配置
type CentralConfig struct {
	BaseURL    string
	AdminKey   string
	Timeout    time.Duration // 0 = 不设置超时
	RetryCount int
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Central.BaseURL = strings.TrimRight(getEnv("CENTRAL_API_URL", "http://127.0.0.1:8000/api/v1"), "/")
	cfg.Central.AdminKey = getEnv("CENTRAL_ADMIN_KEY", "")
	cfg.Central.Timeout = time.Duration(parseInt(getEnv("CENTRAL_TIMEOUT_SEC", "10"), 10)) * time.Second
	cfg.Central.RetryCount = parseInt(getEnv("CENTRAL_RETRY_COUNT", "0"), 0)

	cfg.Dashboard.DefaultStoreCode = getEnv("DEFAULT_STORE_CODE", "STORE-01")
	cfg.Dashboard.ResolverID = getEnv("RESOLVER_ID", "dashboard-admin")
	cfg.Dashboard.ClipPublicHost = strings.TrimRight(getEnv("CLIP_PUBLIC_HOST", "https://storage.googleapis.com"), "/")
	cfg.Dashboard.BulkConcurrency = parseInt(getEnv("BULK_CONCURRENCY", "0"), 0)

	// Redis 默认关闭：未启用时使用进程内缓存
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)
	cfg.Cache.TTL = time.Duration(parseInt(getEnv("CACHE_TTL_SEC", "30"), 30)) * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.MetricsEnabled = getEnv("METRICS_ENABLED", "true") == "true"

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Central.BaseURL == "" {
		return fmt.Errorf("CENTRAL_API_URL is required")
	}
	if c.Central.RetryCount < 0 {
		return fmt.Errorf("CENTRAL_RETRY_COUNT must not be negative: %d", c.Central.RetryCount)
	}
	if c.Dashboard.BulkConcurrency < 0 {
		return fmt.Errorf("BULK_CONCURRENCY must not be negative: %d", c.Dashboard.BulkConcurrency)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
