package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"mixwise-api/internal/core/matching"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Matching    MatchingConfig  `mapstructure:"matching"`
	Cabinet     CabinetConfig   `mapstructure:"cabinet"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogDir      string          `mapstructure:"log_dir"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// CatalogConfig 酒譜目錄來源
type CatalogConfig struct {
	Source         string            `mapstructure:"source"` // file 或 http
	Path           string            `mapstructure:"path"`
	URL            string            `mapstructure:"url"`
	APIKey         string            `mapstructure:"api_key"`
	Timeout        time.Duration     `mapstructure:"timeout"`
	ReloadInterval time.Duration     `mapstructure:"reload_interval"`
	Aliases        map[string]string `mapstructure:"aliases"`
	Brands         []string          `mapstructure:"brands"`
}

// MatchingConfig 分類與建議設定
type MatchingConfig struct {
	MaxMissing      int      `mapstructure:"max_missing"`
	SuggestionLimit int      `mapstructure:"suggestion_limit"`
	Staples         []string `mapstructure:"staples"`
}

// Options 轉為核心使用的設定
func (m MatchingConfig) Options() matching.Options {
	return matching.Options{
		MaxMissing: m.MaxMissing,
		Limit:      m.SuggestionLimit,
	}
}

// CabinetConfig 酒櫃儲存設定
type CabinetConfig struct {
	Backend string        `mapstructure:"backend"` // memory 或 redis
	TTL     time.Duration `mapstructure:"ttl"`
}

// RedisConfig Redis 連線
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定，.env 不存在時只使用環境變數與預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(viper.New())
}

// Load 從指定的 viper 實例解析設定
func Load(v *viper.Viper) (*Config, error) {
	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("catalog.source", "CATALOG_SOURCE")
	_ = v.BindEnv("catalog.path", "CATALOG_PATH")
	_ = v.BindEnv("catalog.url", "CATALOG_URL")
	_ = v.BindEnv("catalog.api_key", "CATALOG_API_KEY")
	_ = v.BindEnv("matching.max_missing", "MAX_MISSING")
	_ = v.BindEnv("matching.suggestion_limit", "SUGGESTION_LIMIT")
	_ = v.BindEnv("cabinet.backend", "CABINET_BACKEND")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_dir", "LOG_DIR")

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Matching.Staples = splitList(config.Matching.Staples)
	config.Catalog.Brands = splitList(config.Catalog.Brands)

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// splitList 環境變數中的清單以逗號分隔
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "mixwise-api")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// 目錄設定
	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "data/catalog.yaml")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.reload_interval", "0s")
	v.SetDefault("catalog.brands", []string{})

	// 比對設定
	v.SetDefault("matching.max_missing", matching.DefaultMaxMissing)
	v.SetDefault("matching.suggestion_limit", matching.DefaultLimit)
	v.SetDefault("matching.staples", []string{"ice", "water"})

	// 酒櫃設定
	v.SetDefault("cabinet.backend", "memory")
	v.SetDefault("cabinet.ttl", "0s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "mixwise")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "1m")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證目錄設定
	switch config.Catalog.Source {
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for file source")
		}
	case "http":
		if config.Catalog.URL == "" {
			return fmt.Errorf("catalog url is required for http source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
	}

	// 驗證比對設定
	if err := config.Matching.Options().Validate(); err != nil {
		return err
	}

	// 驗證酒櫃設定
	switch config.Cabinet.Backend {
	case "memory":
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for redis cabinet backend")
		}
	default:
		return fmt.Errorf("unknown cabinet backend %q", config.Cabinet.Backend)
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	// 驗證限流設定
	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	return nil
}
