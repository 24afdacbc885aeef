package config

import (
	"time"

	"today-i-learned/internal/category"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"` // empty means stderr
}

// StoreConfig selects and tunes the fact store backend.
type StoreConfig struct {
	Backend     string        `mapstructure:"backend" yaml:"backend"` // supabase, redis or memory
	LoadTimeout time.Duration `mapstructure:"load_timeout" yaml:"load_timeout"`
	Limit       int           `mapstructure:"limit" yaml:"limit"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"` // 0 disables the list cache
}

// SupabaseConfig holds the hosted table settings.
type SupabaseConfig struct {
	URL               string        `mapstructure:"url" yaml:"url"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	Table             string        `mapstructure:"table" yaml:"table"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
}

// OpenAIConfig enables category suggestions and digest summaries.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DigestConfig controls the markdown digest of top facts.
type DigestConfig struct {
	Interval   time.Duration `mapstructure:"interval" yaml:"interval"`
	Frequency  string        `mapstructure:"frequency" yaml:"frequency"` // daily or weekly
	TopN       int           `mapstructure:"top_n" yaml:"top_n"`
	OutputDir  string        `mapstructure:"output_dir" yaml:"output_dir"`
	Title      string        `mapstructure:"title" yaml:"title"`
	Preface    string        `mapstructure:"preface" yaml:"preface"`
	Postscript string        `mapstructure:"postscript" yaml:"postscript"`
	Language   string        `mapstructure:"language" yaml:"language"`
}

// MirrorConfig controls copying the hosted table into redis.
type MirrorConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig           `mapstructure:"app" yaml:"app"`
	Store      StoreConfig         `mapstructure:"store" yaml:"store"`
	Supabase   SupabaseConfig      `mapstructure:"supabase" yaml:"supabase"`
	Redis      RedisConfig         `mapstructure:"redis" yaml:"redis"`
	OpenAI     OpenAIConfig        `mapstructure:"openai" yaml:"openai"`
	Digest     DigestConfig        `mapstructure:"digest" yaml:"digest"`
	Mirror     MirrorConfig        `mapstructure:"mirror" yaml:"mirror"`
	Categories []category.Category `mapstructure:"categories" yaml:"categories"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "supabase"
	}
	if c.Store.LoadTimeout <= 0 {
		c.Store.LoadTimeout = 10 * time.Second
	}
	if c.Store.Limit <= 0 {
		c.Store.Limit = 1000
	}
	if c.Supabase.Table == "" {
		c.Supabase.Table = "facts"
	}
	if c.Supabase.Timeout <= 0 {
		c.Supabase.Timeout = 10 * time.Second
	}
	if c.Supabase.RequestsPerSecond == 0 {
		c.Supabase.RequestsPerSecond = 5
	}
	if c.Supabase.Burst == 0 {
		c.Supabase.Burst = 5
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Digest.Interval <= 0 {
		c.Digest.Interval = 30 * time.Minute
	}
	if c.Digest.Frequency == "" {
		c.Digest.Frequency = "daily"
	}
	if c.Digest.TopN == 0 {
		c.Digest.TopN = 10
	}
	if c.Digest.OutputDir == "" {
		c.Digest.OutputDir = "./out"
	}
	if c.Digest.Title == "" {
		c.Digest.Title = "Today I learned {.CurrentDate}"
	}
	if c.Mirror.Interval <= 0 {
		c.Mirror.Interval = 10 * time.Minute
	}
	if len(c.Categories) == 0 {
		c.Categories = category.Defaults()
	}
}

// Registry builds the category registry described by the config.
func (c *Config) Registry() (*category.Registry, error) {
	if len(c.Categories) == 0 {
		return category.New(category.Defaults())
	}
	return category.New(c.Categories)
}
