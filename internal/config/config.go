package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API    APIConfig    `yaml:"api"`
	Cache  CacheConfig  `yaml:"cache"`
	Notify NotifyConfig `yaml:"notify"`
	Log    LogConfig    `yaml:"log"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	TokenFile      string `yaml:"token_file"`
}

type CacheConfig struct {
	// 无订阅者后缓存条目保留的秒数
	KeepUnusedSeconds int `yaml:"keep_unused_seconds"`
}

type NotifyConfig struct {
	// 通知自动消失的秒数
	TTLSeconds int `yaml:"ttl_seconds"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	// 首先尝试从 YAML 文件加载
	if data, err := os.ReadFile("configs/config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	// 然后从环境变量覆盖
	cfg.overrideFromEnv()

	// 设置默认值
	cfg.setDefaults()

	return cfg, nil
}

func (c *Config) overrideFromEnv() {
	if val := os.Getenv("NOTES_API_BASE_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("NOTES_API_TIMEOUT"); val != "" {
		if sec, err := strconv.Atoi(val); err == nil {
			c.API.TimeoutSeconds = sec
		}
	}
	if val := os.Getenv("NOTES_TOKEN_FILE"); val != "" {
		c.API.TokenFile = val
	}
	if val := os.Getenv("NOTES_CACHE_KEEP_UNUSED"); val != "" {
		if sec, err := strconv.Atoi(val); err == nil {
			c.Cache.KeepUnusedSeconds = sec
		}
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FILE"); val != "" {
		c.Log.File = val
	}
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:8080/api"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.API.TokenFile == "" {
		c.API.TokenFile = defaultTokenFile()
	}

	if c.Cache.KeepUnusedSeconds == 0 {
		c.Cache.KeepUnusedSeconds = 60
	}

	if c.Notify.TTLSeconds == 0 {
		c.Notify.TTLSeconds = 5
	}

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 10
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 7
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
}

func defaultTokenFile() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "notes-client", "token.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".notes-client", "token.json")
	}
	return filepath.Join(home, ".config", "notes-client", "token.json")
}
