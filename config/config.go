package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Google       GoogleConfig       `yaml:"google"`
	Link         LinkConfig         `yaml:"link"`
	Upload       UploadConfig       `yaml:"upload"`
	Notification NotificationConfig `yaml:"notification"`
	Health       HealthCheckConfig  `yaml:"health_check"`
}

type ServerConfig struct {
	Port    int    `yaml:"port"`
	Host    string `yaml:"host"`
	BaseURL string `yaml:"base_url"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	StagingExpire int    `yaml:"staging_expire"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type GoogleConfig struct {
	ClientID           string `yaml:"client_id"`
	ClientSecret       string `yaml:"client_secret"`
	RedirectURL        string `yaml:"redirect_url"`
	TokenTimeoutSec    int    `yaml:"token_timeout_sec"`
	UploadTimeoutSec   int    `yaml:"upload_timeout_sec"`
	MetadataTimeoutSec int    `yaml:"metadata_timeout_sec"`
}

type LinkConfig struct {
	TokenLength        int `yaml:"token_length"`
	TempExpireHours    int `yaml:"temp_expire_hours"`
	RefreshBufferMin   int `yaml:"refresh_buffer_min"`
	DefaultTokenTTLSec int `yaml:"default_token_ttl_sec"`
}

type UploadConfig struct {
	MaxFileSize int64 `yaml:"max_file_size"`
}

type NotificationConfig struct {
	Enabled bool `yaml:"enabled"`
}

type HealthCheckConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Link.TokenLength == 0 {
		cfg.Link.TokenLength = 16
	}
	if cfg.Link.TempExpireHours == 0 {
		cfg.Link.TempExpireHours = 24
	}
	if cfg.Link.RefreshBufferMin == 0 {
		cfg.Link.RefreshBufferMin = 5
	}
	if cfg.Link.DefaultTokenTTLSec == 0 {
		// Google 访问令牌默认一小时有效
		cfg.Link.DefaultTokenTTLSec = 3600
	}
	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = 2 * 1024 * 1024 * 1024
	}
	if cfg.Google.TokenTimeoutSec == 0 {
		cfg.Google.TokenTimeoutSec = 30
	}
	if cfg.Google.MetadataTimeoutSec == 0 {
		cfg.Google.MetadataTimeoutSec = 30
	}
	if cfg.Google.UploadTimeoutSec == 0 {
		cfg.Google.UploadTimeoutSec = 300
	}
	if cfg.Redis.StagingExpire == 0 {
		cfg.Redis.StagingExpire = 86400
	}
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 24
	}
}
