package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Discord DiscordConfig `mapstructure:"discord"`
	Dedup   DedupConfig   `mapstructure:"dedup"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type GitHubConfig struct {
	// Secret is the shared webhook secret. Empty disables signature
	// verification entirely.
	Secret string `mapstructure:"secret"`
	// RequireSignature rejects deliveries that carry no signature header
	// while a secret is configured. When false such deliveries are
	// accepted unverified.
	RequireSignature bool `mapstructure:"require_signature"`
}

type DiscordConfig struct {
	WebhookURL    string        `mapstructure:"webhook_url"`
	Username      string        `mapstructure:"username"`
	AvatarURL     string        `mapstructure:"avatar_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
}

type DedupConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	DBPath    string `mapstructure:"db_path"`
	CacheSize int    `mapstructure:"cache_size"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("github.require_signature", true)
	viper.SetDefault("discord.username", "Warden")
	viper.SetDefault("discord.timeout", 10*time.Second)
	viper.SetDefault("dedup.cache_size", 1024)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
