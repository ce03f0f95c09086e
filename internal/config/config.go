// Package config loads application configuration from YAML files and
// environment variables.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Review   ReviewConfig   `mapstructure:"review"`
}

type DatabaseConfig struct {
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Database string            `mapstructure:"database"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	TLS      bool              `mapstructure:"tls"`
	Params   map[string]string `mapstructure:"params"`

	MaxOpenConns    int `mapstructure:"max_open_conns"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime_seconds"`
}

type OpenAIConfig struct {
	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"model"`
	RetryAttempts uint   `mapstructure:"retry_attempts"`
}

// ReviewConfig tunes session building and the question pool.
type ReviewConfig struct {
	MaxWords         int `mapstructure:"max_words"`
	QuestionsPerWord int `mapstructure:"questions_per_word"`
	MaxPoolSize      int `mapstructure:"max_pool_size"`
	UsageThreshold   int `mapstructure:"usage_threshold"`
	RecycleCount     int `mapstructure:"recycle_count"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/revoca")
	}

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "revoca")
	v.SetDefault("database.username", "revoca")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.retry_attempts", 3)
	v.SetDefault("review.max_words", 20)
	v.SetDefault("review.questions_per_word", 2)
	v.SetDefault("review.max_pool_size", 5)
	v.SetDefault("review.usage_threshold", 3)
	v.SetDefault("review.recycle_count", 2)

	// Secrets come from environment variables only, never from config files.
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	return &cfg, nil
}
