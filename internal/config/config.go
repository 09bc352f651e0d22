package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	User     UserConfig     `mapstructure:"user"`
	API      APIConfig      `mapstructure:"api"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Progress ProgressConfig `mapstructure:"progress"`
	Database DatabaseConfig `mapstructure:"database"`
}

type UserConfig struct {
	ID string `mapstructure:"id" validate:"required"`
}

type APIConfig struct {
	BaseURL          string `mapstructure:"base_url" validate:"required,url"`
	Key              string `mapstructure:"key"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts"`
	CacheTTLMinutes  int    `mapstructure:"cache_ttl_minutes" validate:"gte=0"`
}

type CacheConfig struct {
	Directory     string `mapstructure:"directory"`
	Namespace     string `mapstructure:"namespace"`
	BudgetBytes   int    `mapstructure:"budget_bytes" validate:"gte=0"`
	SweepSchedule string `mapstructure:"sweep_schedule" validate:"omitempty,cron_schedule"`
}

type ProgressConfig struct {
	// Storage selects where attempts persist locally: yaml, mysql, or memory.
	Storage    string `mapstructure:"storage" validate:"oneof=yaml mysql memory"`
	Directory  string `mapstructure:"directory"`
	Thresholds []int  `mapstructure:"thresholds" validate:"dive,gt=0,lte=100"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/dramalearn")
	}

	v.SetDefault("api.base_url", "https://api.dramalearn.example.com/v1")
	v.SetDefault("api.max_retry_attempts", 3)
	v.SetDefault("api.cache_ttl_minutes", 30)
	v.SetDefault("cache.directory", filepath.Join("cache", "content"))
	v.SetDefault("cache.namespace", "dramalearn")
	v.SetDefault("cache.budget_bytes", 50*1024*1024)
	v.SetDefault("cache.sweep_schedule", "@every 10m")
	v.SetDefault("progress.storage", "yaml")
	v.SetDefault("progress.directory", filepath.Join("progress", "users"))
	v.SetDefault("progress.thresholds", []int{25, 50, 100})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "dramalearn")

	// Bind credentials to environment variables only (not from config file)
	if err := v.BindEnv("api.key", "DRAMALEARN_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind DRAMALEARN_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("database.username", "DRAMALEARN_DB_USERNAME"); err != nil {
		return nil, fmt.Errorf("failed to bind DRAMALEARN_DB_USERNAME environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DRAMALEARN_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DRAMALEARN_DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("user.id", "DRAMALEARN_USER_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind DRAMALEARN_USER_ID environment variable: %w", err)
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
