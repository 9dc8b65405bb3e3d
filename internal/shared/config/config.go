// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	AWS    AWSConfig    `mapstructure:"aws"`
	Tables TablesConfig `mapstructure:"tables"`
	Notify NotifyConfig `mapstructure:"notify"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration for the local gateway.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// AWSConfig holds AWS client configuration.
type AWSConfig struct {
	Region string `mapstructure:"region"`
	// Endpoint overrides the service endpoint, used with DynamoDB Local.
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// TablesConfig names the DynamoDB tables and indexes.
type TablesConfig struct {
	Teams       string `mapstructure:"teams"`
	Memberships string `mapstructure:"memberships"`
	Tasks       string `mapstructure:"tasks"`
	Users       string `mapstructure:"users"`
	// UserIndex is the memberships GSI keyed by userId.
	UserIndex string `mapstructure:"user_index"`
}

// NotifyConfig holds notification fan-out configuration.
type NotifyConfig struct {
	TopicARN         string        `mapstructure:"topic_arn"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from config.yaml and TASKS_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("TASKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env and defaults are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("aws.region", "us-east-1")

	v.SetDefault("tables.teams", "Teams")
	v.SetDefault("tables.memberships", "Memberships")
	v.SetDefault("tables.tasks", "Tasks")
	v.SetDefault("tables.users", "Users")
	v.SetDefault("tables.user_index", "userId-index")

	v.SetDefault("notify.failure_threshold", 5)
	v.SetDefault("notify.circuit_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
