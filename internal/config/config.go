package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	API      APIConfig      `yaml:"api"`
	Sync     SyncConfig     `yaml:"sync"`
	HTTP     HTTPConfig     `yaml:"http"`
	LogLevel string         `yaml:"log_level" validate:"oneof=debug info warn error"`
}

type RabbitMQConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url" validate:"required_if=Enabled true"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// APIConfig configures the external Instagram data API.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	AccessToken string        `yaml:"access_token" validate:"required"`
	MediaLimit  int           `yaml:"media_limit" validate:"min=1,max=100"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
}

type SyncConfig struct {
	BatchSize           int           `yaml:"batch_size" validate:"min=1"`
	BatchDelay          time.Duration `yaml:"batch_delay" validate:"gte=0"`
	CheckInterval       time.Duration `yaml:"check_interval" validate:"gt=0"`
	Windows             []string      `yaml:"windows" validate:"min=1,dive,required"`
	WindowTolerance     time.Duration `yaml:"window_tolerance" validate:"gt=0"`
	Timezone            string        `yaml:"timezone" validate:"required"`
	FullRefreshAfter    time.Duration `yaml:"full_refresh_after" validate:"gt=0"`
	PartialRefreshAfter time.Duration `yaml:"partial_refresh_after" validate:"gt=0,ltefield=FullRefreshAfter"`
	RecordRuns          *bool         `yaml:"record_runs"`
}

// RecordsRuns reports whether whole-run summaries are persisted.
func (s SyncConfig) RecordsRuns() bool {
	return s.RecordRuns == nil || *s.RecordRuns
}

type HTTPConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// ConfigurationError reports a missing or invalid setting. It is returned at
// load time so the process fails before any request is made.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse expands environment references in data and decodes it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field constraint and returns the first violation as
// a *ConfigurationError.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigurationError{
			Field:  fieldPath(fe.Namespace()),
			Reason: reason(fe),
		}
	}
	return &ConfigurationError{Field: "config", Reason: err.Error()}
}

func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of " + fe.Param()
	case "ltefield":
		return "must not exceed " + fe.Param()
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
}

func (c *Config) setDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "insta_syncer"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "sync_attempts"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "dashboard_sync_attempts"
	}
	if c.API.MediaLimit == 0 {
		c.API.MediaLimit = 25
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Sync.BatchSize == 0 {
		c.Sync.BatchSize = 5
	}
	if c.Sync.BatchDelay == 0 {
		c.Sync.BatchDelay = 5 * time.Second
	}
	if c.Sync.CheckInterval == 0 {
		c.Sync.CheckInterval = time.Minute
	}
	if len(c.Sync.Windows) == 0 {
		c.Sync.Windows = []string{"08:00", "20:00"}
	}
	if c.Sync.WindowTolerance == 0 {
		c.Sync.WindowTolerance = 5 * time.Minute
	}
	if c.Sync.Timezone == "" {
		c.Sync.Timezone = "UTC"
	}
	if c.Sync.FullRefreshAfter == 0 {
		c.Sync.FullRefreshAfter = 24 * time.Hour
	}
	if c.Sync.PartialRefreshAfter == 0 {
		c.Sync.PartialRefreshAfter = 12 * time.Hour
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
