// Package config loads and validates the newsgram service configuration
// from a YAML file, .env files, and environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Default service configuration values.
const (
	defaultServiceName    = "newsgram"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8090
	defaultServiceEnv     = "development"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
)

// Default database configuration values.
const (
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "newsgram"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultDBConnLifetimeH = 1
)

// Default LLM configuration values.
const (
	defaultLLMEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel    = "gpt-4o-mini"
	defaultLLMTimeout  = 60 * time.Second
)

// Default scraper configuration values.
const (
	defaultUserAgent        = "Mozilla/5.0 (compatible; NewsgramBot/1.0)"
	defaultFetchTimeout     = 10 * time.Second
	defaultMinDelay         = 1000 * time.Millisecond
	defaultMaxDelay         = 3000 * time.Millisecond
	defaultConcurrency      = 3
	defaultHostMinInterval  = 1000 * time.Millisecond
	defaultMaxArticleAge    = 24 * time.Hour
	defaultArticleDelay     = 500 * time.Millisecond
	defaultFeedDelay        = 1000 * time.Millisecond
	defaultStageDelay       = 2 * time.Second
	defaultWorkflowSchedule = "0 9 * * *"
)

// EnvProduction is the Service.Env value that switches on cron authentication.
const EnvProduction = "production"

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Cron     CronConfig     `yaml:"cron"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service identity and runtime settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"NEWSGRAM_PORT" yaml:"port"`
	Env     string `env:"APP_ENV"       yaml:"env"`
	Debug   bool   `env:"APP_DEBUG"     yaml:"debug"`
	// BaseURL is the externally reachable address of this service, used by
	// the workflow orchestrator to call its own cron endpoints.
	BaseURL string `env:"NEWSGRAM_BASE_URL" yaml:"base_url"`
}

// IsProduction reports whether the service runs in production mode.
func (s *ServiceConfig) IsProduction() bool {
	return s.Env == EnvProduction
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host                  string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port                  int           `env:"POSTGRES_PORT"     yaml:"port"`
	User                  string        `env:"POSTGRES_USER"     yaml:"user"`
	Password              string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database              string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode               string        `yaml:"sslmode"`
	MaxConnections        int           `yaml:"max_connections"`
	MaxIdleConns          int           `yaml:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// LLMConfig holds settings for the OpenAI-compatible chat API.
type LLMConfig struct {
	APIKey   string        `env:"OPENAI_API_KEY"  yaml:"api_key"`
	Endpoint string        `env:"OPENAI_ENDPOINT" yaml:"endpoint"`
	Model    string        `env:"OPENAI_MODEL"    yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ScraperConfig holds outbound scraping behavior settings.
type ScraperConfig struct {
	UserAgent       string        `yaml:"user_agent"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	MinDelay        time.Duration `yaml:"min_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
	Concurrency     int           `yaml:"concurrency"`
	HostMinInterval time.Duration `yaml:"host_min_interval"`
	MaxArticleAge   time.Duration `yaml:"max_article_age"`
	ArticleDelay    time.Duration `yaml:"article_delay"`
	FeedDelay       time.Duration `yaml:"feed_delay"`
}

// CronConfig holds shared-secret auth and workflow pacing settings.
type CronConfig struct {
	Secret     string        `env:"CRON_SECRET" yaml:"secret"`
	StageDelay time.Duration `yaml:"stage_delay"`
	Schedule   string        `env:"WORKFLOW_SCHEDULE" yaml:"schedule"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Load loads configuration from a YAML file, applies defaults, then env overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if loadErr := load(path, cfg); loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}

	setDefaults(cfg)

	// Re-apply env overrides after defaults (env always wins)
	applyEnvOverrides(cfg)

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := ValidatePort("service.port", c.Service.Port); err != nil {
		return err
	}

	if c.Database.Host == "" {
		return &ValidationError{Field: "database.host", Message: "is required"}
	}

	if c.Database.Database == "" {
		return &ValidationError{Field: "database.database", Message: "is required"}
	}

	if c.Scraper.MinDelay > c.Scraper.MaxDelay {
		return &ValidationError{Field: "scraper.min_delay", Message: "must not exceed scraper.max_delay"}
	}

	if c.Service.IsProduction() && c.Cron.Secret == "" {
		return &ValidationError{Field: "cron.secret", Message: "is required in production"}
	}

	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePort checks if a port number is valid.
func ValidatePort(field string, port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// setDefaults applies default values to all configuration sections.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setLLMDefaults(&cfg.LLM)
	setScraperDefaults(&cfg.Scraper)
	setCronDefaults(&cfg.Cron)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}

	if s.Version == "" {
		s.Version = defaultServiceVersion
	}

	if s.Port == 0 {
		s.Port = defaultServicePort
	}

	if s.Env == "" {
		s.Env = defaultServiceEnv
	}

	if s.BaseURL == "" {
		s.BaseURL = fmt.Sprintf("http://localhost:%d", s.Port)
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}

	if d.Port == 0 {
		d.Port = defaultDBPort
	}

	if d.User == "" {
		d.User = defaultDBUser
	}

	if d.Database == "" {
		d.Database = defaultDBName
	}

	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}

	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}

	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}

	if d.ConnectionMaxLifetime == 0 {
		d.ConnectionMaxLifetime = defaultDBConnLifetimeH * time.Hour
	}
}

func setLLMDefaults(l *LLMConfig) {
	if l.Endpoint == "" {
		l.Endpoint = defaultLLMEndpoint
	}

	if l.Model == "" {
		l.Model = defaultLLMModel
	}

	if l.Timeout == 0 {
		l.Timeout = defaultLLMTimeout
	}
}

func setScraperDefaults(s *ScraperConfig) {
	if s.UserAgent == "" {
		s.UserAgent = defaultUserAgent
	}

	if s.FetchTimeout == 0 {
		s.FetchTimeout = defaultFetchTimeout
	}

	if s.MinDelay == 0 {
		s.MinDelay = defaultMinDelay
	}

	if s.MaxDelay == 0 {
		s.MaxDelay = defaultMaxDelay
	}

	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}

	if s.HostMinInterval == 0 {
		s.HostMinInterval = defaultHostMinInterval
	}

	if s.MaxArticleAge == 0 {
		s.MaxArticleAge = defaultMaxArticleAge
	}

	if s.ArticleDelay == 0 {
		s.ArticleDelay = defaultArticleDelay
	}

	if s.FeedDelay == 0 {
		s.FeedDelay = defaultFeedDelay
	}
}

func setCronDefaults(c *CronConfig) {
	if c.StageDelay == 0 {
		c.StageDelay = defaultStageDelay
	}

	if c.Schedule == "" {
		c.Schedule = defaultWorkflowSchedule
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}

	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
