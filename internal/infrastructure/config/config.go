package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration, assembled from the
// config.toml file and PROCURE_ environment variables.
type Config struct {
	App             AppConfig
	Database        DatabaseConfig
	Redis           RedisConfig
	Log             LogConfig
	Event           EventConfig
	HTTP            HTTPConfig
	Scheduler       SchedulerConfig
	QuoteExpiration QuoteExpirationConfig
	Telemetry       TelemetryConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

type EventConfig struct {
	BusBufferSize int
	MaxRetries    int
}

type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

type SchedulerConfig struct {
	JobTimeout time.Duration // per-job deadline for background sweeps
}

// QuoteExpirationConfig controls the background sweep that expires
// lapsed quotes.
type QuoteExpirationConfig struct {
	Enabled       bool
	CheckInterval time.Duration
	DryRun        bool // report candidates without transitioning them
}

type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64 // 0.0 to 1.0
	ServiceName       string
	Insecure          bool // non-TLS collector connection, development only
}

// Load reads config.toml if present, overlays PROCURE_ environment
// variables on top, fills defaults for anything still unset, and
// validates the result. A zero or empty value counts as unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// Running without a config file is fine, env vars and
		// defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PROCURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App:             loadApp(v),
		Database:        loadDatabase(v),
		Redis:           loadRedis(v),
		Log:             loadLog(v),
		Event:           loadEvent(v),
		HTTP:            loadHTTP(v),
		Scheduler:       loadScheduler(v),
		QuoteExpiration: loadQuoteExpiration(v),
		Telemetry:       loadTelemetry(v),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadApp(v *viper.Viper) AppConfig {
	return AppConfig{
		Name: stringOr(v, "app.name", "procureflow-backend"),
		Env:  stringOr(v, "app.env", "development"),
		Port: stringOr(v, "app.port", "8080"),
	}
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		Host:            stringOr(v, "database.host", "localhost"),
		Port:            intOr(v, "database.port", 5432),
		User:            stringOr(v, "database.user", "postgres"),
		Password:        v.GetString("database.password"),
		DBName:          stringOr(v, "database.dbname", "procureflow"),
		SSLMode:         stringOr(v, "database.sslmode", "disable"),
		MaxOpenConns:    intOr(v, "database.max_open_conns", 25),
		MaxIdleConns:    intOr(v, "database.max_idle_conns", 5),
		ConnMaxLifetime: intOr(v, "database.conn_max_lifetime", 60),
		ConnMaxIdleTime: intOr(v, "database.conn_max_idle_time", 30),
	}
}

func loadRedis(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Host:     stringOr(v, "redis.host", "localhost"),
		Port:     intOr(v, "redis.port", 6379),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}

func loadLog(v *viper.Viper) LogConfig {
	return LogConfig{
		Level:  stringOr(v, "log.level", "info"),
		Format: stringOr(v, "log.format", "console"),
		Output: stringOr(v, "log.output", "stdout"),
	}
}

func loadEvent(v *viper.Viper) EventConfig {
	return EventConfig{
		BusBufferSize: intOr(v, "event.bus_buffer_size", 256),
		MaxRetries:    intOr(v, "event.max_retries", 5),
	}
}

func loadHTTP(v *viper.Viper) HTTPConfig {
	cfg := HTTPConfig{
		ReadTimeout:    durationOr(v, "http.read_timeout", 15*time.Second),
		WriteTimeout:   durationOr(v, "http.write_timeout", 15*time.Second),
		IdleTimeout:    durationOr(v, "http.idle_timeout", 60*time.Second),
		MaxHeaderBytes: intOr(v, "http.max_header_bytes", 1<<20),
		MaxBodySize:    v.GetInt64("http.max_body_size"),
		// No wildcard fallback for origins. An empty list means no
		// cross-origin requests until explicitly configured.
		CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
		CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
		CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 10 << 20
	}
	if len(cfg.CORSAllowMethods) == 0 {
		cfg.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.CORSAllowHeaders) == 0 {
		cfg.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
	return cfg
}

func loadScheduler(v *viper.Viper) SchedulerConfig {
	return SchedulerConfig{
		JobTimeout: durationOr(v, "scheduler.job_timeout", 30*time.Minute),
	}
}

func loadQuoteExpiration(v *viper.Viper) QuoteExpirationConfig {
	return QuoteExpirationConfig{
		Enabled:       v.GetBool("quote_expiration.enabled"),
		CheckInterval: durationOr(v, "quote_expiration.check_interval", 5*time.Minute),
		DryRun:        v.GetBool("quote_expiration.dry_run"),
	}
}

func loadTelemetry(v *viper.Viper) TelemetryConfig {
	return TelemetryConfig{
		Enabled:           v.GetBool("telemetry.enabled"),
		CollectorEndpoint: stringOr(v, "telemetry.collector_endpoint", "localhost:4317"),
		SamplingRatio:     floatOr(v, "telemetry.sampling_ratio", 1.0),
		ServiceName:       stringOr(v, "telemetry.service_name", "procureflow-backend"),
		Insecure:          v.GetBool("telemetry.insecure"),
	}
}

func stringOr(v *viper.Viper, key, fallback string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	return fallback
}

func intOr(v *viper.Viper, key string, fallback int) int {
	if n := v.GetInt(key); n != 0 {
		return n
	}
	return fallback
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d := v.GetDuration(key); d != 0 {
		return d
	}
	return fallback
}

func floatOr(v *viper.Viper, key string, fallback float64) float64 {
	if f := v.GetFloat64(key); f != 0 {
		return f
	}
	return fallback
}

func (c *Config) validate() error {
	if err := c.Database.validate(); err != nil {
		return err
	}
	if c.App.Env == "production" {
		if err := c.validateProduction(); err != nil {
			return err
		}
	}
	if c.QuoteExpiration.CheckInterval < time.Second {
		return fmt.Errorf("quote_expiration.check_interval must be at least one second")
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

func (d *DatabaseConfig) validate() error {
	if d.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if d.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			d.MaxIdleConns, d.MaxOpenConns)
	}
	return nil
}

// validateProduction rejects settings that are only acceptable during
// development.
func (c *Config) validateProduction() error {
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	if c.QuoteExpiration.DryRun {
		return fmt.Errorf("quote_expiration.dry_run must be false in production")
	}
	return nil
}

// DSN builds the postgres connection URL with user and password escaped.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
