package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/workbook-backend/internal/data/db"
	"github.com/yungbote/workbook-backend/internal/observability"
	"github.com/yungbote/workbook-backend/internal/platform/envutil"
	"github.com/yungbote/workbook-backend/internal/platform/logger"
	"github.com/yungbote/workbook-backend/internal/session"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	LogMode string `yaml:"log_mode"`
	// LogRedaction scrubs credentials and hashes user ids in log fields.
	LogRedaction bool   `yaml:"log_redaction"`
	LogHashSalt  string `yaml:"log_hash_salt"`
	HTTPAddr     string `yaml:"http_addr"`
	// RequestTimeout bounds each API request. Zero disables it.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`

	DB      DBConfig      `yaml:"db"`
	Session SessionConfig `yaml:"session"`
	Metrics MetricsConfig `yaml:"metrics"`
	Otel    OtelConfig    `yaml:"otel"`
}

type DBConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"ssl_mode"`
	SQLitePath      string        `yaml:"sqlite_path"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type SessionConfig struct {
	Store         string        `yaml:"store"`
	TTL           time.Duration `yaml:"ttl"`
	SigningKey    string        `yaml:"signing_key"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func DefaultConfig() Config {
	return Config{
		LogMode:        "development",
		LogRedaction:   true,
		HTTPAddr:       ":8000",
		RequestTimeout: 30 * time.Second,
		DB: DBConfig{
			Driver:          db.DriverPostgres,
			Host:            "localhost",
			Port:            "5432",
			Name:            "workbook",
			SSLMode:         "disable",
			SQLitePath:      "workbook.db",
			MaxOpenConns:    20,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Session: SessionConfig{
			Store:         SessionStoreMemory,
			TTL:           session.DefaultTTL,
			SweepInterval: time.Minute,
		},
		Metrics: MetricsConfig{Addr: ":9090"},
		Otel:    OtelConfig{ServiceName: "workbook", SampleRatio: 1},
	}
}

// LoadConfig starts from defaults, overlays the YAML file at path when one is
// given, then applies environment variables on top.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.LogRedaction = envutil.Bool("LOG_REDACTION_ENABLED", c.LogRedaction)
	c.LogHashSalt = envutil.String("LOG_HASH_SALT", c.LogHashSalt)
	c.HTTPAddr = envutil.String("HTTP_ADDR", c.HTTPAddr)
	c.RequestTimeout = envutil.Duration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.CORSOrigins = envutil.List("CORS_ORIGINS", c.CORSOrigins)

	c.DB.Driver = envutil.String("DB_DRIVER", c.DB.Driver)
	c.DB.Host = envutil.String("POSTGRES_HOST", c.DB.Host)
	c.DB.Port = envutil.String("POSTGRES_PORT", c.DB.Port)
	c.DB.User = envutil.String("POSTGRES_USER", c.DB.User)
	c.DB.Password = envutil.String("POSTGRES_PASSWORD", c.DB.Password)
	c.DB.Name = envutil.String("POSTGRES_NAME", c.DB.Name)
	c.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", c.DB.SSLMode)
	c.DB.SQLitePath = envutil.String("SQLITE_PATH", c.DB.SQLitePath)
	c.DB.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns)
	c.DB.ConnMaxLifetime = envutil.Duration("DB_CONN_MAX_LIFETIME", c.DB.ConnMaxLifetime)

	c.Session.Store = strings.ToLower(envutil.String("SESSION_STORE", c.Session.Store))
	c.Session.TTL = envutil.Duration("SESSION_TTL", c.Session.TTL)
	c.Session.SigningKey = envutil.String("SESSION_SIGNING_KEY", c.Session.SigningKey)
	c.Session.CookieSecure = envutil.Bool("COOKIE_SECURE", c.Session.CookieSecure)
	c.Session.RedisAddr = envutil.String("REDIS_ADDR", c.Session.RedisAddr)
	c.Session.RedisPassword = envutil.String("REDIS_PASSWORD", c.Session.RedisPassword)
	c.Session.RedisDB = envutil.Int("REDIS_DB", c.Session.RedisDB)
	c.Session.SweepInterval = envutil.Duration("SESSION_SWEEP_INTERVAL", c.Session.SweepInterval)

	c.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Addr = envutil.String("METRICS_ADDR", c.Metrics.Addr)

	c.Otel.Enabled = envutil.Bool("OTEL_ENABLED", c.Otel.Enabled)
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName)
	c.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", c.Otel.Environment)
	c.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.Otel.Headers)
	c.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.Otel.Insecure)
	if v := envutil.Int("OTEL_SAMPLE_PERCENT", -1); v >= 0 {
		c.Otel.SampleRatio = float64(v) / 100
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if strings.TrimSpace(c.Session.RedisAddr) == "" {
			errs = append(errs, errors.New("SESSION_STORE=redis requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store))
	}
	if len(c.Session.SigningKey) < 16 {
		errs = append(errs, errors.New("SESSION_SIGNING_KEY must be at least 16 bytes"))
	}
	switch strings.ToLower(c.DB.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver))
	}
	return errors.Join(errs...)
}

func (c Config) dbConfig() db.Config {
	return db.Config{
		Driver:           strings.ToLower(c.DB.Driver),
		PostgresHost:     c.DB.Host,
		PostgresPort:     c.DB.Port,
		PostgresUser:     c.DB.User,
		PostgresPassword: c.DB.Password,
		PostgresName:     c.DB.Name,
		PostgresSSLMode:  c.DB.SSLMode,
		SQLitePath:       c.DB.SQLitePath,
		MaxOpenConns:     c.DB.MaxOpenConns,
		ConnMaxLifetime:  c.DB.ConnMaxLifetime,
	}
}

func (c Config) otelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.Otel.Environment,
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}

func (c Config) loggerConfig() logger.Config {
	return logger.Config{Mode: c.LogMode, DisableRedaction: !c.LogRedaction, HashSalt: c.LogHashSalt}
}
