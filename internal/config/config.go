package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Expiry   ExpiryConfig   `envPrefix:"EXPIRY_"`
	Upload   UploadConfig   `envPrefix:"UPLOAD_"`
}

type AppConfig struct {
	AppName          string `env:"APP_NAME,required"`
	Environment      string `env:"APP_ENV,required"`
	HTTPPort         string `env:"HTTP_PORT,required"`
	MigrateOnStart   bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	RequestBodyLimit int    `env:"HTTP_BODY_LIMIT"  envDefault:"8388608"`
}

type DatabaseConfig struct {
	DBHost     string `env:"HOST"     envDefault:"localhost"`
	DBPort     string `env:"PORT"     envDefault:"5432"`
	DBName     string `env:"NAME"     envDefault:"jobboard"`
	DBUser     string `env:"USER"     envDefault:"jobboard"`
	DBPassword string `env:"PASSWORD"`
	DBSSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	ConnectTimeout        time.Duration `env:"CONNECT_TIMEOUT"          envDefault:"5s"`
	PoolMaxConns          int32         `env:"POOL_MAX_CONNS"           envDefault:"10"`
	PoolMinConns          int32         `env:"POOL_MIN_CONNS"           envDefault:"0"`
	PoolMaxConnLifetime   time.Duration `env:"POOL_MAX_CONN_LIFETIME"   envDefault:"1h"`
	PoolMaxConnIdleTime   time.Duration `env:"POOL_MAX_CONN_IDLE_TIME"  envDefault:"30m"`
	PoolHealthCheckPeriod time.Duration `env:"POOL_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

type RedisConfig struct {
	Addr     string        `env:"ADDR"     envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB"       envDefault:"0"`
	ListTTL  time.Duration `env:"LIST_TTL" envDefault:"60s"`
}

type JWTConfig struct {
	AccessSecret string        `env:"ACCESS_SECRET,required"`
	AccessTTL    time.Duration `env:"ACCESS_TTL"            envDefault:"1h"`
}

// ExpiryConfig controls the background sweep that removes expired postings.
type ExpiryConfig struct {
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
	SweepOnStart  bool          `env:"SWEEP_ON_START" envDefault:"false"`
	SweepTimeout  time.Duration `env:"SWEEP_TIMEOUT"  envDefault:"30s"`
}

type UploadConfig struct {
	Dir      string `env:"DIR"       envDefault:"uploads"`
	MaxBytes int64  `env:"MAX_BYTES" envDefault:"5242880"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize clamps values that would otherwise break the server or the sweeper.
func (c *Config) Sanitize() {
	c.App.AppName = strings.TrimSpace(c.App.AppName)
	c.App.Environment = strings.ToLower(strings.TrimSpace(c.App.Environment))
	c.App.HTTPPort = strings.TrimSpace(c.App.HTTPPort)
	if c.App.RequestBodyLimit <= 0 {
		c.App.RequestBodyLimit = 8 << 20
	}

	if c.Expiry.SweepInterval < time.Minute {
		c.Expiry.SweepInterval = time.Minute
	}
	if c.Expiry.SweepTimeout <= 0 {
		c.Expiry.SweepTimeout = 30 * time.Second
	}

	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = 5 << 20
	}
	if strings.TrimSpace(c.Upload.Dir) == "" {
		c.Upload.Dir = "uploads"
	}

	if c.Redis.ListTTL <= 0 {
		c.Redis.ListTTL = 60 * time.Second
	}
}

func (c Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}
