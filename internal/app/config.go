package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is read from an optional config file and the environment. Nested
// keys map to env names with dots replaced: database.dsn -> DATABASE_DSN.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Otel       OtelConfig       `mapstructure:"otel"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=development production prod test"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DSN             string        `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogQueries      bool          `mapstructure:"log_queries"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret" validate:"required"`
	AccessTTL time.Duration `mapstructure:"access_ttl" validate:"gt=0"`
}

type StorageConfig struct {
	Provider     string `mapstructure:"provider" validate:"oneof=gcs s3"`
	Bucket       string `mapstructure:"bucket" validate:"required"`
	CDNDomain    string `mapstructure:"cdn_domain"`
	PublicBase   string `mapstructure:"public_base"`
	URLCacheSize int    `mapstructure:"url_cache_size" validate:"gte=0"`

	GCSCredentials  string `mapstructure:"gcs_credentials"`
	GCSMode         string `mapstructure:"gcs_mode"`
	GCSEmulatorHost string `mapstructure:"gcs_emulator_host"`

	S3Region          string `mapstructure:"s3_region" validate:"required_if=Provider s3"`
	S3Endpoint        string `mapstructure:"s3_endpoint"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key"`
}

// RedisConfig enables cross-process cert notifications when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

type StorefrontConfig struct {
	Domain string `mapstructure:"domain" validate:"required"`
}

type OtelConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Environment string  `mapstructure:"environment"`
	Version     string  `mapstructure:"version"`
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("log.mode", "development")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.log_queries", false)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_ttl", "1h")
	v.SetDefault("storage.provider", "gcs")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.cdn_domain", "")
	v.SetDefault("storage.public_base", "")
	v.SetDefault("storage.url_cache_size", 1024)
	v.SetDefault("storage.gcs_credentials", "")
	v.SetDefault("storage.gcs_mode", "gcs")
	v.SetDefault("storage.gcs_emulator_host", "")
	v.SetDefault("storage.s3_region", "")
	v.SetDefault("storage.s3_endpoint", "")
	v.SetDefault("storage.s3_access_key_id", "")
	v.SetDefault("storage.s3_secret_access_key", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "materialhub")
	v.SetDefault("storefront.domain", "")
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.service_name", "materialhub")
	v.SetDefault("otel.environment", "")
	v.SetDefault("otel.version", "")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.headers", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 0.1)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "materialhub")
}

// LoadDotEnv loads ./.env unless DOTENV_DISABLED is set. A missing file is not an error.
func LoadDotEnv() (bool, error) {
	if os.Getenv("DOTENV_DISABLED") != "" {
		return false, nil
	}
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load .env: %w", err)
	}
	return true, nil
}

// LoadConfig reads path (when non-empty) and the environment, then validates the result.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Server.CORSOrigins = compact(cfg.Server.CORSOrigins)
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
