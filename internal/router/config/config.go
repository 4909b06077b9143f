package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/rentr-service/internal/utils"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	PolicyAny      = "any"       // Действие разрешено в любом статусе
	PolicyOpenOnly = "open-only" // Действие разрешено только для открытых работ
)

// Config - структура для хранения конфигураций приложения
type Config struct {
	ServerAddress  string `mapstructure:"SERVER_ADDRESS"`
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`

	PostgresConn string `mapstructure:"POSTGRES_CONN"`
	PostgresURL  string `mapstructure:"POSTGRES_JDBC_URL"`
	PostgresUser string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost string `mapstructure:"POSTGRES_HOST"`
	PostgresPort string `mapstructure:"POSTGRES_PORT"`
	PostgresDB   string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	TrustedProxies []string      `mapstructure:"TRUSTED_PROXIES"`

	EditPolicy         string `mapstructure:"EDIT_POLICY"`
	DeletePolicy       string `mapstructure:"DELETE_POLICY"`
	UniqueApplications bool   `mapstructure:"UNIQUE_APPLICATIONS"`
	SeedDemoData       bool   `mapstructure:"SEED_DEMO_DATA"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]interface{}{
	"SERVER_ADDRESS":      "0.0.0.0:8080",
	"STORAGE_BACKEND":     BackendMemory,
	"POSTGRES_CONN":       "",
	"POSTGRES_JDBC_URL":   "",
	"POSTGRES_USERNAME":   "",
	"POSTGRES_PASSWORD":   "",
	"POSTGRES_HOST":       "",
	"POSTGRES_PORT":       "",
	"POSTGRES_DATABASE":   "",
	"MIGRATION_URL":       "file://db/migration",
	"REDIS_ADDR":          "localhost:6379",
	"REDIS_PASSWORD":      "",
	"REDIS_DB":            0,
	"AMQP_URL":            "",
	"AMQP_EXCHANGE":       "rentr.jobs",
	"REQUEST_TIMEOUT":     "5s",
	"RATE_LIMIT_RPS":      0,
	"RATE_LIMIT_BURST":    20,
	"CORS_ORIGINS":        "http://localhost:5173",
	"TRUSTED_PROXIES":     "",
	"EDIT_POLICY":         PolicyAny,
	"DELETE_POLICY":       PolicyAny,
	"UNIQUE_APPLICATIONS": false,
	"SEED_DEMO_DATA":      false,
	"LOG_LEVEL":           "info",
}

// LoadConfig загружает конфигурацию из файла app.env в path.
// Переменные окружения имеют приоритет над файлом, отсутствие файла не считается ошибкой.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)
	cfg.TrustedProxies = splitList(cfg.TrustedProxies)
	err = cfg.Validate()
	return
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.PostgresConn == "" {
			return fmt.Errorf("POSTGRES_CONN is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND: %q", c.StorageBackend)
	}

	for name, policy := range map[string]string{"EDIT_POLICY": c.EditPolicy, "DELETE_POLICY": c.DeletePolicy} {
		if policy != PolicyAny && policy != PolicyOpenOnly {
			return fmt.Errorf("unsupported %s: %q", name, policy)
		}
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if _, err := utils.ParseTrustedProxies(c.TrustedProxies); err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	return nil
}

func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
