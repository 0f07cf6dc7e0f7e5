package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultMaxMockQuestions = 100

// Config holds everything the server needs at startup. Values come from an
// optional YAML file and are overridden by environment variables.
type Config struct {
	Env         string        `yaml:"env"`
	Port        string        `yaml:"port"`
	DBDriver    string        `yaml:"db_driver"`
	Postgres    PostgresCfg   `yaml:"postgres"`
	SQLitePath  string        `yaml:"sqlite_path"`
	RedisAddr   string        `yaml:"redis_addr"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	CORSOrigins []string      `yaml:"cors_allowed_origins"`

	MaxMockQuestions int `yaml:"mock_interview_max_questions"`

	// SkipSubscriber disables the domain event log subscriber.
	SkipSubscriber bool `yaml:"skip_redis_subscriber"`
}

type PostgresCfg struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
	SSLMode  string `yaml:"sslmode"`
}

func (p PostgresCfg) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.DB, p.Port, p.SSLMode)
}

var loadDotEnv = func() error { return godotenv.Load() }

// LoadConfig reads .env (if any), then CONFIG_FILE (if set), then the
// environment.
func LoadConfig() (*Config, error) {
	_ = loadDotEnv()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Env:      "dev",
		Port:     "8080",
		DBDriver: "postgres",
		Postgres: PostgresCfg{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DB:      "interview",
			SSLMode: "disable",
		},
		SQLitePath:       "interview.db",
		TokenTTL:         24 * time.Hour,
		CORSOrigins:      []string{"*"},
		MaxMockQuestions: DefaultMaxMockQuestions,
	}
}

func applyEnv(cfg *Config) error {
	cfg.Env = getEnvOrDefault("APP_ENV", cfg.Env)
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)
	cfg.DBDriver = strings.ToLower(getEnvOrDefault("DB_DRIVER", cfg.DBDriver))
	cfg.Postgres.Host = getEnvOrDefault("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getEnvOrDefault("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = getEnvOrDefault("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = getEnvOrDefault("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.DB = getEnvOrDefault("POSTGRES_DB", cfg.Postgres.DB)
	cfg.Postgres.SSLMode = getEnvOrDefault("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.JWTSecret)

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	if v := os.Getenv("MOCK_INTERVIEW_MAX_QUESTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MOCK_INTERVIEW_MAX_QUESTIONS: %w", err)
		}
		cfg.MaxMockQuestions = n
	}

	if v := os.Getenv("SKIP_REDIS_SUBSCRIBER"); v != "" {
		skip, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SKIP_REDIS_SUBSCRIBER: %w", err)
		}
		cfg.SkipSubscriber = skip
	}

	if cfg.JWTSecret == "" && cfg.Env == "dev" {
		cfg.JWTSecret = "dev"
	}
	return nil
}

func validateConfig(cfg *Config) error {
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return errors.New("unsupported DB_DRIVER: " + cfg.DBDriver + ". Currently supported: postgres, sqlite")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set outside dev")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if cfg.MaxMockQuestions <= 0 {
		return errors.New("MOCK_INTERVIEW_MAX_QUESTIONS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
