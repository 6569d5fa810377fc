package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration. Values are resolved as
// defaults -> YAML file (CONFIG_FILE) -> environment variables.
type Config struct {
	AppEnv string `yaml:"APP_ENV"`
	Port   string `yaml:"PORT"`

	DBDriver   string `yaml:"DB_DRIVER"`
	DBHost     string `yaml:"DB_HOST"`
	DBUser     string `yaml:"DB_USER"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBName     string `yaml:"DB_NAME"`
	DBPort     string `yaml:"DB_PORT"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`
	DBPath     string `yaml:"DB_PATH"`

	RedisAddr   string `yaml:"REDIS_ADDR"`
	KafkaBroker string `yaml:"KAFKA_BROKER"`
	JWTSecret   string `yaml:"JWT_SECRET"`

	CORSAllowOrigins []string `yaml:"CORS_ALLOW_ORIGINS"`
	EnablePprof      bool     `yaml:"ENABLE_PPROF"`
	RateLimitRPS     float64  `yaml:"RATE_LIMIT_RPS"`
	RateLimitBurst   int      `yaml:"RATE_LIMIT_BURST"`

	StandardPTOName  string `yaml:"STANDARD_PTO_NAME"`
	StandardPTODays  int    `yaml:"STANDARD_PTO_DAYS"`
	HolidayCountry   string `yaml:"HOLIDAY_COUNTRY"`
	SeedLeaveTypes   bool   `yaml:"SEED_LEAVE_TYPES"`
	LedgerMaxRetries uint64 `yaml:"LEDGER_MAX_RETRIES"`

	OutboxPollInterval time.Duration `yaml:"OUTBOX_POLL_INTERVAL"`
	ReminderInterval   time.Duration `yaml:"REMINDER_INTERVAL"`
	ConnectMaxRetries  int           `yaml:"CONNECT_MAX_RETRIES"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Default() Config {
	return Config{
		AppEnv:             "development",
		Port:               "3000",
		DBDriver:           DriverPostgres,
		DBHost:             "localhost",
		DBPort:             "5432",
		DBSSLMode:          "disable",
		DBPath:             "data/leave.db",
		RedisAddr:          "localhost:6379",
		CORSAllowOrigins:   []string{"http://localhost:5173"},
		RateLimitRPS:       5,
		RateLimitBurst:     10,
		StandardPTOName:    "PTO",
		StandardPTODays:    20,
		SeedLeaveTypes:     true,
		LedgerMaxRetries:   5,
		OutboxPollInterval: 3 * time.Second,
		ReminderInterval:   24 * time.Hour,
		ConnectMaxRetries:  5,
	}
}

// Load resolves the configuration. godotenv should already have populated
// the environment when a .env file is used.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	envString("APP_ENV", &cfg.AppEnv)
	envString("PORT", &cfg.Port)
	envString("DB_DRIVER", &cfg.DBDriver)
	envString("DB_HOST", &cfg.DBHost)
	envString("DB_USER", &cfg.DBUser)
	envString("DB_PASSWORD", &cfg.DBPassword)
	envString("DB_NAME", &cfg.DBName)
	envString("DB_PORT", &cfg.DBPort)
	envString("DB_SSLMODE", &cfg.DBSSLMode)
	envString("DB_PATH", &cfg.DBPath)
	envString("REDIS_ADDR", &cfg.RedisAddr)
	envString("KAFKA_BROKER", &cfg.KafkaBroker)
	envString("JWT_SECRET", &cfg.JWTSecret)
	envList("CORS_ALLOW_ORIGINS", &cfg.CORSAllowOrigins)
	envBool("ENABLE_PPROF", &cfg.EnablePprof)
	envFloat("RATE_LIMIT_RPS", &cfg.RateLimitRPS)
	envInt("RATE_LIMIT_BURST", &cfg.RateLimitBurst)
	envString("STANDARD_PTO_NAME", &cfg.StandardPTOName)
	envInt("STANDARD_PTO_DAYS", &cfg.StandardPTODays)
	envString("HOLIDAY_COUNTRY", &cfg.HolidayCountry)
	envBool("SEED_LEAVE_TYPES", &cfg.SeedLeaveTypes)
	envUint("LEDGER_MAX_RETRIES", &cfg.LedgerMaxRetries)
	envDuration("OUTBOX_POLL_INTERVAL", &cfg.OutboxPollInterval)
	envDuration("REMINDER_INTERVAL", &cfg.ReminderInterval)
	envInt("CONNECT_MAX_RETRIES", &cfg.ConnectMaxRetries)
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.StandardPTODays < 0 {
		return fmt.Errorf("STANDARD_PTO_DAYS must not be negative")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// PostgresDSN is only meaningful for DriverPostgres.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envUint(key string, dst *uint64) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
