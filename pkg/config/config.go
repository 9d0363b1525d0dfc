package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Planner  PlannerConfig
	Vacation VacationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PlannerConfig tunes the conflict engine policy: working window, scoring
// band, alternative-slot enumeration and analyzer caching.
type PlannerConfig struct {
	DayStart         string
	DayEnd           string
	CoreStart        string
	CoreEnd          string
	DaysOff          []string
	SlotMinutes      int
	HorizonDays      int
	MaxAlternatives  int
	AnalysisCacheTTL time.Duration
}

// VacationConfig governs the leave workflow's notification queue.
type VacationConfig struct {
	NotifyWorkers int
	NotifyRetries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Planner = PlannerConfig{
		DayStart:         v.GetString("PLANNER_DAY_START"),
		DayEnd:           v.GetString("PLANNER_DAY_END"),
		CoreStart:        v.GetString("PLANNER_CORE_START"),
		CoreEnd:          v.GetString("PLANNER_CORE_END"),
		DaysOff:          splitAndTrim(v.GetString("PLANNER_DAYS_OFF")),
		SlotMinutes:      v.GetInt("PLANNER_SLOT_MINUTES"),
		HorizonDays:      v.GetInt("PLANNER_HORIZON_DAYS"),
		MaxAlternatives:  v.GetInt("PLANNER_MAX_ALTERNATIVES"),
		AnalysisCacheTTL: parseDuration(v.GetString("PLANNER_ANALYSIS_CACHE_TTL"), 2*time.Minute),
	}

	cfg.Vacation = VacationConfig{
		NotifyWorkers: v.GetInt("VACATION_NOTIFY_WORKERS"),
		NotifyRetries: v.GetInt("VACATION_NOTIFY_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PLANNER_DAY_START", "08:00")
	v.SetDefault("PLANNER_DAY_END", "18:00")
	v.SetDefault("PLANNER_CORE_START", "10:00")
	v.SetDefault("PLANNER_CORE_END", "14:00")
	v.SetDefault("PLANNER_DAYS_OFF", "SUNDAY")
	v.SetDefault("PLANNER_SLOT_MINUTES", 45)
	v.SetDefault("PLANNER_HORIZON_DAYS", 7)
	v.SetDefault("PLANNER_MAX_ALTERNATIVES", 5)
	v.SetDefault("PLANNER_ANALYSIS_CACHE_TTL", "2m")

	v.SetDefault("VACATION_NOTIFY_WORKERS", 2)
	v.SetDefault("VACATION_NOTIFY_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
