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

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Solver    SolverConfig
	Validator ValidatorConfig
	Timetable TimetableConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig selects the placement engine and its default parameters.
type SolverConfig struct {
	Engine          string
	TimeBudget      time.Duration
	Mode            string
	GapPenalty      int
	MorningWeight   int
	AdjacencyReward int
	MinDailyLessons int
	BalancePenalty  int
	QueueWorkers    int
}

// ValidatorConfig governs the batch conflict validator.
type ValidatorConfig struct {
	AutoRun  bool
	Interval time.Duration
}

// TimetableConfig tunes the cached grid views.
type TimetableConfig struct {
	CacheTTL time.Duration
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
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		Engine:          v.GetString("SOLVER_ENGINE"),
		TimeBudget:      parseDuration(v.GetString("SOLVER_TIME_BUDGET"), 30*time.Second),
		Mode:            v.GetString("SOLVER_MODE"),
		GapPenalty:      v.GetInt("SOLVER_GAP_PENALTY"),
		MorningWeight:   v.GetInt("SOLVER_MORNING_WEIGHT"),
		AdjacencyReward: v.GetInt("SOLVER_ADJACENCY_REWARD"),
		MinDailyLessons: v.GetInt("SOLVER_MIN_DAILY_LESSONS"),
		BalancePenalty:  v.GetInt("SOLVER_BALANCE_PENALTY"),
		QueueWorkers:    v.GetInt("SOLVER_QUEUE_WORKERS"),
	}

	cfg.Validator = ValidatorConfig{
		AutoRun:  v.GetBool("VALIDATOR_AUTO_RUN"),
		Interval: parseDuration(v.GetString("VALIDATOR_INTERVAL"), 15*time.Minute),
	}

	cfg.Timetable = TimetableConfig{
		CacheTTL: parseDuration(v.GetString("TIMETABLE_CACHE_TTL"), 5*time.Minute),
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
	v.SetDefault("DB_NAME", "dersdagitim")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_ENGINE", "greedy")
	v.SetDefault("SOLVER_TIME_BUDGET", "30s")
	v.SetDefault("SOLVER_MODE", "KEEP_LOCKED")
	v.SetDefault("SOLVER_GAP_PENALTY", 10)
	v.SetDefault("SOLVER_MORNING_WEIGHT", 3)
	v.SetDefault("SOLVER_ADJACENCY_REWARD", 2)
	v.SetDefault("SOLVER_MIN_DAILY_LESSONS", 2)
	v.SetDefault("SOLVER_BALANCE_PENALTY", 4)
	v.SetDefault("SOLVER_QUEUE_WORKERS", 1)

	v.SetDefault("VALIDATOR_AUTO_RUN", false)
	v.SetDefault("VALIDATOR_INTERVAL", "15m")

	v.SetDefault("TIMETABLE_CACHE_TTL", "5m")
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
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
