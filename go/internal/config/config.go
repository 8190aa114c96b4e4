// Package config loads turnclock settings from an optional YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mcdev12/turnclock/go/internal/dbconfig"
	"github.com/mcdev12/turnclock/go/internal/intent"
	"github.com/mcdev12/turnclock/go/internal/models"
	"github.com/mcdev12/turnclock/go/internal/storage"
	"github.com/mcdev12/turnclock/go/internal/turn"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when TURNCLOCK_CONFIG is unset. A missing default
// file is not an error.
const DefaultPath = "turnclock.yaml"

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Timer    TimerConfig    `yaml:"timer"`
	Storage  storage.Config `yaml:"storage"`
	HTTP     HTTPConfig     `yaml:"http"`
	NATS     NATSConfig     `yaml:"nats"`
	Console  ConsoleConfig  `yaml:"console"`
}

type TimerConfig struct {
	TickPeriod time.Duration `yaml:"tick_period"`
	MaxPlayers int           `yaml:"max_players"`
	TimePolicy string        `yaml:"time_policy"` // carry or reset
	EndTurnKey string        `yaml:"end_turn_key"`
}

type HTTPConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// NATSConfig configures the event feed. An empty URL disables it.
type NATSConfig struct {
	URL           string `yaml:"url"`
	StreamName    string `yaml:"stream_name"`
	SubjectPrefix string `yaml:"subject_prefix"`
	QueueSize     int    `yaml:"queue_size"`
}

type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Timer: TimerConfig{
			TickPeriod: turn.DefaultTickPeriod,
			MaxPlayers: models.DefaultMaxPlayers,
			TimePolicy: string(turn.PolicyCarry),
			EndTurnKey: intent.DefaultEndTurnKey,
		},
		Storage: storage.Config{
			Driver:     storage.DriverFile,
			Profile:    "default",
			Dir:        defaultDataDir(),
			SQLitePath: filepath.Join(defaultDataDir(), "turnclock.db"),
			RedisAddr:  "localhost:6379",
		},
		HTTP: HTTPConfig{
			Enabled: true,
			Port:    "8080",
		},
		NATS: NATSConfig{
			StreamName:    "TURNCLOCK_EVENTS",
			SubjectPrefix: "turnclock.events",
			QueueSize:     64,
		},
		Console: ConsoleConfig{Enabled: true},
	}
}

// Load reads the file named by TURNCLOCK_CONFIG (or DefaultPath), then
// applies environment overrides and validates the result.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("TURNCLOCK_CONFIG")
	if !explicit {
		path = DefaultPath
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil && (explicit || !errors.Is(err, fs.ErrNotExist)) {
		return nil, err
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.Timer.TickPeriod = getEnvAsDuration("TURNCLOCK_TICK_PERIOD", cfg.Timer.TickPeriod)
	cfg.Timer.MaxPlayers = getEnvAsInt("TURNCLOCK_MAX_PLAYERS", cfg.Timer.MaxPlayers)
	cfg.Timer.TimePolicy = getEnv("TURNCLOCK_TIME_POLICY", cfg.Timer.TimePolicy)
	cfg.Timer.EndTurnKey = getEnv("TURNCLOCK_END_TURN_KEY", cfg.Timer.EndTurnKey)

	cfg.Storage.Driver = getEnv("TURNCLOCK_STORAGE", cfg.Storage.Driver)
	cfg.Storage.Profile = getEnv("TURNCLOCK_PROFILE", cfg.Storage.Profile)
	cfg.Storage.Dir = getEnv("TURNCLOCK_DATA_DIR", cfg.Storage.Dir)
	cfg.Storage.SQLitePath = getEnv("TURNCLOCK_SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.Storage.RedisAddr = getEnv("REDIS_ADDR", cfg.Storage.RedisAddr)
	cfg.Storage.RedisPassword = getEnv("REDIS_PASSWORD", cfg.Storage.RedisPassword)
	cfg.Storage.RedisDB = getEnvAsInt("REDIS_DB", cfg.Storage.RedisDB)
	cfg.Storage.PostgresDSN = dbconfig.NewConfigFromEnv().DSN()

	cfg.HTTP.Enabled = getEnvAsBool("HTTP_ENABLED", cfg.HTTP.Enabled)
	cfg.HTTP.Port = getEnv("PORT", cfg.HTTP.Port)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.HTTP.AllowedOrigins = splitList(origins)
	}

	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)
	cfg.NATS.StreamName = getEnv("NATS_STREAM", cfg.NATS.StreamName)
	cfg.NATS.SubjectPrefix = getEnv("NATS_SUBJECT_PREFIX", cfg.NATS.SubjectPrefix)

	cfg.Console.Enabled = getEnvAsBool("CONSOLE_ENABLED", cfg.Console.Enabled)
}

// Validate checks values that would otherwise fail deep inside a component.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.Timer.TickPeriod <= 0 {
		return fmt.Errorf("timer.tick_period must be positive, got %s", c.Timer.TickPeriod)
	}
	if c.Timer.MaxPlayers < models.MinPlayers {
		return fmt.Errorf("timer.max_players must be at least %d, got %d", models.MinPlayers, c.Timer.MaxPlayers)
	}
	if _, err := turn.ParseTimePolicy(c.Timer.TimePolicy); err != nil {
		return fmt.Errorf("invalid timer.time_policy: %w", err)
	}
	if strings.TrimSpace(c.Timer.EndTurnKey) == "" {
		return errors.New("timer.end_turn_key is required")
	}
	if c.Storage.Driver == storage.DriverFile && c.Storage.Dir == "" {
		return errors.New("storage.dir is required for the file driver")
	}
	if c.HTTP.Enabled && c.HTTP.Port == "" {
		return errors.New("http.port is required when http is enabled")
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Policy returns the parsed time policy. Call after Validate.
func (c *Config) Policy() turn.TimePolicy {
	p, err := turn.ParseTimePolicy(c.Timer.TimePolicy)
	if err != nil {
		return turn.PolicyCarry
	}
	return p
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "turnclock")
	}
	return ".turnclock"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
