/* config.go
 * Contains the configuration for the service. Values come from an optional yaml file, then a .env file and the
 * environment, which override the file
 * Authors: Zachary Bower
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
	RateIdle       time.Duration `yaml:"rate_idle"`
	TrustProxy     bool          `yaml:"trust_proxy"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

type DiscordConfig struct {
	Token   string `yaml:"token"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type PoolConfig struct {
	DefaultTotalGames int `yaml:"default_total_games"`
}

// Config is the full service configuration
type Config struct {
	Mongo   MongoConfig   `yaml:"mongo"`
	HTTP    HTTPConfig    `yaml:"http"`
	NATS    NATSConfig    `yaml:"nats"`
	Discord DiscordConfig `yaml:"discord"`
	Log     LogConfig     `yaml:"log"`
	Pool    PoolConfig    `yaml:"pool"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Mongo: MongoConfig{Database: "confidence_pool"},
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RateLimit:      10,
			RateBurst:      20,
			RateIdle:       10 * time.Minute,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   15 * time.Second,
		},
		NATS: NATSConfig{Subject: "confidencepool.events.game-result"},
		Log:  LogConfig{Level: "info", Pretty: true},
		Pool: PoolConfig{DefaultTotalGames: 13},
	}
}

// Load builds the configuration
// Preconditions: Receives the path of a yaml config file, which may be empty. A missing .env file is not an error
// Postconditions: Returns the configuration, or an error if the file cannot be read or parsed or the result is invalid
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides values from environment variables
func (c *Config) applyEnv() {
	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DB", c.Mongo.Database)
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	if origins := os.Getenv("HTTP_ALLOWED_ORIGINS"); origins != "" {
		c.HTTP.AllowedOrigins = strings.Split(origins, ",")
	}
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.Discord.Token = getEnv("DISCORD_TOKEN", c.Discord.Token)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Pool.DefaultTotalGames = getEnvAsInt("POOL_DEFAULT_TOTAL_GAMES", c.Pool.DefaultTotalGames)
}

// Validate checks that the required values are set
func (c Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri (MONGO_URI) is required"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("mongo.database (MONGO_DB) is required"))
	}
	if c.Discord.Enabled && c.Discord.Token == "" {
		errs = append(errs, errors.New("discord.token (DISCORD_TOKEN) is required when the bot is enabled"))
	}
	if c.Pool.DefaultTotalGames < 1 {
		errs = append(errs, errors.New("pool.default_total_games must be positive"))
	}
	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		errs = append(errs, errors.New("http.rate_limit and http.rate_burst cannot be negative"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// LogLevel returns the configured log level, or info if it cannot be parsed
func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
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
