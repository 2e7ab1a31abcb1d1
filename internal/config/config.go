package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	NATSURL     string
	JWTSecret   string
	JWTTokenTTL time.Duration

	// DefaultJurySize is used when a selection request omits the size.
	DefaultJurySize int
	// PreventDuplicateAssignment removes already-assigned users from the
	// eligible pool on repeated selection rounds.
	PreventDuplicateAssignment bool
	// RestrictSelectionToPendingOrOpen rejects jury selection once grading
	// has been closed.
	RestrictSelectionToPendingOrOpen bool
	// EditWindow is how long after its last modification an evaluation
	// stays editable by its author.
	EditWindow time.Duration
	// StatsCacheTTL bounds how long professor statistics may be served
	// from cache.
	StatsCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PEERJURY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "PeerJury API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.token_ttl", "168h")
	v.SetDefault("jury.default_size", 5)
	v.SetDefault("jury.prevent_duplicates", true)
	v.SetDefault("jury.restrict_selection", false)
	v.SetDefault("grading.edit_window", "24h")
	v.SetDefault("grading.stats_cache_ttl", "1m")

	tokenTTL, err := time.ParseDuration(v.GetString("jwt.token_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt token ttl: %w", err)
	}

	editWindow, err := time.ParseDuration(v.GetString("grading.edit_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grading edit window: %w", err)
	}

	statsTTL, err := time.ParseDuration(v.GetString("grading.stats_cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                          v.GetString("app.name"),
		AppEnv:                           v.GetString("app.env"),
		AppPort:                          v.GetString("app.port"),
		DatabaseURL:                      v.GetString("database.url"),
		RedisURL:                         v.GetString("redis.url"),
		NATSURL:                          v.GetString("nats.url"),
		JWTSecret:                        v.GetString("jwt.secret"),
		JWTTokenTTL:                      tokenTTL,
		DefaultJurySize:                  v.GetInt("jury.default_size"),
		PreventDuplicateAssignment:       v.GetBool("jury.prevent_duplicates"),
		RestrictSelectionToPendingOrOpen: v.GetBool("jury.restrict_selection"),
		EditWindow:                       editWindow,
		StatsCacheTTL:                    statsTTL,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.DefaultJurySize <= 0 {
		cfg.DefaultJurySize = 5
	}

	if cfg.EditWindow <= 0 {
		cfg.EditWindow = 24 * time.Hour
	}

	return cfg, nil
}
