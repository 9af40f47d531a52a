// apps/go-server/internal/config/config.go
//
// Process configuration, resolved from environment variables (a `.env` file is
// loaded first by main) with defaults for local development.
//
// Environment variables:
//   PORT, LOG_LEVEL, DB_PATH,
//   DICTIONARY_FILE, DICTIONARY_ZIP_ENTRY,
//   BOARD_SIZE, ROUND_DURATION, ROUND_TTL, SWEEP_INTERVAL, MAX_ROUNDS,
//   DAILY_SALT, JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, CLIENT_ORIGIN, NODE_ENV

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable of the server.
type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	DictionaryFile     string // "" uses the embedded list
	DictionaryZipEntry string // entry to read when DictionaryFile is a zip

	BoardSize     int
	RoundDuration time.Duration
	RoundTTL      time.Duration
	SweepInterval time.Duration
	MaxRounds     int
	DailySalt     string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "5175")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PATH", "./data/boggle.db")
	v.SetDefault("DICTIONARY_FILE", "")
	v.SetDefault("DICTIONARY_ZIP_ENTRY", "")
	v.SetDefault("BOARD_SIZE", 4)
	v.SetDefault("ROUND_DURATION", 3*time.Minute)
	v.SetDefault("ROUND_TTL", 30*time.Minute)
	v.SetDefault("SWEEP_INTERVAL", 30*time.Second)
	v.SetDefault("MAX_ROUNDS", 100)
	v.SetDefault("DAILY_SALT", "dev_daily_salt")
	v.SetDefault("JWT_SECRET", "dev_secret_change_me")
	v.SetDefault("JWT_EXPIRES_DAYS", 14)
	v.SetDefault("COOKIE_NAME", "boggle_token")
	v.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	v.SetDefault("NODE_ENV", "development")
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Port:               v.GetString("PORT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBPath:             v.GetString("DB_PATH"),
		DictionaryFile:     v.GetString("DICTIONARY_FILE"),
		DictionaryZipEntry: v.GetString("DICTIONARY_ZIP_ENTRY"),
		BoardSize:          v.GetInt("BOARD_SIZE"),
		RoundDuration:      v.GetDuration("ROUND_DURATION"),
		RoundTTL:           v.GetDuration("ROUND_TTL"),
		SweepInterval:      v.GetDuration("SWEEP_INTERVAL"),
		MaxRounds:          v.GetInt("MAX_ROUNDS"),
		DailySalt:          v.GetString("DAILY_SALT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTExpiresDays:     v.GetInt("JWT_EXPIRES_DAYS"),
		CookieName:         v.GetString("COOKIE_NAME"),
		ClientOrigin:       v.GetString("CLIENT_ORIGIN"),
		Production:         v.GetString("NODE_ENV") == "production",
	}
	return c, c.Validate()
}

// Defaults returns the configuration with every default applied.
func Defaults() Config {
	v := viper.New()
	defaults(v)
	c, _ := FromViper(v)
	return c
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.BoardSize < 1 {
		errs = append(errs, fmt.Errorf("BOARD_SIZE must be at least 1, got %d", c.BoardSize))
	}
	if c.RoundDuration <= 0 {
		errs = append(errs, fmt.Errorf("ROUND_DURATION must be positive, got %s", c.RoundDuration))
	}
	if c.RoundTTL <= 0 {
		errs = append(errs, fmt.Errorf("ROUND_TTL must be positive, got %s", c.RoundTTL))
	}
	if c.RoundTTL < c.RoundDuration {
		// the sweeper would drop rounds that are still collecting
		errs = append(errs, fmt.Errorf("ROUND_TTL (%s) must be at least ROUND_DURATION (%s)", c.RoundTTL, c.RoundDuration))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval))
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}
