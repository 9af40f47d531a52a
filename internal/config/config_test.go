package config

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	c := Defaults()
	is.NoErr(c.Validate())
	is.Equal(c.Port, "5175")
	is.Equal(c.BoardSize, 4)
	is.Equal(c.RoundDuration, 3*time.Minute)
	is.Equal(c.CookieName, "boggle_token")
	is.True(!c.Production)
}

func TestLoadFromEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("BOARD_SIZE", "5")
	t.Setenv("ROUND_DURATION", "90s")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load()
	is.NoErr(err)
	is.Equal(c.BoardSize, 5)
	is.Equal(c.RoundDuration, 90*time.Second)
	is.True(c.Production)
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	v := viper.New()
	defaults(v)
	v.Set("BOARD_SIZE", 0)
	v.Set("SWEEP_INTERVAL", "0s")
	_, err := FromViper(v)
	is.True(err != nil)

	v = viper.New()
	defaults(v)
	v.Set("NODE_ENV", "production")
	_, err = FromViper(v)
	is.True(err != nil) // dev JWT secret refused in production

	v = viper.New()
	defaults(v)
	v.Set("ROUND_DURATION", "3m")
	v.Set("ROUND_TTL", "1m")
	_, err = FromViper(v)
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "ROUND_TTL (1m0s) must be at least ROUND_DURATION (3m0s)"))

	v = viper.New()
	defaults(v)
	v.Set("ROUND_DURATION", "3m")
	v.Set("ROUND_TTL", "3m")
	_, err = FromViper(v)
	is.NoErr(err)
}
