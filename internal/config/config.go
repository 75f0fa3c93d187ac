package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	TLSCert            string
	TLSKey             string
	ParamsFile         string
	RateLimit          float64
	RateBurst          int
	AllowExtrapolation bool
	StaticDir          string
}

func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

// Load reads .env files and then the environment. A missing file is fine, a
// malformed one is an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	c := Config{
		Addr:       getenv("ADDR", ":8080"),
		TLSCert:    os.Getenv("TLS_CERT"),
		TLSKey:     os.Getenv("TLS_KEY"),
		ParamsFile: os.Getenv("SFRC_PARAMS"),
		StaticDir:  getenv("STATIC_DIR", "./static/main"),
	}
	var err error
	if c.RateLimit, err = strconv.ParseFloat(getenv("RATE_LIMIT", "5"), 64); err != nil || c.RateLimit <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT: want a positive number, got %q", os.Getenv("RATE_LIMIT"))
	}
	if c.RateBurst, err = strconv.Atoi(getenv("RATE_BURST", "10")); err != nil || c.RateBurst <= 0 {
		return Config{}, fmt.Errorf("RATE_BURST: want a positive integer, got %q", os.Getenv("RATE_BURST"))
	}
	if c.AllowExtrapolation, err = strconv.ParseBool(getenv("ALLOW_EXTRAPOLATION", "true")); err != nil {
		return Config{}, fmt.Errorf("ALLOW_EXTRAPOLATION: %w", err)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return Config{}, fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
