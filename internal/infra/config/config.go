package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL      string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	Issuer           string
	Audience         string
	PasswordPepper   string
	HTTPAddress      string
	AllowedOrigins   []string
	AllowCredentials bool
}

// Load reads configuration from the environment, with an optional config.json
// in the working directory for local development. DATABASE_URL and JWT_SECRET
// are required; the token TTL defaults to 30 minutes.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	for _, key := range []string{
		"DATABASE_URL", "JWT_SECRET", "ACCESS_TOKEN_TTL",
		"JWT_ISSUER", "JWT_AUDIENCE", "PASSWORD_PEPPER",
		"HTTP_ADDRESS", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("HTTP_ADDRESS", ":8080")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		AccessTokenTTL:   v.GetDuration("ACCESS_TOKEN_TTL"),
		Issuer:           v.GetString("JWT_ISSUER"),
		Audience:         v.GetString("JWT_AUDIENCE"),
		PasswordPepper:   v.GetString("PASSWORD_PEPPER"),
		HTTPAddress:      v.GetString("HTTP_ADDRESS"),
		AllowedOrigins:   allowedOrigins(v),
		AllowCredentials: v.GetBool("ALLOW_CREDENTIALS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %v", cfg.AccessTokenTTL)
	}

	return cfg, nil
}

// allowedOrigins accepts both a JSON array from the config file and a
// comma-separated ALLOWED_ORIGINS env value.
func allowedOrigins(v *viper.Viper) []string {
	var out []string
	for _, entry := range v.GetStringSlice("ALLOWED_ORIGINS") {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
