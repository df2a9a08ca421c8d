package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	// LockerAPIBaseURL is the base URL of the venue locker allocation
	// service, e.g. http://localhost:3000
	LockerAPIBaseURL string `env:"LOCKER_API_BASE_URL"`

	// SeatRequired controls whether a guest must be signed in before the
	// kiosk accepts a seat block.
	SeatRequired bool `env:"SEAT_REQUIRED" envDefault:"true"`

	// SeatCloseDelay is how long the assignment confirmation stays on
	// screen before the kiosk modal closes.
	SeatCloseDelay time.Duration `env:"SEAT_CLOSE_DELAY" envDefault:"2s"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}
