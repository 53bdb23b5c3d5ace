package main

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full environment surface of the service. Every knob has a
// default; validation rejects non-positive quotas, bounds, and intervals
// before anything starts.
type Config struct {
	Host          string `env:"TALK_IT_HOST,default=localhost"`
	Port          int    `env:"TALK_IT_PORT,default=8080" validate:"gt=0"`
	WebSocketPath string `env:"TALK_IT_WEBSOCKET_PATH,default=/chat" validate:"required,startswith=/"`

	MessageQuotaPerMinute int           `env:"MAX_MESSAGE_REQUESTS_PER_MINUTE,default=30" validate:"gt=0"`
	ConnectQuotaPerMinute int           `env:"MAX_CONNECT_REQUESTS_PER_MINUTE,default=30" validate:"gt=0"`
	CleanupInterval       time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL,default=10m" validate:"gt=0"`

	MinMessageLength int `env:"MIN_MESSAGE_LENGTH,default=1" validate:"gt=0"`
	MaxMessageLength int `env:"MAX_MESSAGE_LENGTH,default=500" validate:"gt=0,gtefield=MinMessageLength"`

	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=30s" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
}

var validate = validator.New()

func (c Config) Validate() error {
	return validate.Struct(c)
}
