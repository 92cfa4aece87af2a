package config

import (
	"errors"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ErrMissingGatewayKey makes a missing gateway credential fatal at startup
// rather than a 500 on the first creation call.
var ErrMissingGatewayKey = errors.New("gateway secret key not set in environment")

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" env-default:":8080"`

	GatewaySecretKey string        `env:"GATEWAY_SECRET_KEY"`
	GatewayBaseURL   string        `env:"GATEWAY_BASE_URL" env-default:"https://api.xendit.co"`
	GatewayTimeout   time.Duration `env:"GATEWAY_TIMEOUT" env-default:"10s"`
	WebhookSecret    string        `env:"GATEWAY_WEBHOOK_SECRET"`

	SuccessRedirectURL string `env:"SUCCESS_REDIRECT_URL"`
	FailureRedirectURL string `env:"FAILURE_REDIRECT_URL"`

	DatabaseURL string `env:"DATABASE_URL"`
	DataDir     string `env:"DATA_DIR" env-default:"./out"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" env-default:"invoices.events"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.GatewaySecretKey == "" {
		return Config{}, ErrMissingGatewayKey
	}
	return cfg, nil
}
