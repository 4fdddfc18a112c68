// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Mail transports selectable with MAIL_TRANSPORT.
const (
	MailTransportLog   = "log"
	MailTransportSMTP  = "smtp"
	MailTransportKafka = "kafka"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// CORSOrigins is the comma-separated list of allowed cross-origin request
	// origins. Read it through AllowedOrigins.
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	// FrontBaseURL is where confirmation links redirect to (the web app).
	FrontBaseURL string `env:"FRONT_BASE_URL" envDefault:"http://localhost:3000" validate:"url"`

	// APIBaseURL is the public address of this API, used in emailed links.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3333" validate:"url"`

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0"`

	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// MailTransport selects how emails leave the process: log, smtp or kafka.
	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"log" validate:"oneof=log smtp kafka"`

	// MailLocale picks the language of outgoing emails. Unsupported values
	// fall back to Brazilian Portuguese.
	MailLocale      string `env:"MAIL_LOCALE" envDefault:"pt-BR"`
	MailFromName    string `env:"MAIL_FROM_NAME" envDefault:"Equipe Plann.er"`
	MailFromAddress string `env:"MAIL_FROM_ADDRESS" envDefault:"oi@planner.com.br" validate:"email"`

	SMTPHost     string `env:"SMTP_HOST" validate:"required_if=MailTransport smtp"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," validate:"required_if=MailTransport kafka"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"planner.notifications"`

	// NotifyTimeout bounds each individual email send.
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	// NotifyConcurrency caps concurrent sends per fan-out.
	NotifyConcurrency int `env:"NOTIFY_CONCURRENCY" envDefault:"8" validate:"gt=0"`

	// OTelEndpoint is the OTLP/HTTP traces endpoint. Tracing is disabled when empty.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// AllowedOrigins returns CORSOrigins split on commas, trimmed, without empties.
func (c Config) AllowedOrigins() []string {
	return splitCSV(c.CORSOrigins)
}

var validate = newValidator()

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
		return name
	})
	return v
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variable that is not set and any
// value that fails validation.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.MailTransport = strings.ToLower(strings.TrimSpace(cfg.MailTransport))

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
