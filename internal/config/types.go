package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName   string         `envconfig:"DB_NAME" default:"courtside.db"`
	Port     string         `envconfig:"PORT" default:"8080"`
	LogLevel string         `envconfig:"LOG_LEVEL" default:"info"`
	Slack    SlackConfig    `envconfig:"SLACK"`
	Turso    TursoConfig    `envconfig:"TURSO"`
	Facility FacilityConfig `envconfig:"FACILITY"`
	EventBusConfig

	HousekeepingInterval time.Duration `envconfig:"HOUSEKEEPING_INTERVAL" default:"30s"`
}

type SlackConfig struct {
	SigningSecret string `envconfig:"SIGNING_SECRET"`
}

type TursoConfig struct {
	PrimaryURL string `envconfig:"PRIMARY_URL"`
	AuthToken  string `envconfig:"AUTH_TOKEN"`
}

// EventBusConfig selects where domain events go: "none", "gcp" or "rabbitmq".
// It is embedded so its variables carry no prefix.
type EventBusConfig struct {
	EventBus         string `envconfig:"EVENT_BUS" default:"none"`
	ProjectID        string `envconfig:"GCP_PROJECT"`
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
	RabbitMQExchange string `envconfig:"RABBITMQ_EXCHANGE" default:"courtside.events"`
}

// FacilityConfig seeds the settings used on first start and on reset.
type FacilityConfig struct {
	NumCourts    int    `envconfig:"NUM_COURTS" default:"2"`
	GameMode     string `envconfig:"GAME_MODE" default:"doubles"`
	GameDuration int    `envconfig:"GAME_DURATION" default:"15"`
	RotationRule string `envconfig:"ROTATION_RULE" default:"manual"`
}

const (
	EventBusNone     = "none"
	EventBusGCP      = "gcp"
	EventBusRabbitMQ = "rabbitmq"
)
