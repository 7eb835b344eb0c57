package config

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mauv0809/courtside/internal/rotation"
)

// Load reads configuration from environment variables and .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	if _, err := cfg.Facility.Settings(); err != nil {
		return Config{}, fmt.Errorf("invalid facility configuration: %w", err)
	}
	switch cfg.EventBus {
	case EventBusNone:
	case EventBusGCP:
		if cfg.ProjectID == "" {
			return Config{}, fmt.Errorf("GCP_PROJECT is required when EVENT_BUS=%s", EventBusGCP)
		}
	case EventBusRabbitMQ:
		if cfg.RabbitMQURL == "" {
			return Config{}, fmt.Errorf("RABBITMQ_URL is required when EVENT_BUS=%s", EventBusRabbitMQ)
		}
	default:
		return Config{}, fmt.Errorf("unknown EVENT_BUS %q", cfg.EventBus)
	}
	return cfg, nil
}

// Settings turns the facility defaults into engine settings.
func (f FacilityConfig) Settings() (rotation.Settings, error) {
	settings := rotation.DefaultSettings()
	mode, err := rotation.ParseGameMode(f.GameMode)
	if err != nil {
		return rotation.Settings{}, err
	}
	rule, err := rotation.ParseRotationRule(f.RotationRule)
	if err != nil {
		return rotation.Settings{}, err
	}
	settings.NumCourts = f.NumCourts
	settings.GameMode = mode
	settings.GameDuration = f.GameDuration
	settings.RotationRule = rule
	if _, err := rotation.New(settings); err != nil {
		return rotation.Settings{}, err
	}
	return settings, nil
}
