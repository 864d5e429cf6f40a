package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/raffle/go/clients/event_form_client"
	"github.com/mcdev12/raffle/go/internal/events"
	"github.com/mcdev12/raffle/go/internal/gateway"
	"github.com/mcdev12/raffle/go/internal/randomizer"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Randomizer struct {
		Session       randomizer.Config    `yaml:"session"`
		App           randomizer.AppConfig `yaml:"app"`
		ReportWinners bool                 `yaml:"report_winners"`
	} `yaml:"randomizer"`

	Participants struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"participants"`

	EventForm struct {
		BaseURL   string                      `yaml:"base_url"`
		Timeout   time.Duration               `yaml:"timeout"`
		Endpoints event_form_client.Endpoints `yaml:"endpoints"`
	} `yaml:"event_form"`

	Gateway gateway.ConnectionConfig `yaml:"gateway"`
	Events  events.JetStreamConfig   `yaml:"events"`
}

func defaultConfig() *Config {
	var config Config
	config.Randomizer.Session = randomizer.DefaultConfig()
	config.Randomizer.App = randomizer.DefaultAppConfig()
	config.Randomizer.ReportWinners = true
	config.Participants.Timezone = "Asia/Manila"
	config.EventForm.BaseURL = event_form_client.DefaultBaseURL
	config.EventForm.Timeout = 30 * time.Second
	config.EventForm.Endpoints = event_form_client.DefaultEndpoints()
	config.Gateway = gateway.DefaultConnectionConfig()
	config.Events = events.DefaultJetStreamConfig()
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// loadConfig overlays the YAML file at path on the defaults. A missing file
// leaves the defaults in place.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
		return applyEnv(config), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return applyEnv(config), nil
}

// applyEnv lets the environment win over the file for deployment settings
func applyEnv(config *Config) *Config {
	config.EventForm.BaseURL = getEnv("RAFFLE_API_BASE_URL", config.EventForm.BaseURL)
	config.Participants.Timezone = getEnv("RAFFLE_TIMEZONE", config.Participants.Timezone)
	config.Randomizer.ReportWinners = getEnvAsBool("RAFFLE_REPORT_WINNERS", config.Randomizer.ReportWinners)
	config.Events.URL = os.Getenv("NATS_URL")
	return config
}

func (c *Config) location() *time.Location {
	loc, err := time.LoadLocation(c.Participants.Timezone)
	if err != nil {
		log.Warn().
			Err(err).
			Str("timezone", c.Participants.Timezone).
			Msg("unknown display timezone, falling back to UTC")
		return time.UTC
	}
	return loc
}
