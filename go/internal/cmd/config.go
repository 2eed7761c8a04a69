package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Rental struct {
		SlotMinutes int    `yaml:"slot_minutes"`
		CSRFToken   string `yaml:"csrf_token"`
	} `yaml:"rental"`
	Bridge struct {
		Enabled bool   `yaml:"enabled"`
		NatsURL string `yaml:"nats_url"`
		NodeID  string `yaml:"node_id"`
	} `yaml:"bridge"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Rental.SlotMinutes <= 0 {
		config.Rental.SlotMinutes = 60
	}
	if config.Bridge.NodeID == "" {
		hostname, _ := os.Hostname()
		config.Bridge.NodeID = hostname
	}

	return &config, nil
}

// slotDuration is how long one play session may run before the game's
// countdown reads as exhausted.
func (c *Config) slotDuration() time.Duration {
	return time.Duration(c.Rental.SlotMinutes) * time.Minute
}
