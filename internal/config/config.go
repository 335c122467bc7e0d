// Package config provides configuration management for the conversion
// routing service: environment-driven service settings plus the YAML
// cost-table file that tunes the graph's cost model.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

type Config struct {
	Environment Environment
	Server      ServerConfig
	AWS         AWSConfig
	Routing     RoutingConfig
	Features    Features
}

type ServerConfig struct {
	Port int
}

type AWSConfig struct {
	Region                string
	ConnectionsTable      string
	EventBusName          string
	WebSocketEndpoint     string
}

// RoutingConfig points at the on-disk cost-table file and selects the
// category-change cost model.
type RoutingConfig struct {
	CostTablePath    string
	StrictCategories bool
	CachePath        string
}

type Features struct {
	EnableCaching   bool
	EnableMetrics   bool
	EnableTracing   bool
	EnableWebSocket bool
}

// LoadConfig reads configuration from the environment, applying development
// defaults for anything unset.
func LoadConfig() Config {
	env := Environment(getEnv("ENVIRONMENT", string(Development)))

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	return Config{
		Environment: env,
		Server: ServerConfig{
			Port: port,
		},
		AWS: AWSConfig{
			Region:            getEnv("AWS_REGION", "us-east-1"),
			ConnectionsTable:  getEnv("CONNECTIONS_TABLE", "convroute-connections-dev"),
			EventBusName:      getEnv("EVENT_BUS_NAME", "convroute-events-dev"),
			WebSocketEndpoint: getEnv("WEBSOCKET_ENDPOINT", ""),
		},
		Routing: RoutingConfig{
			CostTablePath:    getEnv("COST_TABLE_PATH", "./config/cost-tables.yaml"),
			StrictCategories: getEnv("STRICT_CATEGORIES", "false") == "true",
			CachePath:        getEnv("FORMAT_CACHE_PATH", "./config/format-cache.json"),
		},
		Features: Features{
			EnableCaching:   getEnv("ENABLE_CACHING", "true") == "true",
			EnableMetrics:   getEnv("ENABLE_METRICS", "true") == "true",
			EnableTracing:   getEnv("ENABLE_TRACING", "false") == "true",
			EnableWebSocket: getEnv("ENABLE_WEBSOCKET", "false") == "true",
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate rejects a configuration that would break at first use rather
// than failing loudly later.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Routing.CostTablePath == "" {
		return fmt.Errorf("routing.cost_table_path must not be empty")
	}
	return nil
}
