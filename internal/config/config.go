// Package config handles configuration loading and validation for taskpilot.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a key (or the whole file) is absent.
const (
	DefaultAddr             = ":3000"
	DefaultServerURL        = "ws://localhost:3000/ws"
	DefaultReconnectSeconds = 3
)

// Config holds the application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Client ClientConfig `yaml:"client"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	// URL is the WebSocket endpoint of the server.
	URL string `yaml:"url"`
	// ReconnectSeconds is the fixed wait between reconnect attempts.
	ReconnectSeconds int `yaml:"reconnect_seconds"`
}

// ReconnectDelay returns the reconnect wait as a duration.
func (c ClientConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectSeconds) * time.Second
}

// Load reads the config file at path. A missing file is not an error;
// defaults are returned.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Client: ClientConfig{URL: DefaultServerURL, ReconnectSeconds: DefaultReconnectSeconds},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}
	if c.Client.URL == "" {
		return errors.New("client.url must not be empty")
	}
	if c.Client.ReconnectSeconds <= 0 {
		return errors.New("client.reconnect_seconds must be positive")
	}
	return nil
}
