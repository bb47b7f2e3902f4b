package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration data for the diagnostic.
type Config struct {
	Internet      Internet  `yaml:"internet"`
	Tello         Tello     `yaml:"tello"`
	Handshake     Handshake `yaml:"handshake"`
	Watch         Watch     `yaml:"watch"`
	DataDirectory string    `yaml:"data_directory"`
}

// Internet configures the general reachability probe.
type Internet struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Tello configures the drone network probe and command channel.
type Tello struct {
	IP             string `yaml:"ip"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CommandPort    int    `yaml:"command_port"`
	PrivilegedPing bool   `yaml:"privileged_ping"`
}

// Handshake configures the optional SDK handshake stage.
type Handshake struct {
	Enabled               bool `yaml:"enabled"`
	CommandTimeoutSeconds int  `yaml:"command_timeout_seconds"`
	StreamTestSeconds     int  `yaml:"stream_test_seconds"`
}

// Watch configures the periodic re-check mode.
type Watch struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// DefaultConfig returns the stock Tello setup: the values match the drone's
// factory network (192.168.10.1) and the original probe timeouts.
func DefaultConfig() Config {
	return Config{
		Internet: Internet{
			URL:            "https://connectivitycheck.gstatic.com/generate_204",
			TimeoutSeconds: 5,
		},
		Tello: Tello{
			IP:             "192.168.10.1",
			TimeoutSeconds: 2,
			CommandPort:    8889,
		},
		Handshake: Handshake{
			Enabled:               true,
			CommandTimeoutSeconds: 15,
			StreamTestSeconds:     2,
		},
		Watch: Watch{
			IntervalSeconds: 60,
		},
		DataDirectory: filepath.Join(".dist", "data"),
	}
}

// Load reads configuration from a yaml file. Missing files fall back to
// defaults, so the checker runs with no configuration at all.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.Internet.URL == "" {
		cfg.Internet.URL = defaults.Internet.URL
	}
	if cfg.Internet.TimeoutSeconds <= 0 {
		cfg.Internet.TimeoutSeconds = defaults.Internet.TimeoutSeconds
	}
	if cfg.Tello.IP == "" {
		cfg.Tello.IP = defaults.Tello.IP
	}
	if net.ParseIP(cfg.Tello.IP) == nil {
		return Config{}, fmt.Errorf("tello.ip %q is not a valid IP address", cfg.Tello.IP)
	}
	if cfg.Tello.TimeoutSeconds <= 0 {
		cfg.Tello.TimeoutSeconds = defaults.Tello.TimeoutSeconds
	}
	if cfg.Tello.CommandPort <= 0 || cfg.Tello.CommandPort > 65535 {
		cfg.Tello.CommandPort = defaults.Tello.CommandPort
	}
	if cfg.Handshake.CommandTimeoutSeconds <= 0 {
		cfg.Handshake.CommandTimeoutSeconds = defaults.Handshake.CommandTimeoutSeconds
	}
	if cfg.Handshake.StreamTestSeconds < 0 {
		cfg.Handshake.StreamTestSeconds = defaults.Handshake.StreamTestSeconds
	}
	if cfg.Watch.IntervalSeconds <= 0 {
		cfg.Watch.IntervalSeconds = defaults.Watch.IntervalSeconds
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = defaults.DataDirectory
	}
	return cfg, nil
}
