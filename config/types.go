// Copyright (C) 2025 anp-x
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the ambient configuration for an ANP SDK process:
// DID manager and negotiation tunables, plus the channel/transport/
// logging/metrics settings every component reads at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	Environment string          `yaml:"environment" json:"environment"`
	DID         *DIDConfig      `yaml:"did" json:"did"`
	Negotiation *Negotiation    `yaml:"negotiation" json:"negotiation"`
	Channel     *ChannelConfig  `yaml:"channel" json:"channel"`
	Transport   *TransportConfig `yaml:"transport" json:"transport"`
	Logging     *LoggingConfig  `yaml:"logging" json:"logging"`
	Metrics     *MetricsConfig  `yaml:"metrics" json:"metrics"`
}

// DIDConfig holds the DID manager's cache TTL and resolve timeout,
// defaulted to 5m/10s. In YAML they are written as duration strings
// such as "5m" or "10s".
type DIDConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

// Negotiation holds the negotiation state machine's durable tunables.
// LocalIdentity and RemoteDID are runtime values supplied by the caller
// at negotiation start, not loaded from a config file; only the two
// durable knobs are held here.
type Negotiation struct {
	MaxNegotiationRounds int           `yaml:"max_negotiation_rounds" json:"max_negotiation_rounds"`
	TimeoutMs            time.Duration `yaml:"timeout_ms" json:"timeout_ms"`
}

// ChannelConfig holds the encrypted channel's tunables:
// the HKDF info string is deliberately not configurable (wire-fixed at
// "ANP-Encryption"), so this only covers the salt size.
type ChannelConfig struct {
	SaltSize int `yaml:"salt_size" json:"salt_size"`
}

// TransportConfig holds the HTTP transport's tunables.
type TransportConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig configures internal/logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig configures internal/metrics' HTTP server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

func setDefaults(cfg *Config) {
	if cfg.DID == nil {
		cfg.DID = &DIDConfig{}
	}
	if cfg.DID.CacheTTL <= 0 {
		cfg.DID.CacheTTL = 5 * time.Minute
	}
	if cfg.DID.Timeout <= 0 {
		cfg.DID.Timeout = 10 * time.Second
	}

	if cfg.Negotiation == nil {
		cfg.Negotiation = &Negotiation{}
	}
	if cfg.Negotiation.MaxNegotiationRounds <= 0 {
		cfg.Negotiation.MaxNegotiationRounds = 10
	}

	if cfg.Channel == nil {
		cfg.Channel = &ChannelConfig{}
	}
	if cfg.Channel.SaltSize <= 0 {
		cfg.Channel.SaltSize = 32
	}

	if cfg.Transport == nil {
		cfg.Transport = &TransportConfig{}
	}
	if cfg.Transport.Timeout <= 0 {
		cfg.Transport.Timeout = 10 * time.Second
	}

	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{}
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// LoadFromFile parses a YAML (or JSON) config file at path and applies
// defaults for any field left unset.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON): %w", err)
		}
	}
	setDefaults(cfg)
	return cfg, nil
}
