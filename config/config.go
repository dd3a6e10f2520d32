// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const EnvPrefix = "AIRDROPS_"

const (
	OutputFormatJSON = "json"
	OutputFormatText = "text"
)

type Config struct {
	Debug           bool   `json:"debug" env:"DEBUG"`
	LogFile         string `json:"logFile" env:"LOG_FILE"`
	CacheTTLSeconds int    `json:"cacheTTLSeconds" env:"CACHE_TTL_SECONDS"`
	MaxInputBytes   int    `json:"maxInputBytes" env:"MAX_INPUT_BYTES"`
	OutputFormat    string `json:"outputFormat" env:"OUTPUT_FORMAT"`
}

// Default returns the configuration used when no file or environment overrides are given
func Default() *Config {
	return &Config{
		MaxInputBytes: 10 * 1024 * 1024,
		OutputFormat:  OutputFormatJSON,
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Load reads the JSON file at path on top of the defaults, applies AIRDROPS_*
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to decode config file %s", path)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
