// Package config loads the gateway configuration from defaults, an
// optional TOML file, and ASSISTANT_GATEWAY_-prefixed environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "ASSISTANT_GATEWAY_"

// Config is the full gateway configuration.
type Config struct {
	Server struct {
		Listen string `koanf:"listen"`
	} `koanf:"server"`

	OpenAI struct {
		APIKey  string `koanf:"api_key"`
		BaseURL string `koanf:"base_url"`
	} `koanf:"openai"`

	Profile struct {
		Path string `koanf:"path"`
	} `koanf:"profile"`

	Facts struct {
		DBPath string `koanf:"db_path"`
	} `koanf:"facts"`

	Attachments struct {
		Backend string `koanf:"backend"`
		Bucket  string `koanf:"bucket"`
		Region  string `koanf:"region"`
		Prefix  string `koanf:"prefix"`
	} `koanf:"attachments"`

	Downloads struct {
		Dir string `koanf:"dir"`
	} `koanf:"downloads"`

	Widget struct {
		RelayEndpoint string `koanf:"relay_endpoint"`
	} `koanf:"widget"`

	Sessions struct {
		MaxAgeHours int `koanf:"max_age_hours"`
	} `koanf:"sessions"`

	Logging struct {
		Level string `koanf:"level"`
	} `koanf:"logging"`
}

// Load reads the configuration. An empty configPath falls back to the
// default locations.
func Load(configPath string) (*Config, error) {
	var k = koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"server.listen":          ":8090",
		"facts.db_path":          "./gateway-facts.db",
		"attachments.backend":    "memory",
		"attachments.prefix":     "attachments",
		"downloads.dir":          "./downloads",
		"sessions.max_age_hours": 24,
		"logging.level":          "info",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./assistant-gateway.toml", "$HOME/.assistant-gateway.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Validate checks that the configuration is usable.
func Validate(config *Config) error {
	if config.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api_key is required")
	}
	switch config.Attachments.Backend {
	case "memory":
	case "s3":
		if config.Attachments.Bucket == "" {
			return fmt.Errorf("attachments bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown attachments backend %q", config.Attachments.Backend)
	}
	// An empty relay endpoint disables relaying; a configured one must
	// be an absolute http(s) URL or every relayed action would fail.
	if endpoint := config.Widget.RelayEndpoint; endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("widget relay_endpoint must be an absolute http(s) URL, got %q", endpoint)
		}
	}
	return nil
}
