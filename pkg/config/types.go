package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent graphchat configuration stored as config.toml
// in the .graphchat/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Stream  StreamConfig `toml:"stream"`
	Log     LogConfig    `toml:"log"`
}

// ClientConfig holds settings for commands that talk to the graphchat server.
// APITarget is a full URL (scheme + host + port). Timeout is a Go duration
// string and bounds single-shot requests only; streams are bounded by context.
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
	Timeout   string `toml:"timeout,omitempty"`
}

// TimeoutDuration parses Timeout, falling back to the default on an empty value.
func (c ClientConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return time.ParseDuration(defaultClientTimeout)
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid client.timeout: %w", err)
	}
	return d, nil
}

// StreamConfig holds event stream decoding settings.
type StreamConfig struct {
	StrictTail bool   `toml:"strict_tail,omitempty"`
	RecordDir  string `toml:"record_dir,omitempty"`
}

// LogConfig holds logging settings shared by every command.
type LogConfig struct {
	JSON  bool   `toml:"json,omitempty"`
	Debug bool   `toml:"debug,omitempty"`
	File  string `toml:"file,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid value for client.timeout: %w", err)
			}
			c.Client.Timeout = v
			return nil
		},
	},
	"stream.strict_tail": {
		get: func(c *Config) string { return strconv.FormatBool(c.Stream.StrictTail) },
		set: boolSetter("stream.strict_tail", func(c *Config, b bool) { c.Stream.StrictTail = b }),
	},
	"stream.record_dir": {
		get: func(c *Config) string { return c.Stream.RecordDir },
		set: func(c *Config, v string) error { c.Stream.RecordDir = v; return nil },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: boolSetter("log.json", func(c *Config, b bool) { c.Log.JSON = b }),
	},
	"log.debug": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.Debug) },
		set: boolSetter("log.debug", func(c *Config, b bool) { c.Log.Debug = b }),
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
}

func boolSetter(key string, apply func(c *Config, b bool)) func(c *Config, v string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		apply(c, b)
		return nil
	}
}
