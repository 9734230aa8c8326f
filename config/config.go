// Package config describes sinks and loggers declaratively and wires them into a
// fanlog.Registry.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"

	"github.com/sivaosorg/fanlog"
)

// Format names a configuration file syntax.
type Format string

const (
	// FormatYAML is decoded with gopkg.in/yaml.v3.
	FormatYAML Format = "yaml"
	// FormatJSON5 is decoded with github.com/titanous/json5 and accepts plain JSON too.
	FormatJSON5 Format = "json5"
	// FormatTOML is decoded with github.com/pelletier/go-toml/v2.
	FormatTOML Format = "toml"
)

// SinkType selects the concrete sink built for a SinkConfig.
type SinkType string

const (
	// SinkStdout writes to standard output.
	SinkStdout SinkType = "stdout"
	// SinkStderr writes to standard error.
	SinkStderr SinkType = "stderr"
	// SinkFile writes to the file at Path.
	SinkFile SinkType = "file"
	// SinkMemory keeps records in memory.
	SinkMemory SinkType = "memory"
	// SinkDiscard drops every record.
	SinkDiscard SinkType = "discard"
)

// SinkConfig describes one sink. Sinks are shared by name between loggers.
type SinkConfig struct {
	Type       SinkType         `yaml:"type" json:"type" toml:"type"`
	Level      *fanlog.Severity `yaml:"level" json:"level" toml:"level"`
	Path       string           `yaml:"path" json:"path" toml:"path"`
	Truncate   bool             `yaml:"truncate" json:"truncate" toml:"truncate"`
	ForceFlush bool             `yaml:"forceFlush" json:"forceFlush" toml:"forceFlush"`
	ThreadSafe *bool            `yaml:"threadSafe" json:"threadSafe" toml:"threadSafe"`
}

// LoggerConfig describes one logger.
type LoggerConfig struct {
	Name       string           `yaml:"name" json:"name" toml:"name"`
	Level      *fanlog.Severity `yaml:"level" json:"level" toml:"level"`
	Sinks      []string         `yaml:"sinks" json:"sinks" toml:"sinks"`
	Default    bool             `yaml:"default" json:"default" toml:"default"`
	Color      *bool            `yaml:"color" json:"color" toml:"color"`
	UTC        bool             `yaml:"utc" json:"utc" toml:"utc"`
	TimeFormat string           `yaml:"timeFormat" json:"timeFormat" toml:"timeFormat"`
}

// Config is the root of a configuration file.
type Config struct {
	Sinks   map[string]SinkConfig `yaml:"sinks" json:"sinks" toml:"sinks"`
	Loggers []LoggerConfig        `yaml:"loggers" json:"loggers" toml:"loggers"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".json5":
		return FormatJSON5, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.Errorf("config: unsupported file extension %q", filepath.Ext(path))
	}
}

// Load reads, decodes and validates the file at path.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates data written in format.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "decode yaml")
		}
	case FormatJSON5:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json5.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "decode json5")
			}
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "decode toml")
		}
	default:
		return nil, errors.Errorf("unknown format %q", string(format))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks sink types, sink references, logger names and default election.
func (c *Config) Validate() error {
	for _, name := range c.sinkNames() {
		sc := c.Sinks[name]
		switch sc.Type {
		case SinkStdout, SinkStderr, SinkMemory, SinkDiscard:
		case SinkFile:
			if strings.TrimSpace(sc.Path) == "" {
				return errors.Errorf("sink %q: file sink requires a path", name)
			}
		default:
			return errors.Errorf("sink %q: unknown type %q", name, string(sc.Type))
		}
		if sc.Level != nil && !sc.Level.Valid() {
			return errors.Errorf("sink %q: invalid level", name)
		}
	}

	seen := make(map[string]struct{}, len(c.Loggers))
	defaults := 0
	for i, lc := range c.Loggers {
		if strings.TrimSpace(lc.Name) == "" {
			return errors.Errorf("logger #%d: name is required", i)
		}
		if _, dup := seen[lc.Name]; dup {
			return errors.Errorf("logger %q: declared twice", lc.Name)
		}
		seen[lc.Name] = struct{}{}
		if lc.Level != nil && !lc.Level.Valid() {
			return errors.Errorf("logger %q: invalid level", lc.Name)
		}
		for _, ref := range lc.Sinks {
			if _, ok := c.Sinks[ref]; !ok {
				return errors.Errorf("logger %q: unknown sink %q", lc.Name, ref)
			}
		}
		if lc.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return errors.Errorf("%d loggers are marked default, at most one is allowed", defaults)
	}
	return nil
}

func (c *Config) sinkNames() []string {
	names := make([]string, 0, len(c.Sinks))
	for name := range c.Sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
