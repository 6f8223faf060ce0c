// Package config loads statdash configuration and prepares the logger.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/Dicklesworthstone/statdash/pkg/dimension"
	"github.com/Dicklesworthstone/statdash/pkg/responsive"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	EngineConfig struct {
		Platform    string                 `yaml:"platform" validate:"oneof=ios android"`
		Density     float64                `yaml:"density" validate:"gt=0"`
		Breakpoints responsive.Breakpoints `yaml:"breakpoints"`
	}

	TerminalConfig struct {
		dimension.CellMetrics `yaml:",inline"`
		PollInterval          time.Duration `yaml:"poll_interval" validate:"gte=0"`
		ResizeDebounce        time.Duration `yaml:"resize_debounce" validate:"gte=0"`
	}

	DashboardConfig struct {
		Path           string        `yaml:"path" sanitize:"path_clean"`
		Watch          bool          `yaml:"watch"`
		ReloadDebounce time.Duration `yaml:"reload_debounce" validate:"gte=0"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Engine    EngineConfig    `yaml:"engine"`
		Terminal  TerminalConfig  `yaml:"terminal"`
		Dashboard DashboardConfig `yaml:"dashboard"`
		Logging   LoggingConfig   `yaml:"logging"`
	}
)

// EngineOptions converts the engine section into responsive.Engine options.
func (c *EngineConfig) EngineOptions() ([]responsive.Option, error) {
	p, err := responsive.ParsePlatform(c.Platform)
	if err != nil {
		return nil, err
	}
	if err := c.Breakpoints.Validate(); err != nil {
		return nil, fmt.Errorf("engine breakpoints: %w", err)
	}
	return []responsive.Option{
		responsive.WithPlatform(p),
		responsive.WithRounder(responsive.DensityRounder(c.Density)),
		responsive.WithBreakpoints(c.Breakpoints),
	}, nil
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
		if err := cfg.Engine.Breakpoints.Validate(); err != nil {
			return nil, fmt.Errorf("engine breakpoints: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template and
// performs validation. An empty path returns the defaults.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the default configuration file contents.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump marshals the active configuration.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
