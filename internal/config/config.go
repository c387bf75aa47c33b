package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/veegee/lsdisk/internal/lsblk"
	"github.com/veegee/lsdisk/internal/output"
)

type Config struct {
	// Columns is "minimal" or "extended"
	Columns string `yaml:"columns"`
	// Format is "auto", "table", "plain" or "json"
	Format    string `yaml:"format"`
	LsblkPath string `yaml:"lsblk_path,omitempty"`
	Header    bool   `yaml:"header"`
	Bytes     bool   `yaml:"bytes"`
	Dedupe    bool   `yaml:"dedupe"`
	// Lenient renders missing lsblk columns as blanks instead of failing
	Lenient     bool     `yaml:"lenient"`
	VerifyLinks bool     `yaml:"verify_links"`
	Timeout     Duration `yaml:"timeout,omitempty"`

	// Path is the file the config was read from, empty for defaults
	Path string `yaml:"-"`
}

// Duration is a time.Duration written as "30s" in YAML
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// defaultConfig lists all columns in a terminal-dependent table style with
// no header
var defaultConfig = Config{
	Columns:   string(lsblk.Extended),
	Format:    string(output.StyleAuto),
	LsblkPath: lsblk.DefaultBinary,
}

// Candidates are the locations tried, in order, when no path is given
func Candidates() []string {
	return []string{
		"/etc/lsdisk/config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/lsdisk/config.yaml"),
		"config.yaml",
	}
}

func Load(path string) (*Config, error) {
	if path == "" {
		for _, c := range Candidates() {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	if path == "" {
		// No config file found - use defaults
		log.Debug("No config file found, using defaults")
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.Path = path
		log.WithField("path", path).Debug("Loaded config")
	}

	// Apply defaults for keys set to empty values
	if cfg.Columns == "" {
		cfg.Columns = defaultConfig.Columns
	}
	if cfg.Format == "" {
		cfg.Format = defaultConfig.Format
	}
	if cfg.LsblkPath == "" {
		cfg.LsblkPath = defaultConfig.LsblkPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	if _, err := lsblk.ParseColumnSet(c.Columns); err != nil {
		return err
	}
	if _, err := output.ParseStyle(c.Format); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// ColumnSet returns the parsed column set; call after Validate
func (c *Config) ColumnSet() lsblk.ColumnSet {
	cols, _ := lsblk.ParseColumnSet(c.Columns)
	return cols
}

// Style returns the parsed output style; call after Validate
func (c *Config) Style() output.Style {
	style, _ := output.ParseStyle(c.Format)
	return style
}
