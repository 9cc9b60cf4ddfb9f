// Package config loads gridbench settings from config.yaml in the user's
// configuration directory.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/drake/gridbench/grid"
)

// FileName is the config file inside Dir.
const FileName = "config.yaml"

const header = "# gridbench configuration\n"

// TableConfig sizes the table widget's screen.
type TableConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// SheetConfig sizes the window the sheet widget renders.
type SheetConfig struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// Config models config.yaml.
type Config struct {
	Rows    int    `yaml:"rows"`
	Columns int    `yaml:"columns"`
	Seed    uint64 `yaml:"seed"`
	Rounds  int    `yaml:"rounds"`

	// Delay is the quiet period before a flush; MaxWait caps how long a
	// busy stream can defer one (0 disables the cap).
	Delay   time.Duration `yaml:"delay"`
	MaxWait time.Duration `yaml:"max_wait"`

	CellColor    string        `yaml:"cell_color"`
	ColumnColor  string        `yaml:"column_color"`
	Scenario     string        `yaml:"scenario"`
	AutoScenario string        `yaml:"auto_scenario"`
	AutoInterval time.Duration `yaml:"auto_interval"`

	Widgets []grid.Kind `yaml:"widgets"`
	Table   TableConfig `yaml:"table"`
	Sheet   SheetConfig `yaml:"sheet"`

	LogFile string `yaml:"log_file,omitempty"`
	Debug   bool   `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Rows:         5000,
		Columns:      200,
		Seed:         1,
		Rounds:       1,
		Delay:        200 * time.Millisecond,
		CellColor:    "red",
		ColumnColor:  "lightgreen",
		Scenario:     "default",
		AutoScenario: "burst",
		AutoInterval: 100 * time.Millisecond,
		Widgets:      []grid.Kind{grid.Table, grid.Sheet},
		Table:        TableConfig{Width: 120, Height: 24},
		Sheet:        SheetConfig{Rows: 20, Columns: 8},
	}
}

// Dir returns the gridbench configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "gridbench")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), FileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Validate checks ranges and widget names.
func (c Config) Validate() error {
	switch {
	case c.Rows < 0 || c.Columns < 0:
		return errors.New("rows and columns must not be negative")
	case c.Rounds < 1:
		return errors.New("rounds must be at least 1")
	case c.Delay <= 0:
		return errors.New("delay must be positive")
	case c.MaxWait < 0:
		return errors.New("max_wait must not be negative")
	case c.AutoInterval <= 0:
		return errors.New("auto_interval must be positive")
	}
	for _, k := range c.Widgets {
		if _, ok := grid.ParseKind(string(k)); !ok {
			return errors.Errorf("unknown widget %q", k)
		}
	}
	return nil
}

// Marshal encodes c as YAML with a leading comment.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "config: encode")
	}
	return buf.Bytes(), nil
}

// Save writes c to path, creating the directory.
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "config: create dir")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "config: write")
}
