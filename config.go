package mathup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config selects the decider and the ambient behaviour of a checking run.
type Config struct {
	LogLevel        string `json:"log_level" yaml:"log_level"`
	LogFormat       string `json:"log_format" yaml:"log_format"`
	Decider         string `json:"decider" yaml:"decider"`
	TruthTableLimit int    `json:"truth_table_limit" yaml:"truth_table_limit"`
	LedgerPath      string `json:"ledger_path" yaml:"ledger_path"`
	Metrics         bool   `json:"metrics" yaml:"metrics"`
}

const (
	DeciderAuto       = "auto"
	DeciderTruthTable = "truth-table"
	DeciderSAT        = "sat"
)

func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Decider:         DeciderAuto,
		TruthTableLimit: DefaultTruthTableLimit,
	}
}

// LoadConfig reads path over the defaults, applies environment overrides
// and validates the result. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("MATHUP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MATHUP_DECIDER"); v != "" {
		c.Decider = v
	}
	if v := os.Getenv("MATHUP_LEDGER"); v != "" {
		c.LedgerPath = v
	}
	if v := os.Getenv("MATHUP_TRUTH_TABLE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TruthTableLimit = n
		}
	}
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	switch c.Decider {
	case DeciderAuto, DeciderTruthTable, DeciderSAT:
	default:
		return fmt.Errorf("decider must be one of %s, %s, %s, got %q", DeciderAuto, DeciderTruthTable, DeciderSAT, c.Decider)
	}
	if c.TruthTableLimit < 0 || c.TruthTableLimit > maxTruthTableAtoms {
		return fmt.Errorf("truth_table_limit must be within [0, %d], got %d", maxTruthTableAtoms, c.TruthTableLimit)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NewLogger builds the handler the config asks for, writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewDecider returns the tautology decider the config names.
func (c Config) NewDecider() Decider {
	switch c.Decider {
	case DeciderTruthTable:
		return TruthTable{}
	case DeciderSAT:
		return SAT{}
	}
	return Auto{Limit: c.TruthTableLimit}
}
