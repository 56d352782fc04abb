package shared

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/jstyle/internal/rules"
)

// ConfigError marks configuration problems that are fatal at startup.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "config: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./jstyle.db"
	} `yaml:"database"`

	Lint struct {
		Sources       []string `yaml:"sources"`         // default inputs when the command names none
		Extensions    []string `yaml:"extensions"`      // [".js", ".mjs", ".cjs"]
		Workers       int      `yaml:"workers"`         // 0 = pick from CPU count
		FileTimeoutMS int      `yaml:"file_timeout_ms"` // 10000
		RulePacks     []string `yaml:"rule_packs"`      // extra YAML rule pack files
	} `yaml:"lint"`

	// Per-rule toggles and severity overrides, keyed by rule id.
	Rules map[string]rules.RuleConfig `yaml:"rules"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
		Format string `yaml:"format"`  // "text"|"json"|"sarif"
		HTML   bool   `yaml:"html"`    // also write an HTML report
	} `yaml:"reporting"`

	Server struct {
		Addr              string   `yaml:"addr"`                // ":8787"
		SessionTTLMinutes int      `yaml:"session_ttl_minutes"` // 720
		Origins           []string `yaml:"origins"`             // empty = any origin
	} `yaml:"server"`

	Watch struct {
		DebounceMS int `yaml:"debounce_ms"` // 500
	} `yaml:"watch"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./jstyle.db"
	c.Lint.Extensions = []string{".js", ".mjs", ".cjs"}
	c.Lint.FileTimeoutMS = 10000
	c.Reporting.OutDir = "./reports"
	c.Reporting.Format = "text"
	c.Server.Addr = ":8787"
	c.Server.SessionTTLMinutes = 720
	c.Watch.DebounceMS = 500
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

// LoadConfig layers the file at path (when given) over the defaults,
// then applies environment overrides. A missing or malformed file is a
// *ConfigError; startup should stop on it.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, &ConfigError{err}
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, &ConfigError{err}
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("JSTYLE_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JSTYLE_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("JSTYLE_FORMAT"); v != "" {
		c.Reporting.Format = v
	}
	if v := os.Getenv("JSTYLE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Lint.Workers = n
		}
	}
	if v := os.Getenv("JSTYLE_FILE_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Lint.FileTimeoutMS = n
		}
	}
	if v := os.Getenv("JSTYLE_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("JSTYLE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("JSTYLE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if err := c.validate(); err != nil {
		return c, &ConfigError{err}
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.Reporting.Format {
	case "text", "json", "sarif":
	default:
		return fmt.Errorf("unknown report format %q (want text, json or sarif)", c.Reporting.Format)
	}
	if c.Lint.Workers < 0 {
		return fmt.Errorf("lint.workers must not be negative")
	}
	if c.Lint.FileTimeoutMS < 0 {
		return fmt.Errorf("lint.file_timeout_ms must not be negative")
	}
	return nil
}
