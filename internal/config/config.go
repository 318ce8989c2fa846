package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/dataprep"
)

// DefaultPath is read when neither --config nor CHURN_CONFIG is given.
const DefaultPath = "churn.yaml"

type Config struct {
	ReferencePath   string `yaml:"reference_path"`
	ModelPath       string `yaml:"model_path"`
	TenurePolicy    string `yaml:"tenure_policy"`
	UnknownCategory string `yaml:"unknown_category"`
	JournalPath     string `yaml:"journal_path"`
	WatchReference  bool   `yaml:"watch_reference"`
	EvalWorkers     int    `yaml:"eval_workers"`

	Log LogConfig `yaml:"log"`

	// Parsed from TenurePolicy and UnknownCategory by Load.
	RangePolicy   dataprep.RangePolicy   `yaml:"-"`
	UnknownPolicy dataprep.UnknownPolicy `yaml:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the YAML file at path, applies CHURN_* environment overrides and
// defaults, then validates. An empty path falls back to CHURN_CONFIG and then to
// DefaultPath; a missing default file is not an error, a missing explicit one is.
func Load(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = DefaultPath
		if envPath := os.Getenv("CHURN_CONFIG"); envPath != "" {
			path = envPath
			explicit = true
		}
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	envOverride(&cfg.ReferencePath, "CHURN_REFERENCE_PATH")
	envOverride(&cfg.ModelPath, "CHURN_MODEL_PATH")
	envOverride(&cfg.TenurePolicy, "CHURN_TENURE_POLICY")
	envOverride(&cfg.UnknownCategory, "CHURN_UNKNOWN_CATEGORY")
	envOverride(&cfg.JournalPath, "CHURN_JOURNAL_PATH")
	envOverride(&cfg.Log.Level, "CHURN_LOG_LEVEL")
	envOverride(&cfg.Log.Format, "CHURN_LOG_FORMAT")
	if err := envOverrideInt(&cfg.EvalWorkers, "CHURN_EVAL_WORKERS"); err != nil {
		return Config{}, err
	}
	if err := envOverrideBool(&cfg.WatchReference, "CHURN_WATCH_REFERENCE"); err != nil {
		return Config{}, err
	}

	// Defaults
	if cfg.ReferencePath == "" {
		cfg.ReferencePath = "first_telc.csv"
	}
	if cfg.ModelPath == "" {
		cfg.ModelPath = "model.json"
	}
	if cfg.EvalWorkers == 0 {
		cfg.EvalWorkers = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var err error
	if c.RangePolicy, err = dataprep.ParseRangePolicy(strings.ToLower(c.TenurePolicy)); err != nil {
		return fmt.Errorf("invalid tenure_policy: %w", err)
	}
	if c.UnknownPolicy, err = dataprep.ParseUnknownPolicy(strings.ToLower(c.UnknownCategory)); err != nil {
		return fmt.Errorf("invalid unknown_category: %w", err)
	}
	c.TenurePolicy = c.RangePolicy.String()
	c.UnknownCategory = c.UnknownPolicy.String()
	if c.EvalWorkers < 1 {
		return fmt.Errorf("invalid eval_workers %d: must be >= 1", c.EvalWorkers)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log.format %q: want json or console", c.Log.Format)
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}

func envOverrideBool(field *bool, envKey string) error {
	val := os.Getenv(envKey)
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", envKey, val, err)
	}
	*field = parsed
	return nil
}
