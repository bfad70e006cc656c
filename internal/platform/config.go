package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	store "github.com/aretw0/fittrack/pkg/adapters/fs"
	"github.com/aretw0/fittrack/pkg/reference"
)

// ConfigFile is the configuration file looked up in the data directory.
const ConfigFile = "fittrack.yaml"

// Environment variables read after .env is loaded. They override the file.
const (
	EnvData     = "FITTRACK_DATA"
	EnvConfig   = "FITTRACK_CONFIG"
	EnvUser     = "FITTRACK_USER"
	EnvPassword = "FITTRACK_PASSWORD"
	EnvAddr     = "FITTRACK_ADDR"
)

// HTTPConfig configures the JSON API server.
type HTTPConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

// Config is the content of fittrack.yaml.
type Config struct {
	DataDir         string     `yaml:"data_dir" json:"data_dir"`
	Format          string     `yaml:"format" json:"format"`
	ReadOnly        bool       `yaml:"read_only" json:"read_only"`
	Versioning      bool       `yaml:"versioning" json:"versioning"`
	FoodDataset     string     `yaml:"food_dataset" json:"food_dataset"`
	ExerciseDataset string     `yaml:"exercise_dataset" json:"exercise_dataset"`
	LogLevel        string     `yaml:"log_level" json:"log_level"`
	HTTP            HTTPConfig `yaml:"http" json:"http"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-" json:"source,omitempty"`
}

// DefaultConfig returns the settings used when no file is found.
func DefaultConfig() Config {
	return Config{
		Format:          "json",
		FoodDataset:     "food",
		ExerciseDataset: "exercise",
		LogLevel:        "info",
		HTTP: HTTPConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadEnv loads .env files into the environment without overriding variables
// that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ReadConfig decodes a config file on top of the defaults.
func ReadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// LoadConfig resolves the configuration for a data directory.
//
// The file is configPath, else $FITTRACK_CONFIG, else fittrack.yaml in dataDir
// (or $FITTRACK_DATA), else fittrack.yaml in the root found by FindRoot from
// the working directory. An explicit file that is missing is an error.
// Environment variables override the file, and a non-empty dataDir overrides both.
// A relative data_dir in the file is relative to the file.
func LoadConfig(configPath, dataDir string) (Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	if configPath != "" {
		c, err := ReadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	} else {
		for _, dir := range candidateDirs(dataDir) {
			c, err := ReadConfig(filepath.Join(dir, ConfigFile))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return cfg, err
			}
			cfg = c
			if cfg.DataDir == "" {
				cfg.DataDir = dir
			}
			break
		}
	}

	if cfg.Source != "" && cfg.DataDir != "" && !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(filepath.Dir(cfg.Source), cfg.DataDir)
	}

	cfg.applyEnv()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "."
		if root, err := FindRoot("."); err == nil {
			cfg.DataDir = root
		}
	}
	return cfg, nil
}

func candidateDirs(dataDir string) []string {
	if dataDir == "" {
		dataDir = os.Getenv(EnvData)
	}
	if dataDir != "" {
		return []string{dataDir}
	}
	if root, err := FindRoot("."); err == nil {
		return []string{root}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvData); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.HTTP.Addr = v
	}
}

// Level maps log_level to a slog level; unknown names mean INFO.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// datasetPath resolves a dataset path relative to the data directory.
func (c Config) datasetPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// Options converts the config into factory options. Reference datasets are
// loaded here; a missing dataset only disables calorie lookup and is logged.
func (c Config) Options(logger *slog.Logger) ([]Option, error) {
	if _, err := store.FormatExt(c.Format); err != nil {
		return nil, err
	}
	opts := []Option{
		WithLogger(logger),
		WithFormat(c.Format),
		WithReadOnly(c.ReadOnly),
		WithVersioning(c.Versioning),
	}

	if p := c.datasetPath(c.FoodDataset); p != "" {
		t, err := reference.OpenFood(p)
		switch {
		case err == nil:
			opts = append(opts, WithFoodTable(t))
		case errors.Is(err, fs.ErrNotExist):
			logDataset(logger, "food", p, err)
		default:
			return nil, fmt.Errorf("failed to load food dataset: %w", err)
		}
	}
	if p := c.datasetPath(c.ExerciseDataset); p != "" {
		t, err := reference.OpenExercise(p)
		switch {
		case err == nil:
			opts = append(opts, WithExerciseTable(t))
		case errors.Is(err, fs.ErrNotExist):
			logDataset(logger, "exercise", p, err)
		default:
			return nil, fmt.Errorf("failed to load exercise dataset: %w", err)
		}
	}
	return opts, nil
}

func logDataset(logger *slog.Logger, name, path string, err error) {
	if logger != nil {
		logger.Debug("reference dataset unavailable", "table", name, "path", path, "error", err)
	}
}

// WriteConfig writes cfg to path. DataDir is omitted since the file lives in
// the data directory.
func WriteConfig(path string, cfg Config) error {
	cfg.DataDir = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
