// Package config resolves the runtime configuration of the memory
// system: defaults, then the TOML config file, then environment
// variables. CLI flags override on top of this in the cli package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables recognized by every surface (CLI and MCP).
const (
	EnvDBPath        = "CACHE_FOR_CLANKERS_DB_PATH"
	EnvCollection    = "CACHE_FOR_CLANKERS_COLLECTION"
	EnvModelPath     = "CACHE_FOR_CLANKERS_MODEL_PATH"
	EnvTokenizerPath = "CACHE_FOR_CLANKERS_TOKENIZER_PATH"
	EnvDimensions    = "CACHE_FOR_CLANKERS_DIMENSIONS"
)

// Config is the externally supplied configuration surface of the
// memory core: where the store lives, which collection to use, and
// which embedding model to load.
type Config struct {
	// DBPath is the on-disk location of the vector store. Empty means
	// in-memory (nothing survives the process).
	DBPath string `toml:"db_path"`

	// Collection is the fragment namespace within the store.
	Collection string `toml:"collection"`

	// ModelPath and TokenizerPath locate the ONNX embedding model.
	// Empty falls back to the deterministic offline embedder.
	ModelPath     string `toml:"model_path"`
	TokenizerPath string `toml:"tokenizer_path"`

	// Dimensions is the embedding vector size.
	Dimensions int `toml:"dimensions"`
}

// Default returns the built-in defaults: a persistent store under the
// user's home directory and all-MiniLM-L6-v2 dimensions.
func Default() Config {
	return Config{
		DBPath:     filepath.Join(baseDir(), "db"),
		Collection: "memories",
		Dimensions: 384,
	}
}

// Load resolves the configuration. With an empty path the default
// config file location is tried; a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = filepath.Join(baseDir(), "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file: defaults plus environment.
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvCollection); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv(EnvModelPath); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv(EnvTokenizerPath); v != "" {
		cfg.TokenizerPath = v
	}
	if v := os.Getenv(EnvDimensions); v != "" {
		dims, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s=%q: %w", EnvDimensions, v, err)
		}
		cfg.Dimensions = dims
	}
	return nil
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cache-for-clankers")
}
