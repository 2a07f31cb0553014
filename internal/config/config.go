// Package config provides configuration loading and structs for the Senko server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Judge     JudgeConfig     `yaml:"judge"`
	Matching  MatchingConfig  `yaml:"matching"`
	Intake    IntakeConfig    `yaml:"intake"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the databases and indices.
type StorageConfig struct {
	RecordsPath    string `yaml:"records_path"`
	RankingsPath   string `yaml:"rankings_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
	// VectorDir holds the per-collection vector and catalog files
	// (postings.vec/postings.cat, profiles.vec/profiles.cat).
	VectorDir string `yaml:"vector_dir"`
}

// EmbeddingConfig holds embedding provider settings. Provider is one of
// "voyage", "onnx", or "mock".
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	ModelPath      string `yaml:"model_path"`
	Dimensions     int    `yaml:"dimensions"`
	MaxTokens      int    `yaml:"max_tokens"`
	CacheSize      int    `yaml:"cache_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the external call timeout.
func (e *EmbeddingConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// JudgeConfig holds LLM judge settings. The API key comes from the
// GEMINI_API_KEY environment variable, not the config file.
type JudgeConfig struct {
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the judge call timeout.
func (j *JudgeConfig) Timeout() time.Duration {
	return time.Duration(j.TimeoutSeconds) * time.Second
}

// MatchingConfig holds scoring and retrieval settings.
type MatchingConfig struct {
	ShortlistThreshold float64 `yaml:"shortlist_threshold"`
	CandidatePool      int     `yaml:"candidate_pool"`
	JobPool            int     `yaml:"job_pool"`
	Concurrency        int     `yaml:"concurrency"`
}

// IntakeConfig holds intake directory watch settings.
type IntakeConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.RecordsPath = expandPath(cfg.Storage.RecordsPath, configDir)
	cfg.Storage.RankingsPath = expandPath(cfg.Storage.RankingsPath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorDir = expandPath(cfg.Storage.VectorDir, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	for i := range cfg.Intake.Directories {
		cfg.Intake.Directories[i] = expandPath(cfg.Intake.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
