// Package config provides configuration loading and structs for the kyoshi services.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the platform. One file configures every
// role; each service reads the sections it needs.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Agents  AgentsConfig  `yaml:"agents"`
	Limits  LimitsConfig  `yaml:"limits"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings for the role being started.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig holds the flat file store settings. Root is the directory
// holding uploads and rendered artifacts; URLPrefix is where the store is
// served externally.
type StoreConfig struct {
	Root      string `yaml:"root"`
	URLPrefix string `yaml:"url_prefix"`
}

// OracleConfig holds the hosted-model provider settings. APIKey is normally
// supplied via the ORACLE_API_KEY environment variable rather than the file.
type OracleConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	ChatModel       string `yaml:"chat_model"`
	VisionModel     string `yaml:"vision_model"`
	TranscribeModel string `yaml:"transcribe_model"`
	SpeechModel     string `yaml:"speech_model"`
	SpeechVoice     string `yaml:"speech_voice"`
	EmbedModel      string `yaml:"embed_model"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// Timeout returns the oracle call timeout.
func (o *OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// AgentsConfig holds the gateway's view of the agent endpoints.
type AgentsConfig struct {
	WorksheetURL          string `yaml:"worksheet_url"`
	StudyPlanURL          string `yaml:"studyplan_url"`
	VoiceURL              string `yaml:"voice_url"`
	ForwardTimeoutSeconds int    `yaml:"forward_timeout_seconds"`
}

// ForwardTimeout returns the gateway forwarding timeout.
func (a *AgentsConfig) ForwardTimeout() time.Duration {
	return time.Duration(a.ForwardTimeoutSeconds) * time.Second
}

// LimitsConfig holds per-agent context character budgets.
type LimitsConfig struct {
	WorksheetContextChars int `yaml:"worksheet_context_chars"`
	SyllabusContextChars  int `yaml:"syllabus_context_chars"`
}

// MetricsConfig holds the JSONL metrics log settings. When Judge is true the
// agents score generated content with an extra oracle call.
type MetricsConfig struct {
	LogPath string `yaml:"log_path"`
	Judge   bool   `yaml:"judge"`
}

// Load reads and parses the config file at path, expands paths, applies
// defaults, then applies environment overrides. Returns an error if the file
// cannot be read or parsed.
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
	cfg.Store.Root = expandPath(cfg.Store.Root, configDir)
	cfg.Metrics.LogPath = expandPath(cfg.Metrics.LogPath, configDir)

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv applies recognized environment overrides on top of the file:
// ORACLE_API_KEY, FILE_STORE, METRICS_LOG_PATH, and per-endpoint model
// overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ORACLE_API_KEY"); v != "" {
		cfg.Oracle.APIKey = v
	}
	if v := os.Getenv("FILE_STORE"); v != "" {
		cfg.Store.Root = v
	}
	if v := os.Getenv("METRICS_LOG_PATH"); v != "" {
		cfg.Metrics.LogPath = v
	}
	if v := os.Getenv("ORACLE_CHAT_MODEL"); v != "" {
		cfg.Oracle.ChatModel = v
	}
	if v := os.Getenv("ORACLE_VISION_MODEL"); v != "" {
		cfg.Oracle.VisionModel = v
	}
	if v := os.Getenv("ORACLE_TRANSCRIBE_MODEL"); v != "" {
		cfg.Oracle.TranscribeModel = v
	}
	if v := os.Getenv("ORACLE_SPEECH_MODEL"); v != "" {
		cfg.Oracle.SpeechModel = v
	}
	if v := os.Getenv("ORACLE_EMBED_MODEL"); v != "" {
		cfg.Oracle.EmbedModel = v
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
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
