package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	secretService = "aiflow"
	tokenAccount  = "api_token"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Documents DocumentsConfig
	Capture   CaptureConfig
	RAG       RAGConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port     int
	APIToken string
}

type StorageConfig struct {
	DataDir string
}

type DocumentsConfig struct {
	Dir string
}

type CaptureConfig struct {
	Timeout   string
	EventName string
}

type RAGConfig struct {
	// Markers is a comma separated list of words that start the fix part of
	// a comment.
	Markers string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server:    ServerConfig{Port: 4710},
		Storage:   StorageConfig{DataDir: defaultDataDir()},
		Documents: DocumentsConfig{Dir: defaultDocumentsDir()},
		Capture: CaptureConfig{
			Timeout:   "5s",
			EventName: "__capture_comments_result__",
		},
		RAG: RAGConfig{Markers: "建议,fix,should"},
		Log: LogConfig{Level: "info"},
	}
}

// CaptureTimeout parses Capture.Timeout, falling back to five seconds when
// the value is missing or invalid.
func (c Config) CaptureTimeout() time.Duration {
	d, err := time.ParseDuration(c.Capture.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// MarkerList splits RAG.Markers on commas, dropping empty entries.
func (c Config) MarkerList() []string {
	var out []string
	for _, m := range strings.Split(c.RAG.Markers, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// Load reads configuration from $XDG_CONFIG_HOME/aiflow/config.yaml,
// environment variables and the secrets file at
// $XDG_DATA_HOME/aiflow/secrets.yaml (mode 0600).
//
// Environment variables (AIFLOW_*) override backend values.
// When no API token exists anywhere a new one is generated and stored.
func Load() (Config, error) {
	return loadWith(newDefaultBackend(), fileSecrets{})
}

// secretStore abstracts secret storage for testing.
type secretStore interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
}

func loadWith(b ConfigBackend, kc secretStore) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if cfg.Server.APIToken == "" {
		if tok, err := kc.Get(secretService, tokenAccount); err == nil && tok != "" {
			cfg.Server.APIToken = tok
		}
	}
	if cfg.Server.APIToken == "" {
		tok, err := generateToken()
		if err != nil {
			return Config{}, fmt.Errorf("generating API token: %w", err)
		}
		if err := kc.Set(secretService, tokenAccount, tok); err != nil {
			return Config{}, fmt.Errorf("storing API token: %w", err)
		}
		cfg.Server.APIToken = tok
	}

	return cfg, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// fileSecrets reads and writes the secrets file.
type fileSecrets struct{}

func (fileSecrets) Get(service, account string) (string, error) {
	out, err := secretGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (fileSecrets) Set(service, account, value string) error {
	return secretSet(service, account, value)
}

func defaultDocumentsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "AI_Flow_Studio"
	}
	return filepath.Join(home, "Documents", "AI_Flow_Studio")
}
