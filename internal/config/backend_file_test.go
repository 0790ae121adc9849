package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aiflow", "config.yaml")
	b := newFileBackend(path)

	if err := b.SetInt("server.port", 4900); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if err := b.SetString("log.level", "debug"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	reloaded := newFileBackend(path)
	port, ok, err := reloaded.GetInt("server.port")
	if err != nil || !ok || port != 4900 {
		t.Errorf("GetInt = (%d, %v, %v), want (4900, true, nil)", port, ok, err)
	}
	level, ok, _ := reloaded.GetString("log.level")
	if !ok || level != "debug" {
		t.Errorf("GetString = (%q, %v), want (debug, true)", level, ok)
	}

	if err := reloaded.Delete("log.level"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := newFileBackend(path).GetString("log.level"); ok {
		t.Error("deleted key still present")
	}
}

func TestFileBackend_InvalidInt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "server:\n  port: 1.5\nlog:\n  level: x\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	b := newFileBackend(path)
	if _, _, err := b.GetInt("server.port"); err == nil {
		t.Error("expected error for fractional port")
	}
	if _, _, err := b.GetInt("log.level"); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestFileBackend_NestsSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	b := newFileBackend(path)
	if err := b.SetString("capture.event_name", "done"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "capture:\n    event_name: done") {
		t.Errorf("config file = %q, want event_name nested under capture", data)
	}

	if err := b.Delete("capture.event_name"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := b.sections["capture"]; ok {
		t.Error("empty section kept after delete")
	}
}

func TestSecretsFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if _, err := secretGet("aiflow", "api_token"); err == nil {
		t.Fatal("expected error before the secrets file exists")
	}
	if err := secretSet("aiflow", "api_token", "abc"); err != nil {
		t.Fatalf("secretSet: %v", err)
	}
	got, err := secretGet("aiflow", "api_token")
	if err != nil || string(got) != "abc" {
		t.Errorf("secretGet = (%q, %v), want (abc, nil)", got, err)
	}

	info, err := os.Stat(secretsFilePath())
	if err != nil {
		t.Fatalf("stat secrets file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("secrets mode = %v, want 0600", info.Mode().Perm())
	}
}
