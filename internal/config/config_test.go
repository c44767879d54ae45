package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
store:
  root: "/tmp/kyoshi-files"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Store.Root != "/tmp/kyoshi-files" {
		t.Errorf("store root: got %q", cfg.Store.Root)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_defaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8081
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Oracle.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("oracle base_url default: got %q", cfg.Oracle.BaseURL)
	}
	if cfg.Oracle.ChatModel != "gpt-4o-mini" {
		t.Errorf("chat_model default: got %q", cfg.Oracle.ChatModel)
	}
	if cfg.Oracle.VisionModel != cfg.Oracle.ChatModel {
		t.Error("vision_model should default to chat_model")
	}
	if cfg.Limits.WorksheetContextChars != 15000 {
		t.Errorf("worksheet budget default: got %d", cfg.Limits.WorksheetContextChars)
	}
	if cfg.Limits.SyllabusContextChars != 120000 {
		t.Errorf("syllabus budget default: got %d", cfg.Limits.SyllabusContextChars)
	}
	if cfg.Agents.ForwardTimeout().Seconds() != 120 {
		t.Errorf("forward timeout default: got %v", cfg.Agents.ForwardTimeout())
	}
	if cfg.Store.URLPrefix != "/files" {
		t.Errorf("url_prefix default: got %q", cfg.Store.URLPrefix)
	}
}

func TestLoad_envOverrides(t *testing.T) {
	t.Setenv("ORACLE_API_KEY", "sk-test")
	t.Setenv("FILE_STORE", "/tmp/override-store")
	t.Setenv("ORACLE_CHAT_MODEL", "gpt-4o")
	path := writeConfig(t, `
oracle:
  api_key: "from-file"
  chat_model: "gpt-4o-mini"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Oracle.APIKey != "sk-test" {
		t.Errorf("api key: got %q, want env override", cfg.Oracle.APIKey)
	}
	if cfg.Store.Root != "/tmp/override-store" {
		t.Errorf("store root: got %q, want env override", cfg.Store.Root)
	}
	if cfg.Oracle.ChatModel != "gpt-4o" {
		t.Errorf("chat model: got %q, want env override", cfg.Oracle.ChatModel)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
store:
  root: "./files"
metrics:
  log_path: "./metrics.jsonl"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if cfg.Store.Root != filepath.Join(dir, "files") {
		t.Errorf("store root: got %q", cfg.Store.Root)
	}
	if cfg.Metrics.LogPath != filepath.Join(dir, "metrics.jsonl") {
		t.Errorf("metrics log path: got %q", cfg.Metrics.LogPath)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not: valid")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
