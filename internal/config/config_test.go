package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dycw/hooksmith/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	if cfg.TemplateBaseURL == "" {
		t.Error("expected non-empty template_base_url")
	}
	if cfg.VersionFile != ".bumpversion.cfg" {
		t.Errorf("expected .bumpversion.cfg, got %q", cfg.VersionFile)
	}
	if cfg.ReleaseBranch != "origin/master" {
		t.Errorf("expected origin/master, got %q", cfg.ReleaseBranch)
	}
	if cfg.TemplateCacheHours != 24 {
		t.Errorf("expected 24, got %d", cfg.TemplateCacheHours)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg := &config.Config{
		TemplateBaseURL:    "https://example.com/templates",
		TemplateCacheHours: 6,
		VersionFile:        "setup.cfg",
		ReleaseBranch:      "origin/main",
	}
	if err := config.Save(dir, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	dotDir := filepath.Join(dir, ".hooksmith")
	os.MkdirAll(dotDir, 0755)

	os.WriteFile(
		filepath.Join(dotDir, "config.json"),
		[]byte(`{"version_file": "setup.cfg"}`),
		0644,
	)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.VersionFile != "setup.cfg" {
		t.Errorf("expected setup.cfg, got %q", cfg.VersionFile)
	}
	if cfg.TemplateBaseURL != config.DefaultTemplateBaseURL {
		t.Errorf("expected default template_base_url, got %q", cfg.TemplateBaseURL)
	}
	if cfg.ReleaseBranch != "origin/master" {
		t.Errorf("expected default release_branch, got %q", cfg.ReleaseBranch)
	}
}

func TestLoad_NotInitialized(t *testing.T) {
	_, err := config.Load(t.TempDir())
	if err == nil {
		t.Error("expected error for non-initialized repo")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	dotDir := filepath.Join(dir, ".hooksmith")
	os.MkdirAll(dotDir, 0755)
	os.WriteFile(filepath.Join(dotDir, "config.json"), []byte("{not json"), 0644)

	_, err := config.Load(dir)
	if err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestLoadOrDefault_Absent(t *testing.T) {
	cfg := config.LoadOrDefault(t.TempDir())
	if cfg.TemplateBaseURL != config.DefaultTemplateBaseURL {
		t.Errorf("expected default template_base_url, got %q", cfg.TemplateBaseURL)
	}
}

func TestLoadOrDefault_Present(t *testing.T) {
	dir := t.TempDir()
	if err := config.Save(dir, &config.Config{VersionFile: "pyproject.toml"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.LoadOrDefault(dir)
	if cfg.VersionFile != "pyproject.toml" {
		t.Errorf("expected pyproject.toml, got %q", cfg.VersionFile)
	}
}
