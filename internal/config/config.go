package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dycw/hooksmith/internal/project"
)

const ConfigFile = "config.json"

const (
	DefaultTemplateBaseURL    = "https://raw.githubusercontent.com/dycw/hooksmith/master"
	DefaultTemplateCacheHours = 24
	DefaultVersionFile        = ".bumpversion.cfg"
	DefaultReleaseBranch      = "origin/master"
)

type Config struct {
	TemplateBaseURL    string `json:"template_base_url"`
	TemplateCacheHours int    `json:"template_cache_hours"`
	VersionFile        string `json:"version_file"`
	ReleaseBranch      string `json:"release_branch"`
}

func DefaultConfig() *Config {
	return &Config{
		TemplateBaseURL:    DefaultTemplateBaseURL,
		TemplateCacheHours: DefaultTemplateCacheHours,
		VersionFile:        DefaultVersionFile,
		ReleaseBranch:      DefaultReleaseBranch,
	}
}

func Load(root string) (*Config, error) {
	path := filepath.Join(project.DotDir(root), ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hooksmith not initialized: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault returns the config under root, falling back to defaults
// when no config file exists. Hooks run in repositories that never ran
// init, so absence is not an error.
func LoadOrDefault(root string) *Config {
	cfg, err := Load(root)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

func Save(root string, cfg *Config) error {
	dotDir := project.DotDir(root)
	if err := os.MkdirAll(dotDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dotDir, ConfigFile), data, 0644)
}

func (c *Config) applyDefaults() {
	if c.TemplateBaseURL == "" {
		c.TemplateBaseURL = DefaultTemplateBaseURL
	}
	if c.TemplateCacheHours == 0 {
		c.TemplateCacheHours = DefaultTemplateCacheHours
	}
	if c.VersionFile == "" {
		c.VersionFile = DefaultVersionFile
	}
	if c.ReleaseBranch == "" {
		c.ReleaseBranch = DefaultReleaseBranch
	}
}
