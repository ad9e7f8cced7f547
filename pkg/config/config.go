package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sensiscan/pkg/core"
)

// File mirrors the optional YAML configuration. Fields left out keep the
// compiled-in defaults.
type File struct {
	InputFile      string   `yaml:"input_file"`
	Keywords       []string `yaml:"keywords"`
	Threads        *int     `yaml:"threads"`
	Timeout        *int     `yaml:"timeout"`
	NoiseThreshold *int     `yaml:"noise_threshold"`
	MaxRedirects   *int     `yaml:"max_redirects"`
	UserAgent      string   `yaml:"user_agent"`
}

// Load returns the default config overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (*core.Config, error) {
	cfg := core.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	f.apply(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (f *File) apply(cfg *core.Config) {
	if f.InputFile != "" {
		cfg.InputFile = f.InputFile
	}
	if f.Keywords != nil {
		cfg.Keywords = f.Keywords
	}
	if f.Threads != nil {
		cfg.Threads = *f.Threads
	}
	if f.Timeout != nil {
		cfg.Timeout = *f.Timeout
	}
	if f.NoiseThreshold != nil {
		cfg.NoiseThreshold = *f.NoiseThreshold
	}
	if f.MaxRedirects != nil {
		cfg.MaxRedirects = *f.MaxRedirects
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
}

// Validate rejects settings the scanner cannot run with.
func Validate(cfg *core.Config) error {
	var errs []error
	if cfg.InputFile == "" {
		errs = append(errs, errors.New("input file is empty"))
	}
	if len(cfg.Keywords) == 0 {
		errs = append(errs, errors.New("keyword list is empty"))
	}
	if cfg.Threads < 1 {
		errs = append(errs, fmt.Errorf("threads must be at least 1, got %d", cfg.Threads))
	}
	if cfg.Timeout < 1 {
		errs = append(errs, fmt.Errorf("timeout must be at least 1 second, got %d", cfg.Timeout))
	}
	if cfg.NoiseThreshold < 1 {
		errs = append(errs, fmt.Errorf("noise threshold must be at least 1, got %d", cfg.NoiseThreshold))
	}
	if cfg.MaxRedirects < 0 {
		errs = append(errs, fmt.Errorf("max redirects cannot be negative, got %d", cfg.MaxRedirects))
	}
	return errors.Join(errs...)
}
