package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Config is the command line's settings file.
type Config struct {
	Prompt  string            `yaml:"prompt"`
	History string            `yaml:"history"`
	Echo    bool              `yaml:"echo"`
	Colour  string            `yaml:"colour"`
	Styles  map[string]string `yaml:"styles,omitempty"`
	Preload []string          `yaml:"preload,omitempty"`
}

// Colour modes.
const (
	ColourAuto   = "auto"
	ColourAlways = "always"
	ColourNever  = "never"
)

func defaultConfig() Config {
	return Config{
		Prompt: "> ",
		Colour: ColourAuto,
	}
}

// LoadConfig reads the YAML file at path over the defaults; an empty path
// yields the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	if err := cfg.decode(f); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.validate()
}

func (cfg *Config) validate() error {
	switch cfg.Colour {
	case "":
		cfg.Colour = ColourAuto
	case ColourAuto, ColourAlways, ColourNever:
	default:
		return fmt.Errorf("invalid colour mode %q, want %v, %v or %v",
			cfg.Colour, ColourAuto, ColourAlways, ColourNever)
	}
	for name, hex := range cfg.Styles {
		if _, err := parseHexColour(hex); err != nil {
			return fmt.Errorf("style %v: %w", name, err)
		}
	}
	return nil
}

// Encode writes cfg out as YAML.
func (cfg Config) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// useColour decides whether output to f should be coloured.
func (cfg Config) useColour(f interface{ Fd() uintptr }) bool {
	switch cfg.Colour {
	case ColourAlways:
		return true
	case ColourNever:
		return false
	}
	return isTerminal(f)
}

func isTerminal(f interface{ Fd() uintptr }) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
