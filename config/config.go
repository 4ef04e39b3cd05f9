// Package config loads pageview settings from YAML.
//
// A configuration file looks like:
//
//	box: trim
//	resident_pages: 24
//	render:
//	  zoom_permille: 1500
//	  gray: true
//	  skip_images: false
//	  tile_width: 256
//	  tile_height: 256
//	ocr:
//	  enabled: true
//	  language: eng+deu
//	  dpi: 300
//	log:
//	  level: debug
//
// Every field is optional; missing fields keep the values of [Default].
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/pageview/model"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a pageview document and its renderer.
type Config struct {
	Box           string       `yaml:"box"`            // page box name, e.g. "crop" or "TrimBox"
	ResidentPages int          `yaml:"resident_pages"` // page cache bound
	Render        RenderConfig `yaml:"render"`
	OCR           OCRConfig    `yaml:"ocr"`
	Log           LogConfig    `yaml:"log"`
}

// RenderConfig holds default tile parameters.
type RenderConfig struct {
	ZoomPermille int  `yaml:"zoom_permille"`
	Gray         bool `yaml:"gray"`
	SkipImages   bool `yaml:"skip_images"`
	TileWidth    int  `yaml:"tile_width"`
	TileHeight   int  `yaml:"tile_height"`
}

// OCRConfig controls the OCR fallback for pages without text.
type OCRConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Language string `yaml:"language"`
	DPI      int    `yaml:"dpi"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // logrus level name; empty disables logging
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		Box:           model.DefaultBox.String(),
		ResidentPages: 16,
		Render: RenderConfig{
			ZoomPermille: 1000,
			TileWidth:    256,
			TileHeight:   256,
		},
		OCR: OCRConfig{
			Language: "eng",
			DPI:      300,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Box != "" {
		if _, ok := model.ParseBox(c.Box); !ok {
			return fmt.Errorf("unknown page box %q", c.Box)
		}
	}
	if c.ResidentPages < 0 {
		return fmt.Errorf("resident_pages must not be negative, got %d", c.ResidentPages)
	}
	if c.Render.ZoomPermille < 0 {
		return fmt.Errorf("render.zoom_permille must not be negative, got %d", c.Render.ZoomPermille)
	}
	if c.Render.TileWidth < 0 || c.Render.TileHeight < 0 {
		return fmt.Errorf("render tile size must not be negative, got %dx%d", c.Render.TileWidth, c.Render.TileHeight)
	}
	if c.OCR.DPI < 0 {
		return fmt.Errorf("ocr.dpi must not be negative, got %d", c.OCR.DPI)
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}

// PageBox returns the configured box, CropBox when unset or unknown.
func (c *Config) PageBox() model.Box {
	b, _ := model.ParseBox(c.Box)
	return b
}

// ColorMode returns the configured render color mode.
func (c *Config) ColorMode() model.ColorMode {
	if c.Render.Gray {
		return model.Gray
	}
	return model.Color
}

// Logger builds a logger writing to stderr at the configured level. It
// returns nil when no level is configured.
func (c *Config) Logger() logrus.FieldLogger {
	if strings.TrimSpace(c.Log.Level) == "" {
		return nil
	}
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}
