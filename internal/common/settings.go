package common

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the operator-editable pricing defaults. The currency symbol is
// presentation-only; it never enters a computation.
type Settings struct {
	CurrencySymbol string  `yaml:"currency_symbol"`
	DefaultTaxRate float64 `yaml:"default_tax_rate"`
	DefaultMargin  float64 `yaml:"default_margin"`
}

// DefaultSettings returns the values used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{CurrencySymbol: "€", DefaultTaxRate: 0.10, DefaultMargin: 0.70}
}

// LoadSettings reads the YAML settings file; a missing file is not an error
// and yields the defaults. Zero-valued fields also fall back to defaults.
func LoadSettings(path string, logger *slog.Logger) (Settings, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := DefaultSettings()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("settings file absent, using defaults", "path", path)
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	d := DefaultSettings()
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = d.CurrencySymbol
	}
	if s.DefaultTaxRate <= 0 {
		s.DefaultTaxRate = d.DefaultTaxRate
	}
	if s.DefaultMargin <= 0 || s.DefaultMargin >= 1 {
		s.DefaultMargin = d.DefaultMargin
	}
	return s, nil
}
