package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/TomasB/geoloc/internal/data"
)

type Config struct {
	Backend       string `usage:"lookup backend: cached | stream | query"`
	Dataset       string `usage:"dataset path, or store DSN for the query backend (overridden by the positional argument)"`
	CountryColumn int    `usage:"zero-based column holding the country code"`
	CityColumn    int    `usage:"zero-based column holding the city"`
	Separator     string `usage:"separator between country code and city in responses"`
	LogLevel      string `usage:"log level: debug | info | warn | error"`
	HttpAddr      string `usage:"serve the command protocol over HTTP on this address instead of stdin"`
	GrpcAddr      string `usage:"serve the command protocol over gRPC on this address instead of stdin"`
	Watch         bool   `usage:"reload the dataset when the file changes (server mode)"`
}

func Default() Config {
	opts := data.DefaultOptions()
	return Config{
		Backend:       string(data.KindStream),
		CountryColumn: opts.CountryColumn,
		CityColumn:    opts.CityColumn,
		Separator:     opts.Separator,
		LogLevel:      "info",
	}
}

// Validate checks the values that do not depend on the dataset.
func (c Config) Validate() error {
	switch data.Kind(c.Backend) {
	case data.KindCached, data.KindStream, data.KindQuery:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.CountryColumn == c.CityColumn {
		return fmt.Errorf("country and city columns must differ")
	}
	if c.CountryColumn < 2 || c.CityColumn < 2 {
		return fmt.Errorf("payload columns must be 2 or above, columns 0 and 1 hold the range bounds")
	}
	return nil
}

// Options returns the row options for the data backends.
func (c Config) Options() data.Options {
	return data.Options{
		CountryColumn: c.CountryColumn,
		CityColumn:    c.CityColumn,
		Separator:     c.Separator,
	}
}

// Server reports whether a network front-end is configured.
func (c Config) Server() bool {
	return c.HttpAddr != "" || c.GrpcAddr != ""
}

// ResolveDataset applies the positional arguments left after the flags in
// args. A single positional argument replaces Dataset.
func (c *Config) ResolveDataset(args []string) error {
	pos := positional(args)
	switch len(pos) {
	case 0:
	case 1:
		c.Dataset = pos[0]
	default:
		return fmt.Errorf("expected one dataset argument, got %d", len(pos))
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	return nil
}

// boolFlags take no value on the command line.
var boolFlags = map[string]bool{"watch": true, "help": true, "h": true}

func positional(args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args[i+1:]
		}
		if a == "-" || !strings.HasPrefix(a, "-") {
			return args[i:]
		}
		name := strings.ToLower(strings.TrimLeft(a, "-"))
		if strings.Contains(name, "=") || boolFlags[name] {
			continue
		}
		i++
	}
	return nil
}

// SlogLevel converts the LogLevel string to slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
