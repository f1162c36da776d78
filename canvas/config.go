// seehuhn.de/go/vecscene - a retained-mode renderer for vector animation
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/vecscene/raster"
)

// Config holds the settings of a [Canvas].  It can be read from a YAML file
// with [LoadConfig].  Zero fields are replaced by their defaults.
type Config struct {
	// Workers is the number of goroutines used by Draw.
	Workers int `yaml:"workers,omitempty"`

	// Flatness is the curve tolerance in device pixels.
	Flatness float64 `yaml:"flatness,omitempty"`

	// MaxNodes limits the number of nodes on the canvas.
	MaxNodes int `yaml:"max_nodes,omitempty"`

	// MaxPathPoints limits the number of points in a single shape
	// allocated through [Canvas.NewShape].
	MaxPathPoints int `yaml:"max_path_points,omitempty"`

	// Background is the colour the target is cleared to before each
	// Draw.  It is either an SVG colour name, "transparent", or a
	// hex colour of the form #rrggbb or #rrggbbaa.
	Background string `yaml:"background,omitempty"`

	// Logger receives diagnostics.  If nil, nothing is logged.
	Logger *slog.Logger `yaml:"-"`
}

// Default values for [Config].
const (
	DefaultMaxNodes      = 1 << 16
	DefaultMaxPathPoints = 1 << 20
)

// DefaultConfig returns a configuration with all fields set to their
// default values.
func DefaultConfig() *Config {
	return &Config{
		Workers:       runtime.GOMAXPROCS(0),
		Flatness:      raster.DefaultFlatness,
		MaxNodes:      DefaultMaxNodes,
		MaxPathPoints: DefaultMaxPathPoints,
		Background:    "transparent",
	}
}

// LoadConfig reads a YAML configuration file.  A missing file is not an
// error and gives the default configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if _, err := cfg.BackgroundColor(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

// withDefaults returns a copy of c with zero fields set to defaults.
func (c *Config) withDefaults() *Config {
	def := DefaultConfig()
	if c == nil {
		return def
	}
	res := *c
	if res.Workers <= 0 {
		res.Workers = def.Workers
	}
	if res.Flatness <= 0 {
		res.Flatness = def.Flatness
	}
	if res.MaxNodes <= 0 {
		res.MaxNodes = def.MaxNodes
	}
	if res.MaxPathPoints <= 0 {
		res.MaxPathPoints = def.MaxPathPoints
	}
	if res.Background == "" {
		res.Background = def.Background
	}
	return &res
}

// BackgroundColor parses the Background field.
func (c *Config) BackgroundColor() (color.NRGBA, error) {
	s := strings.ToLower(strings.TrimSpace(c.Background))
	switch {
	case s == "" || s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			break
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			break
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	default:
		if named, ok := colornames.Map[s]; ok {
			return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, nil
		}
	}
	return color.NRGBA{}, fmt.Errorf("invalid background colour %q", c.Background)
}
