// Package config loads the planner service configuration from a JSON file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"hybrid-planner/internal/gridmap"
	"hybrid-planner/internal/hybridastar"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the root of the configuration file.
type Config struct {
	Planner hybridastar.Config `json:"planner"`
	Map     MapConfig          `json:"map"`
	Server  ServerConfig       `json:"server"`
}

// MapConfig describes the occupancy grid. Origin is the world position of the
// lower-left corner of cell (0, 0).
type MapConfig struct {
	Origin     [2]float64 `json:"origin"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Resolution float64    `json:"resolution"`
	Obstacles  []Rect     `json:"obstacles,omitempty"`
	// ObstacleFile is a GeoJSON FeatureCollection of polygons. Relative paths are
	// resolved against the directory of the config file.
	ObstacleFile string `json:"obstacle_file,omitempty"`
}

// Rect is an axis-aligned obstacle in world units.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Bound returns r as an orb.Bound.
func (r Rect) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{r.MinX, r.MinY}, Max: orb.Point{r.MaxX, r.MaxY}}
}

// ServerConfig configures the HTTP plan service.
type ServerConfig struct {
	Addr         string `json:"addr"`
	ReadTimeout  string `json:"read_timeout"`  // duration string like "5s"
	WriteTimeout string `json:"write_timeout"` // duration string like "30s"
}

// GetReadTimeout returns the parsed read timeout.
func (s ServerConfig) GetReadTimeout() time.Duration {
	return parseDurationOr(s.ReadTimeout, 5*time.Second)
}

// GetWriteTimeout returns the parsed write timeout.
func (s ServerConfig) GetWriteTimeout() time.Duration {
	return parseDurationOr(s.WriteTimeout, 30*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Default returns a 100x100 metre open map with the default planner settings.
func Default() *Config {
	return &Config{
		Planner: hybridastar.DefaultConfig(),
		Map: MapConfig{
			Width:      100,
			Height:     100,
			Resolution: 1.0,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "5s",
			WriteTimeout: "30s",
		},
	}
}

// Load reads a config from a .json file of at most 1MB. Fields omitted from the
// file keep their defaults.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}
	if cfg.Map.ObstacleFile != "" && !filepath.IsAbs(cfg.Map.ObstacleFile) {
		cfg.Map.ObstacleFile = filepath.Join(filepath.Dir(cleanPath), cfg.Map.ObstacleFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks every section and reports all problems together.
func (c *Config) Validate() error {
	var err error
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		err = multierr.Append(err, errors.Errorf("map size must be positive, got %dx%d", c.Map.Width, c.Map.Height))
	}
	if c.Map.Resolution <= 0 {
		err = multierr.Append(err, errors.Errorf("map resolution must be positive, got %v", c.Map.Resolution))
	}
	for i, r := range c.Map.Obstacles {
		if r.MinX >= r.MaxX || r.MinY >= r.MaxY {
			err = multierr.Append(err, errors.Errorf("obstacle %d is empty or inverted", i))
		}
	}
	if c.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server addr must not be empty"))
	}
	timeouts := []struct{ name, value string }{
		{"read_timeout", c.Server.ReadTimeout},
		{"write_timeout", c.Server.WriteTimeout},
	}
	for _, to := range timeouts {
		if to.value == "" {
			continue
		}
		if _, perr := time.ParseDuration(to.value); perr != nil {
			err = multierr.Append(err, errors.Wrapf(perr, "server %s", to.name))
		}
	}
	return multierr.Append(err, c.Planner.Validate())
}

// BuildGrid rasterises the map section into an occupancy grid.
func (c *Config) BuildGrid() (*gridmap.Grid, error) {
	m := c.Map
	grid, err := gridmap.New(m.Width, m.Height, m.Resolution, orb.Point{m.Origin[0], m.Origin[1]})
	if err != nil {
		return nil, err
	}

	for _, r := range m.Obstacles {
		grid.FillRect(r.Bound())
	}
	if m.ObstacleFile != "" {
		polygons, err := gridmap.LoadObstacles(m.ObstacleFile)
		if err != nil {
			return nil, err
		}
		grid.FillPolygons(polygons)
	}
	return grid, nil
}
