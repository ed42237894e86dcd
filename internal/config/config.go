package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"PerfectCircle/internal/state"
)

const (
	DefaultPath        = "perfectcircle.yaml"
	DefaultEnvFile     = ".env"
	DefaultAddr        = ":8888"
	DefaultServiceName = "PerfectCircle"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	CanvasWidth  float64 `yaml:"canvas_width"`
	CanvasHeight float64 `yaml:"canvas_height"`
	CenterRadius float64 `yaml:"center_radius"`
	StrokeWidth  float64 `yaml:"stroke_width"`
	MinPoints    int     `yaml:"min_points"`
	// MaxDeviation is the calibration constant: the mean radius deviation
	// in pixels that maps to a score of 0.
	MaxDeviation float64 `yaml:"max_deviation"`

	Addr        string `yaml:"addr"`
	Advertise   bool   `yaml:"advertise"`
	ServiceName string `yaml:"service_name"`
}

func Default() Config {
	return Config{
		CanvasWidth:  500,
		CanvasHeight: 500,
		CenterRadius: 6,
		StrokeWidth:  3,
		MinPoints:    state.DefaultMinPoints,
		MaxDeviation: state.DefaultMaxDeviation,
		Addr:         DefaultAddr,
		ServiceName:  DefaultServiceName,
	}
}

// New loads the config file at path and the .env file in the working directory.
func New(path string) (Config, error) {
	return Load(path, DefaultEnvFile)
}

// Load layers defaults, the YAML file at path, the env file and CIRCLE_*
// environment variables, in that order. Missing files are skipped.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			log.Printf("[CONFIG] Loaded %s", path)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	floats := map[string]*float64{
		"CIRCLE_CANVAS_WIDTH":  &c.CanvasWidth,
		"CIRCLE_CANVAS_HEIGHT": &c.CanvasHeight,
		"CIRCLE_CENTER_RADIUS": &c.CenterRadius,
		"CIRCLE_STROKE_WIDTH":  &c.StrokeWidth,
		"CIRCLE_MAX_DEVIATION": &c.MaxDeviation,
	}
	for key, dst := range floats {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, v, err)
		}
		*dst = f
	}

	if v, ok := lookup("CIRCLE_MIN_POINTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CIRCLE_MIN_POINTS=%q: %v", ErrInvalidConfig, v, err)
		}
		c.MinPoints = n
	}
	if v, ok := lookup("CIRCLE_ADVERTISE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: CIRCLE_ADVERTISE=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Advertise = b
	}
	if v, ok := lookup("CIRCLE_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("CIRCLE_SERVICE_NAME"); ok {
		c.ServiceName = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (c Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("%w: canvas size must be positive, got %gx%g", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	case c.CenterRadius < 0:
		return fmt.Errorf("%w: center radius must not be negative", ErrInvalidConfig)
	case c.StrokeWidth <= 0:
		return fmt.Errorf("%w: stroke width must be positive", ErrInvalidConfig)
	case c.MinPoints < 1:
		return fmt.Errorf("%w: min points must be at least 1, got %d", ErrInvalidConfig, c.MinPoints)
	case c.MaxDeviation <= 0:
		return fmt.Errorf("%w: max deviation must be positive, got %g", ErrInvalidConfig, c.MaxDeviation)
	case c.Addr == "":
		return fmt.Errorf("%w: listen address is required", ErrInvalidConfig)
	}
	return nil
}

// Center is the fixed target point, the middle of the canvas.
func (c Config) Center() state.Point {
	return state.Point{X: c.CanvasWidth / 2, Y: c.CanvasHeight / 2}
}

func (c Config) Scorer() state.Scorer {
	return state.Scorer{MinPoints: c.MinPoints, MaxDeviation: c.MaxDeviation}
}

// NewTracker returns a tracker centered on this canvas.
func (c Config) NewTracker() *state.Tracker {
	return state.NewTracker(c.Center(), c.Scorer())
}
