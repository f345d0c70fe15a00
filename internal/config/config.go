// Package config loads the blob-alert configuration.
//
// Values are resolved in order of increasing priority: built-in defaults,
// the YAML file, BLOB_ALERT_* environment variables, command-line flags
// (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/blob-alert/internal/buzzer"
	"github.com/ironsheep/blob-alert/internal/camera"
	"github.com/ironsheep/blob-alert/internal/detection"
	"github.com/ironsheep/blob-alert/internal/imaging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BLOB_ALERT_"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete blob-alert configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Camera    camera.Settings `yaml:"camera"`
	Replay    ReplayConfig    `yaml:"replay"`
	Detection DetectionConfig `yaml:"detection"`
	Buzzer    BuzzerConfig    `yaml:"buzzer"`
	Display   DisplayConfig   `yaml:"display"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Monitor   MonitorConfig   `yaml:"monitor"`
}

// ReplayConfig selects a directory of still frames instead of the camera.
type ReplayConfig struct {
	Dir  string `yaml:"dir"`
	Loop bool   `yaml:"loop"`
}

// DetectionConfig holds the detector parameters in file form. Colours are
// "#RRGGBB" strings.
type DetectionConfig struct {
	ColorRange       imaging.ColorRange `yaml:"color_range"`
	AlertOffset      int                `yaml:"alert_offset"`
	MinArea          float64            `yaml:"min_area"`
	KernelWidth      int                `yaml:"kernel_width"`
	KernelHeight     int                `yaml:"kernel_height"`
	DilateIterations int                `yaml:"dilate_iterations"`
	MarkerRadius     int                `yaml:"marker_radius"`
	LineThickness    int                `yaml:"line_thickness"`
	LineColor        string             `yaml:"line_color"`
	MarkerColor      string             `yaml:"marker_color"`
	TextColor        string             `yaml:"text_color"`
	AlertText        string             `yaml:"alert_text"`
	ShowMask         bool               `yaml:"show_mask"`
}

// BuzzerConfig selects the alert output.
type BuzzerConfig struct {
	Pin           string `yaml:"pin"`
	DryRun        bool   `yaml:"dry_run"`
	ShutdownState string `yaml:"shutdown_state"` // off, on or keep
}

// DisplayConfig controls the preview window.
type DisplayConfig struct {
	Headless bool   `yaml:"headless"`
	Title    string `yaml:"title"`
}

// SnapshotConfig controls saving annotated frames when an alert starts.
type SnapshotConfig struct {
	Dir    string `yaml:"dir"` // empty disables snapshots
	Crop   bool   `yaml:"crop"`
	Margin int    `yaml:"margin"`
}

// MonitorConfig tunes the capture loop.
type MonitorConfig struct {
	MaxConsecutiveErrors int           `yaml:"max_consecutive_errors"`
	StatsInterval        time.Duration `yaml:"stats_interval"`
}

// Default returns the settings tuned for the dark-red toy car demo.
func Default() *Config {
	det := detection.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Camera:   camera.DefaultSettings(),
		Detection: DetectionConfig{
			ColorRange:       det.ColorRange,
			AlertOffset:      det.AlertOffset,
			MinArea:          det.MinArea,
			KernelWidth:      det.Kernel.Width,
			KernelHeight:     det.Kernel.Height,
			DilateIterations: det.DilateIterations,
			MarkerRadius:     det.MarkerRadius,
			LineThickness:    det.LineThickness,
			LineColor:        "#FF0000",
			MarkerColor:      "#FFFFFF",
			TextColor:        "#FFFFFF",
			AlertText:        det.AlertText,
		},
		Buzzer: BuzzerConfig{
			Pin:           buzzer.DefaultPin,
			ShutdownState: string(buzzer.ShutdownOff),
		},
		Display: DisplayConfig{
			Title: "Frame",
		},
		Snapshot: SnapshotConfig{
			Margin: 10,
		},
		Monitor: MonitorConfig{
			MaxConsecutiveErrors: 30,
			StatsInterval:        10 * time.Second,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BLOB_ALERT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("PIN", &c.Buzzer.Pin)
	str("SHUTDOWN_STATE", &c.Buzzer.ShutdownState)
	str("REPLAY", &c.Replay.Dir)
	str("SNAPSHOTS", &c.Snapshot.Dir)

	if err := boolean("DRY_RUN", &c.Buzzer.DryRun); err != nil {
		return err
	}
	if err := boolean("HEADLESS", &c.Display.Headless); err != nil {
		return err
	}

	if v, ok := lookup(EnvPrefix + "DEVICE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %sDEVICE: %w", EnvPrefix, err)
		}
		c.Camera.Device = n
	}
	return nil
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}

	if err := c.Camera.Validate(); err != nil {
		return fmt.Errorf("%w: camera: %v", ErrInvalid, err)
	}

	det, err := c.DetectorConfig()
	if err != nil {
		return err
	}
	if err := det.Validate(); err != nil {
		return fmt.Errorf("%w: detection: %v", ErrInvalid, err)
	}

	if _, err := buzzer.ParseShutdownState(c.Buzzer.ShutdownState); err != nil {
		return fmt.Errorf("%w: buzzer: %v", ErrInvalid, err)
	}
	if !c.Buzzer.DryRun && c.Buzzer.Pin == "" {
		return fmt.Errorf("%w: buzzer: pin is required unless dry_run is set", ErrInvalid)
	}

	if c.Snapshot.Margin < 0 {
		return fmt.Errorf("%w: snapshot: margin %d must not be negative", ErrInvalid, c.Snapshot.Margin)
	}
	if c.Monitor.MaxConsecutiveErrors < 1 {
		return fmt.Errorf("%w: monitor: max_consecutive_errors must be at least 1", ErrInvalid)
	}
	if c.Monitor.StatsInterval < 0 {
		return fmt.Errorf("%w: monitor: stats_interval must not be negative", ErrInvalid)
	}
	return nil
}

// DetectorConfig converts the detection section into detector parameters.
func (c *Config) DetectorConfig() (detection.Config, error) {
	d := c.Detection

	colors := make(map[string]color.RGBA, 3)
	for name, s := range map[string]string{
		"line_color":   d.LineColor,
		"marker_color": d.MarkerColor,
		"text_color":   d.TextColor,
	} {
		rgba, err := imaging.ParseColor(s)
		if err != nil {
			return detection.Config{}, fmt.Errorf("%w: detection: %s: %v", ErrInvalid, name, err)
		}
		colors[name] = rgba
	}

	return detection.Config{
		ColorRange:       d.ColorRange,
		AlertOffset:      d.AlertOffset,
		MinArea:          d.MinArea,
		Kernel:           detection.Kernel{Width: d.KernelWidth, Height: d.KernelHeight},
		DilateIterations: d.DilateIterations,
		MarkerRadius:     d.MarkerRadius,
		LineThickness:    d.LineThickness,
		LineColor:        colors["line_color"],
		MarkerColor:      colors["marker_color"],
		TextColor:        colors["text_color"],
		AlertText:        d.AlertText,
		KeepMasked:       d.ShowMask,
	}, nil
}

// ShutdownState returns the parsed shutdown policy. Call Validate first.
func (c *Config) ShutdownState() buzzer.ShutdownState {
	s, err := buzzer.ParseShutdownState(c.Buzzer.ShutdownState)
	if err != nil {
		return buzzer.ShutdownOff
	}
	return s
}
