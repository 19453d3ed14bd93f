// Package config loads MasterHand daemon settings from an optional JSON
// config file with sensible defaults. There are no CLI flags: the process
// is configured entirely by file (or not at all).
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ConfigFileName is the config file viper looks for in the config directory.
const ConfigFileName = "masterhand.cfg.json"

// Settings holds the full daemon configuration.
type Settings struct {
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`

	Snap   SnapConfig   `json:"snap" mapstructure:"snap"`
	Sink   SinkConfig   `json:"sink" mapstructure:"sink"`
	Camera CameraConfig `json:"camera" mapstructure:"camera"`
	HTTP   HTTPConfig   `json:"http" mapstructure:"http"`
	DB     DBConfig     `json:"db" mapstructure:"db"`
}

// SnapConfig selects the snap policy variant and its thresholds.
type SnapConfig struct {
	// Policy is "edge" or "velocity".
	Policy string `json:"policy" mapstructure:"policy"`
	// PinchThresholdSq overrides the per-policy pinch bound when > 0.
	PinchThresholdSq float64 `json:"pinchThresholdSq" mapstructure:"pinchThresholdSq"`
	// VelocityThreshold overrides the release-velocity gate when > 0.
	VelocityThreshold float64 `json:"velocityThreshold" mapstructure:"velocityThreshold"`
}

// SinkConfig addresses the downstream event consumer.
type SinkConfig struct {
	Address string `json:"address" mapstructure:"address"`
	// EmitFull selects the payload variant carrying gesture and snap
	// fields; false sends a bare landmark relay.
	EmitFull bool `json:"emitFull" mapstructure:"emitFull"`
}

// CameraConfig selects the capture device and motion gate.
type CameraConfig struct {
	ID              int     `json:"id" mapstructure:"id"`
	MotionThreshold float64 `json:"motionThreshold" mapstructure:"motionThreshold"`
}

// HTTPConfig addresses the debug/observability server.
type HTTPConfig struct {
	Address string `json:"address" mapstructure:"address"`
}

// DBConfig locates the snap-event log. Empty selects ~/.masterhand.
type DBConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("snap.policy", "velocity")
	v.SetDefault("snap.pinchThresholdSq", 0.0)
	v.SetDefault("snap.velocityThreshold", 0.0)

	v.SetDefault("sink.address", "127.0.0.1:5005")
	v.SetDefault("sink.emitFull", true)

	v.SetDefault("camera.id", 0)
	v.SetDefault("camera.motionThreshold", 1.0)

	v.SetDefault("http.address", ":8080")

	v.SetDefault("db.path", "")
}

// Load reads configuration from configDir/masterhand.cfg.json on top of
// defaults. A missing file is not an error: the daemon runs on defaults.
func Load(configDir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) validate() error {
	switch s.Snap.Policy {
	case "edge", "velocity":
	default:
		return fmt.Errorf("invalid snap.policy %q: want \"edge\" or \"velocity\"", s.Snap.Policy)
	}
	if s.Snap.PinchThresholdSq < 0 {
		return fmt.Errorf("snap.pinchThresholdSq must not be negative")
	}
	if s.Snap.VelocityThreshold < 0 {
		return fmt.Errorf("snap.velocityThreshold must not be negative")
	}
	if s.Sink.Address == "" {
		return fmt.Errorf("sink.address must not be empty")
	}
	return nil
}
