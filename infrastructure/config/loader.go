package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Inference InferenceConfig `yaml:"inference"`
	Heuristic HeuristicConfig `yaml:"heuristic"`
	Workers   WorkerConfig    `yaml:"workers"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `yaml:"address"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	VideoDirectory string `yaml:"video_directory"`
}

// PipelineConfig contains settings shared by both analysis paths
type PipelineConfig struct {
	PreEventFrames  int     `yaml:"pre_event_frames"`
	PostEventFrames int     `yaml:"post_event_frames"`
	FallbackFPS     float64 `yaml:"fallback_fps"`
}

// InferenceConfig contains external inference process settings
type InferenceConfig struct {
	Enabled             bool    `yaml:"enabled"`
	WorkingDirectory    string  `yaml:"working_directory"`
	Command             string  `yaml:"command"`
	WeightsPath         string  `yaml:"weights_path"`
	OutputDirectory     string  `yaml:"output_directory"`
	ResultFile          string  `yaml:"result_file"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	TimeoutSeconds      int     `yaml:"timeout_seconds"`
}

// Timeout returns the configured process timeout as a duration.
func (c InferenceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HeuristicConfig contains motion analyzer settings
type HeuristicConfig struct {
	MotionThreshold float64 `yaml:"motion_threshold"`
	MaxFrameSamples int     `yaml:"max_frame_samples"`
}

// WorkerConfig contains worker pool settings
type WorkerConfig struct {
	CoreSize      int `yaml:"core_size"`
	MaxSize       int `yaml:"max_size"`
	QueueCapacity int `yaml:"queue_capacity"`
}

// ArchiveConfig contains Google Drive archival settings
type ArchiveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	FolderID        string `yaml:"folder_id"`
}

// LoggingConfig contains structured logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns a configuration with working defaults for every knob.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Address: ":8080"},
		Storage: StorageConfig{VideoDirectory: "data/videos"},
		Pipeline: PipelineConfig{
			PreEventFrames:  15,
			PostEventFrames: 15,
			FallbackFPS:     30.0,
		},
		Inference: InferenceConfig{
			Enabled:             false,
			WorkingDirectory:    "inference",
			Command:             "python3 analyze.py --match {matchId} --video {video} --out {outputDir} --weights {weights} --conf {confidence}",
			WeightsPath:         "inference/weights/best.pt",
			OutputDirectory:     "data/inference",
			ResultFile:          "{outputDir}/results.json",
			ConfidenceThreshold: 0.25,
			TimeoutSeconds:      300,
		},
		Heuristic: HeuristicConfig{
			MotionThreshold: 12.0,
			MaxFrameSamples: 9000,
		},
		Workers: WorkerConfig{
			CoreSize:      2,
			MaxSize:       4,
			QueueCapacity: 16,
		},
		Archive: ArchiveConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
