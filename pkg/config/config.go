package config

import internalconfig "github.com/SmitUplenchwar2687/Retrace/internal/config"

// Config is the top-level configuration for a Retrace session.
type Config = internalconfig.Config

// ServerConfig holds HTTP server settings.
type ServerConfig = internalconfig.ServerConfig

// RecordingConfig holds sampling settings.
type RecordingConfig = internalconfig.RecordingConfig

// ReplayConfig holds review session settings.
type ReplayConfig = internalconfig.ReplayConfig

// LoopConfig holds frame driver settings.
type LoopConfig = internalconfig.LoopConfig

// Default returns a Config with sensible defaults.
func Default() Config {
	return internalconfig.Default()
}

// LoadFile reads a JSON or YAML config file and merges it with defaults.
func LoadFile(path string) (Config, error) {
	return internalconfig.LoadFile(path)
}

// ApplyEnv overrides cfg with RETRACE_* environment variables.
func ApplyEnv(cfg *Config) error {
	return internalconfig.ApplyEnv(cfg)
}

// WriteExample writes an example config file to the given path.
func WriteExample(path string) error {
	return internalconfig.WriteExample(path)
}
