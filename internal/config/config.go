package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/SmitUplenchwar2687/Retrace/internal/loop"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Config is the top-level configuration for a Retrace session.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Recording RecordingConfig `json:"recording" yaml:"recording"`
	Replay    ReplayConfig    `json:"replay" yaml:"replay"`
	Loop      LoopConfig      `json:"loop" yaml:"loop"`
	Storage   storage.Config  `json:"storage" yaml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// RecordingConfig holds sampling settings.
type RecordingConfig struct {
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// ReplayConfig holds review session settings.
type ReplayConfig struct {
	Name  string  `json:"name" yaml:"name"`   // timeline opened by default
	Speed float64 `json:"speed" yaml:"speed"` // 1.0 = real-time, 0 = instant
}

// LoopConfig holds frame driver settings.
type LoopConfig struct {
	Frame time.Duration `json:"frame" yaml:"frame"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Recording: RecordingConfig{
			Interval: timeline.DefaultInterval,
		},
		Replay: ReplayConfig{
			Name:  "save_1",
			Speed: 1,
		},
		Loop: LoopConfig{
			Frame: loop.DefaultFrame,
		},
		Storage: storage.Config{
			Backend: storage.BackendFile,
			File: storage.FileConfig{
				Dir: "saves",
			},
			Redis: storage.RedisConfig{
				Host:        "localhost",
				Port:        6379,
				PoolSize:    20,
				MaxRetries:  3,
				DialTimeout: 5 * time.Second,
			},
			SQLite: storage.SQLiteConfig{
				Path: "retrace.db",
			},
		},
	}
}

// Validate checks that the config is valid.
func (c Config) Validate() error {
	if c.Recording.Interval <= 0 {
		return fmt.Errorf("recording interval must be positive, got %s", c.Recording.Interval)
	}
	if c.Loop.Frame <= 0 {
		return fmt.Errorf("loop frame must be positive, got %s", c.Loop.Frame)
	}
	if c.Replay.Speed < 0 {
		return fmt.Errorf("replay speed must not be negative, got %g", c.Replay.Speed)
	}
	if c.Replay.Name != "" {
		if err := storage.ValidateName(c.Replay.Name); err != nil {
			return fmt.Errorf("replay name: %w", err)
		}
	}

	switch c.Storage.Backend {
	case "", storage.BackendFile, storage.BackendMemory:
	case storage.BackendRedis:
		r := c.Storage.Redis
		if r.Cluster {
			if len(r.ClusterNodes) == 0 {
				return fmt.Errorf("storage.redis.cluster_nodes is required when cluster=true")
			}
		} else {
			if r.Host == "" {
				return fmt.Errorf("storage.redis.host is required")
			}
			if r.Port <= 0 {
				return fmt.Errorf("storage.redis.port must be positive, got %d", r.Port)
			}
		}
	case storage.BackendSQLite:
		if c.Storage.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required")
		}
	default:
		return fmt.Errorf("unknown storage backend %q, must be one of: file, memory, redis, sqlite", c.Storage.Backend)
	}
	return nil
}

// LoadFile reads a JSON or YAML (.yaml, .yml) config file and merges it
// with defaults. Fields not specified in the file retain their default
// values.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	// Use a raw intermediate struct to handle duration parsing.
	var raw rawConfig
	if isYAML(path) {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}

	if raw.Server.Addr != "" {
		cfg.Server.Addr = raw.Server.Addr
	}
	if err := setDuration(&cfg.Recording.Interval, raw.Recording.Interval, "recording.interval"); err != nil {
		return cfg, err
	}
	if raw.Replay.Name != "" {
		cfg.Replay.Name = raw.Replay.Name
	}
	if raw.Replay.Speed != nil {
		cfg.Replay.Speed = *raw.Replay.Speed
	}
	if err := setDuration(&cfg.Loop.Frame, raw.Loop.Frame, "loop.frame"); err != nil {
		return cfg, err
	}

	s := raw.Storage
	if s.Backend != "" {
		cfg.Storage.Backend = s.Backend
	}
	if s.File.Dir != "" {
		cfg.Storage.File.Dir = s.File.Dir
	}
	if s.Redis.Host != "" {
		cfg.Storage.Redis.Host = s.Redis.Host
	}
	if s.Redis.Port > 0 {
		cfg.Storage.Redis.Port = s.Redis.Port
	}
	if s.Redis.Password != "" {
		cfg.Storage.Redis.Password = s.Redis.Password
	}
	if s.Redis.DB > 0 {
		cfg.Storage.Redis.DB = s.Redis.DB
	}
	if s.Redis.Cluster {
		cfg.Storage.Redis.Cluster = true
	}
	if len(s.Redis.ClusterNodes) > 0 {
		cfg.Storage.Redis.ClusterNodes = s.Redis.ClusterNodes
	}
	if s.Redis.PoolSize > 0 {
		cfg.Storage.Redis.PoolSize = s.Redis.PoolSize
	}
	if s.Redis.MaxRetries > 0 {
		cfg.Storage.Redis.MaxRetries = s.Redis.MaxRetries
	}
	if err := setDuration(&cfg.Storage.Redis.DialTimeout, s.Redis.DialTimeout, "storage.redis.dial_timeout"); err != nil {
		return cfg, err
	}
	if s.SQLite.Path != "" {
		cfg.Storage.SQLite.Path = s.SQLite.Path
	}

	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func setDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", field, err)
	}
	*dst = d
	return nil
}

// rawConfig is the file representation with string durations.
type rawConfig struct {
	Server struct {
		Addr string `json:"addr" yaml:"addr"`
	} `json:"server" yaml:"server"`
	Recording struct {
		Interval string `json:"interval" yaml:"interval"`
	} `json:"recording" yaml:"recording"`
	Replay struct {
		Name  string   `json:"name" yaml:"name"`
		Speed *float64 `json:"speed" yaml:"speed"`
	} `json:"replay" yaml:"replay"`
	Loop struct {
		Frame string `json:"frame" yaml:"frame"`
	} `json:"loop" yaml:"loop"`
	Storage struct {
		Backend string `json:"backend" yaml:"backend"`
		File    struct {
			Dir string `json:"dir" yaml:"dir"`
		} `json:"file" yaml:"file"`
		Redis struct {
			Host         string   `json:"host" yaml:"host"`
			Port         int      `json:"port" yaml:"port"`
			Password     string   `json:"password" yaml:"password"`
			DB           int      `json:"db" yaml:"db"`
			Cluster      bool     `json:"cluster" yaml:"cluster"`
			ClusterNodes []string `json:"cluster_nodes" yaml:"cluster_nodes"`
			PoolSize     int      `json:"pool_size" yaml:"pool_size"`
			MaxRetries   int      `json:"max_retries" yaml:"max_retries"`
			DialTimeout  string   `json:"dial_timeout" yaml:"dial_timeout"`
		} `json:"redis" yaml:"redis"`
		SQLite struct {
			Path string `json:"path" yaml:"path"`
		} `json:"sqlite" yaml:"sqlite"`
	} `json:"storage" yaml:"storage"`
}

// envOverrides lists the environment variables ApplyEnv honours.
type envOverrides struct {
	Addr       string        `env:"RETRACE_ADDR"`
	Storage    string        `env:"RETRACE_STORAGE"`
	StorageDir string        `env:"RETRACE_STORAGE_DIR"`
	RedisAddr  string        `env:"RETRACE_REDIS_ADDR"`
	SQLitePath string        `env:"RETRACE_SQLITE_PATH"`
	Interval   time.Duration `env:"RETRACE_INTERVAL"`
}

// ApplyEnv overrides cfg with any RETRACE_* environment variables that are
// set. It sits between the config file and command line flags.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.Storage != "" {
		cfg.Storage.Backend = o.Storage
	}
	if o.StorageDir != "" {
		cfg.Storage.File.Dir = o.StorageDir
	}
	if o.RedisAddr != "" {
		host, portStr, err := net.SplitHostPort(o.RedisAddr)
		if err != nil {
			return fmt.Errorf("RETRACE_REDIS_ADDR: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("RETRACE_REDIS_ADDR: invalid port %q", portStr)
		}
		cfg.Storage.Redis.Host = host
		cfg.Storage.Redis.Port = port
	}
	if o.SQLitePath != "" {
		cfg.Storage.SQLite.Path = o.SQLitePath
	}
	if o.Interval != 0 {
		cfg.Recording.Interval = o.Interval
	}
	return nil
}

const exampleJSON = `{
  "server": {
    "addr": ":8080"
  },
  "recording": {
    "interval": "500ms"
  },
  "replay": {
    "name": "save_1",
    "speed": 1
  },
  "loop": {
    "frame": "16ms"
  },
  "storage": {
    "backend": "file",
    "file": {
      "dir": "saves"
    },
    "redis": {
      "host": "localhost",
      "port": 6379,
      "pool_size": 20,
      "max_retries": 3,
      "dial_timeout": "5s"
    },
    "sqlite": {
      "path": "retrace.db"
    }
  }
}
`

const exampleYAML = `server:
  addr: ":8080"
recording:
  interval: 500ms
replay:
  name: save_1
  speed: 1
loop:
  frame: 16ms
storage:
  backend: file
  file:
    dir: saves
  redis:
    host: localhost
    port: 6379
    pool_size: 20
    max_retries: 3
    dial_timeout: 5s
  sqlite:
    path: retrace.db
`

// WriteExample writes an example config file to the given path, as YAML
// when the extension asks for it and JSON otherwise.
func WriteExample(path string) error {
	example := exampleJSON
	if isYAML(path) {
		example = exampleYAML
	}
	return os.WriteFile(path, []byte(example), 0o644)
}
