// Package storage persists encoded timelines under a name. Backends only
// move bytes; encoding is the timeline package's job.
package storage

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Storage is a named blob store for recorded timelines.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Save stores data under name, replacing any previous value.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns the data stored under name. A missing name or an
	// unreachable backend is reported as timeline.ErrStorageUnavailable.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns all stored names in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend string       `json:"backend" yaml:"backend"`
	File    FileConfig   `json:"file" yaml:"file"`
	Redis   RedisConfig  `json:"redis" yaml:"redis"`
	SQLite  SQLiteConfig `json:"sqlite" yaml:"sqlite"`
}

// FileConfig configures the directory backend.
type FileConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Host         string        `json:"host" yaml:"host"`
	Port         int           `json:"port" yaml:"port"`
	Password     string        `json:"password,omitempty" yaml:"password,omitempty"`
	DB           int           `json:"db" yaml:"db"`
	Cluster      bool          `json:"cluster" yaml:"cluster"`
	ClusterNodes []string      `json:"cluster_nodes,omitempty" yaml:"cluster_nodes,omitempty"`
	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	MaxRetries   int           `json:"max_retries" yaml:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path"`
}

// Open constructs the backend named by cfg.Backend.
func Open(cfg Config) (Storage, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStorage(cfg.File.Dir)
	case BackendMemory:
		return NewMemoryStorage(nil), nil
	case BackendRedis:
		return NewRedisStorage(&cfg.Redis)
	case BackendSQLite:
		return NewSQLiteStorage(cfg.SQLite.Path, nil)
	default:
		return nil, fmt.Errorf("unknown storage backend %q, must be one of: file, memory, redis, sqlite", cfg.Backend)
	}
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName rejects names that could escape a directory or collide with
// backend key syntax.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid timeline name %q", name)
	}
	return nil
}

const slotPrefix = "save_"

// NextName returns the next free save slot, save_1, save_2, ..., one past
// the highest slot already stored.
func NextName(ctx context.Context, s Storage) (string, error) {
	names, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	highest := 0
	for _, name := range names {
		n, err := strconv.Atoi(strings.TrimPrefix(name, slotPrefix))
		if err != nil || !strings.HasPrefix(name, slotPrefix) {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return slotPrefix + strconv.Itoa(highest+1), nil
}

func unavailable(name string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s not found", timeline.ErrStorageUnavailable, name)
	}
	return fmt.Errorf("%w: %s: %v", timeline.ErrStorageUnavailable, name, err)
}
