// Package storage exposes the timeline storage backends.
package storage

import (
	"context"

	internalstorage "github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/pkg/clock"
)

// Storage is a named blob store for recorded timelines.
type Storage = internalstorage.Storage

// Config selects and configures a backend.
type Config = internalstorage.Config

// FileConfig configures the directory backend.
type FileConfig = internalstorage.FileConfig

// RedisConfig configures the Redis backend.
type RedisConfig = internalstorage.RedisConfig

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig = internalstorage.SQLiteConfig

// FileStorage keeps one <name>.json file per timeline in a directory.
type FileStorage = internalstorage.FileStorage

// MemoryStorage keeps timelines in process memory.
type MemoryStorage = internalstorage.MemoryStorage

// RedisStorage keeps timelines in Redis.
type RedisStorage = internalstorage.RedisStorage

// SQLiteStorage keeps timelines in a SQLite database.
type SQLiteStorage = internalstorage.SQLiteStorage

const (
	BackendFile   = internalstorage.BackendFile
	BackendMemory = internalstorage.BackendMemory
	BackendRedis  = internalstorage.BackendRedis
	BackendSQLite = internalstorage.BackendSQLite
)

// Open constructs the backend named by cfg.Backend.
func Open(cfg Config) (Storage, error) {
	return internalstorage.Open(cfg)
}

// NewFileStorage creates a file backend rooted at dir.
func NewFileStorage(dir string) (*FileStorage, error) {
	return internalstorage.NewFileStorage(dir)
}

// NewMemoryStorage creates an in-memory backend stamping saves with c.
func NewMemoryStorage(c clock.Clock) *MemoryStorage {
	return internalstorage.NewMemoryStorage(c)
}

// NewRedisStorage connects to Redis.
func NewRedisStorage(cfg *RedisConfig) (*RedisStorage, error) {
	return internalstorage.NewRedisStorage(cfg)
}

// NewSQLiteStorage opens or creates the database at path, stamping saves
// with c.
func NewSQLiteStorage(path string, c clock.Clock) (*SQLiteStorage, error) {
	return internalstorage.NewSQLiteStorage(path, c)
}

// ValidateName rejects names that are unsafe as timeline keys.
func ValidateName(name string) error {
	return internalstorage.ValidateName(name)
}

// NextName returns the next free save_<n> slot in s.
func NextName(ctx context.Context, s Storage) (string, error) {
	return internalstorage.NextName(ctx, s)
}
