package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want %q", cfg.Server.Addr, ":8080")
	}
	if cfg.Recording.Interval != 500*time.Millisecond {
		t.Errorf("default interval = %v, want 500ms", cfg.Recording.Interval)
	}
	if cfg.Replay.Name != "save_1" {
		t.Errorf("default replay name = %q, want save_1", cfg.Replay.Name)
	}
	if cfg.Storage.Backend != storage.BackendFile {
		t.Errorf("default storage backend = %q, want file", cfg.Storage.Backend)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestValidate_AllBackends(t *testing.T) {
	for _, backend := range []string{"", "file", "memory", "redis", "sqlite"} {
		cfg := Default()
		cfg.Storage.Backend = backend
		if err := cfg.Validate(); err != nil {
			t.Errorf("backend %q should be valid, got %v", backend, err)
		}
	}
}

func TestValidate_BadInterval(t *testing.T) {
	cfg := Default()
	cfg.Recording.Interval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("interval=0 should be invalid")
	}

	cfg.Recording.Interval = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Error("negative interval should be invalid")
	}
}

func TestValidate_BadFrameAndSpeed(t *testing.T) {
	cfg := Default()
	cfg.Loop.Frame = 0
	if err := cfg.Validate(); err == nil {
		t.Error("frame=0 should be invalid")
	}

	cfg = Default()
	cfg.Replay.Speed = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative speed should be invalid")
	}

	cfg = Default()
	cfg.Replay.Speed = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("speed=0 (instant) should be valid, got %v", err)
	}
}

func TestValidate_BadReplayName(t *testing.T) {
	cfg := Default()
	cfg.Replay.Name = "../etc/passwd"
	if err := cfg.Validate(); err == nil {
		t.Error("path-like replay name should be invalid")
	}
}

func TestValidate_BadStorageBackend(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown storage backend should be invalid")
	}
}

func TestValidate_RedisRequiresHostAndPort(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	cfg.Storage.Redis.Host = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing redis host should be invalid")
	}

	cfg = Default()
	cfg.Storage.Backend = "redis"
	cfg.Storage.Redis.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("non-positive redis port should be invalid")
	}

	cfg = Default()
	cfg.Storage.Backend = "redis"
	cfg.Storage.Redis.Cluster = true
	if err := cfg.Validate(); err == nil {
		t.Error("redis cluster without nodes should be invalid")
	}
}

func TestValidate_SQLiteRequiresPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.SQLite.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing sqlite path should be invalid")
	}
}

func TestLoadFile_Full(t *testing.T) {
	content := `{
  "server": { "addr": ":9090" },
  "recording": { "interval": "250ms" },
  "replay": { "name": "save_3", "speed": 0 },
  "loop": { "frame": "20ms" },
  "storage": {
    "backend": "redis",
    "redis": {
      "host": "127.0.0.1",
      "port": 6380,
      "password": "secret",
      "db": 2,
      "pool_size": 25,
      "max_retries": 5,
      "dial_timeout": "4s"
    }
  }
}`
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(content), 0o644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want %q", cfg.Server.Addr, ":9090")
	}
	if cfg.Recording.Interval != 250*time.Millisecond {
		t.Errorf("interval = %v, want 250ms", cfg.Recording.Interval)
	}
	if cfg.Replay.Name != "save_3" {
		t.Errorf("replay name = %q, want save_3", cfg.Replay.Name)
	}
	if cfg.Replay.Speed != 0 {
		t.Errorf("speed = %v, want 0 (explicit zero must not fall back to default)", cfg.Replay.Speed)
	}
	if cfg.Loop.Frame != 20*time.Millisecond {
		t.Errorf("frame = %v, want 20ms", cfg.Loop.Frame)
	}
	if cfg.Storage.Backend != "redis" {
		t.Errorf("storage backend = %q, want redis", cfg.Storage.Backend)
	}
	if cfg.Storage.Redis.Host != "127.0.0.1" || cfg.Storage.Redis.Port != 6380 {
		t.Errorf("redis endpoint = %s:%d, want 127.0.0.1:6380", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
	}
	if cfg.Storage.Redis.DialTimeout != 4*time.Second {
		t.Errorf("redis dial_timeout = %s, want 4s", cfg.Storage.Redis.DialTimeout)
	}
	if cfg.Storage.Redis.Password != "secret" || cfg.Storage.Redis.DB != 2 {
		t.Errorf("redis auth = %q db %d", cfg.Storage.Redis.Password, cfg.Storage.Redis.DB)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	content := `
recording:
  interval: 1s
storage:
  backend: sqlite
  sqlite:
    path: /tmp/sessions.db
`
	path := filepath.Join(t.TempDir(), "retrace.yaml")
	os.WriteFile(path, []byte(content), 0o644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Recording.Interval != time.Second {
		t.Errorf("interval = %v, want 1s", cfg.Recording.Interval)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/sessions.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadFile_Partial(t *testing.T) {
	content := `{ "recording": { "interval": "2s" } }`
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(content), 0o644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Recording.Interval = 2 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("partial config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"recording":{"interval":"soon"}}`), 0o644)

	if _, err := LoadFile(path); err == nil {
		t.Error("bad duration should fail")
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{not json`), 0o644)

	if _, err := LoadFile(path); err == nil {
		t.Error("invalid JSON should fail")
	}
}

func TestWriteExample_RoundTrip(t *testing.T) {
	for _, name := range []string{"example.json", "example.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := WriteExample(path); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s should be valid, got %v", name, err)
		}
		if cfg.Loop.Frame != 16*time.Millisecond {
			t.Errorf("%s frame = %v, want 16ms", name, cfg.Loop.Frame)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RETRACE_ADDR", ":7070")
	t.Setenv("RETRACE_STORAGE", "redis")
	t.Setenv("RETRACE_REDIS_ADDR", "redis.internal:6390")
	t.Setenv("RETRACE_INTERVAL", "100ms")

	cfg := Default()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.Storage.Backend)
	}
	if cfg.Storage.Redis.Host != "redis.internal" || cfg.Storage.Redis.Port != 6390 {
		t.Errorf("redis = %s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
	}
	if cfg.Recording.Interval != 100*time.Millisecond {
		t.Errorf("interval = %v, want 100ms", cfg.Recording.Interval)
	}
	if cfg.Storage.File.Dir != "saves" {
		t.Errorf("unset RETRACE_STORAGE_DIR changed dir to %q", cfg.Storage.File.Dir)
	}
}

func TestApplyEnv_Errors(t *testing.T) {
	t.Setenv("RETRACE_INTERVAL", "later")
	cfg := Default()
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("bad RETRACE_INTERVAL should fail")
	}

	t.Setenv("RETRACE_INTERVAL", "")
	t.Setenv("RETRACE_REDIS_ADDR", "no-port")
	if err := ApplyEnv(&cfg); err == nil {
		t.Error("RETRACE_REDIS_ADDR without a port should fail")
	}
}
