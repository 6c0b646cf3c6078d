package cli

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Retrace/internal/config"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
)

// sessionOptions are the flags shared by every command that touches
// stored timelines. Values come from defaults, then the --config file,
// then RETRACE_* variables, then flags the user actually set.
type sessionOptions struct {
	configPath        string
	backend           string
	dir               string
	redisHost         string
	redisPort         int
	redisPassword     string
	redisDB           int
	redisCluster      bool
	redisClusterNodes []string
	redisPoolSize     int
	redisMaxRetries   int
	redisDialTimeout  time.Duration
	sqlitePath        string
	interval          time.Duration
}

func (o *sessionOptions) addFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().StringVar(&o.configPath, "config", "", "path to JSON or YAML config file")
	cmd.Flags().StringVar(&o.backend, "storage", def.Storage.Backend, "storage backend (file, memory, redis, sqlite)")
	cmd.Flags().StringVar(&o.dir, "storage-dir", def.Storage.File.Dir, "directory for the file storage backend")
	cmd.Flags().StringVar(&o.redisHost, "redis-host", def.Storage.Redis.Host, "redis host (or host:port)")
	cmd.Flags().IntVar(&o.redisPort, "redis-port", def.Storage.Redis.Port, "redis port")
	cmd.Flags().StringVar(&o.redisPassword, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&o.redisDB, "redis-db", 0, "redis database index")
	cmd.Flags().BoolVar(&o.redisCluster, "redis-cluster", false, "enable redis cluster mode")
	cmd.Flags().StringSliceVar(&o.redisClusterNodes, "redis-cluster-nodes", nil, "redis cluster nodes host:port list")
	cmd.Flags().IntVar(&o.redisPoolSize, "redis-pool-size", def.Storage.Redis.PoolSize, "redis connection pool size")
	cmd.Flags().IntVar(&o.redisMaxRetries, "redis-max-retries", def.Storage.Redis.MaxRetries, "redis max retries")
	cmd.Flags().DurationVar(&o.redisDialTimeout, "redis-dial-timeout", def.Storage.Redis.DialTimeout, "redis dial timeout")
	cmd.Flags().StringVar(&o.sqlitePath, "sqlite-path", def.Storage.SQLite.Path, "database file for the sqlite storage backend")
	cmd.Flags().DurationVar(&o.interval, "interval", def.Recording.Interval, "sampling interval")
}

// load resolves the effective configuration for cmd.
func (o *sessionOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.LoadFile(o.configPath)
		if err != nil {
			return cfg, err
		}
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	o.applyFlags(cmd, &cfg)

	if cfg.Storage.Backend == storage.BackendRedis && !cfg.Storage.Redis.Cluster {
		host, port, err := normalizeRedisHostPort(cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
		if err != nil {
			return cfg, err
		}
		cfg.Storage.Redis.Host = host
		cfg.Storage.Redis.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (o *sessionOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("storage") {
		cfg.Storage.Backend = o.backend
	}
	if changed("storage-dir") {
		cfg.Storage.File.Dir = o.dir
	}
	r := &cfg.Storage.Redis
	if changed("redis-host") {
		r.Host = o.redisHost
	}
	if changed("redis-port") {
		r.Port = o.redisPort
	}
	if changed("redis-password") {
		r.Password = o.redisPassword
	}
	if changed("redis-db") {
		r.DB = o.redisDB
	}
	if changed("redis-cluster") {
		r.Cluster = o.redisCluster
	}
	if changed("redis-cluster-nodes") {
		r.ClusterNodes = append([]string(nil), o.redisClusterNodes...)
	}
	if changed("redis-pool-size") {
		r.PoolSize = o.redisPoolSize
	}
	if changed("redis-max-retries") {
		r.MaxRetries = o.redisMaxRetries
	}
	if changed("redis-dial-timeout") {
		r.DialTimeout = o.redisDialTimeout
	}
	if changed("sqlite-path") {
		cfg.Storage.SQLite.Path = o.sqlitePath
	}
	if changed("interval") {
		cfg.Recording.Interval = o.interval
	}
}

func normalizeRedisHostPort(host string, port int) (string, int, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", 0, fmt.Errorf("invalid --redis-host value %q: %w", host, err)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", 0, fmt.Errorf("invalid redis port in --redis-host %q: %w", host, err)
		}
		host = h
		port = n
	}

	if host == "" {
		return "", 0, fmt.Errorf("redis host cannot be empty")
	}
	if port <= 0 {
		return "", 0, fmt.Errorf("redis port must be positive, got %d", port)
	}

	return host, port, nil
}
