package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	jd "github.com/unkn0wn-root/jsondefaults"
)

// Config holds all dcbench settings. Values come from DefaultConfig, then the
// YAML file, then environment variables, then explicitly set flags.
type Config struct {
	Iterations int    `yaml:"iterations"`
	Objects    int    `yaml:"objects"`
	Members    int    `yaml:"members"`
	Extended   bool   `yaml:"extended"` // add the sonic, go-json and protojson rows
	Binary     bool   `yaml:"binary"`   // add the msgpack and cbor rows
	Baseline   string `yaml:"baseline"`
	Rounds     int    `yaml:"rounds"`
	PauseGC    bool   `yaml:"pause_gc"`

	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects where run reports are kept between rounds.
type StoreConfig struct {
	Kind      string        `yaml:"kind"` // none, ristretto, bigcache or redis
	RedisAddr string        `yaml:"redis_addr"`
	Codec     string        `yaml:"codec"` // msgpack or cbor
	Namespace string        `yaml:"namespace"`
	TTL       time.Duration `yaml:"ttl"`
	MaxDecode int           `yaml:"max_decode"`
}

type LoggingConfig struct {
	Backend string `yaml:"backend"` // zap, logrus or slog
	Verbose bool   `yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		Iterations: 100,
		Objects:    jd.DefaultObjects,
		Members:    jd.DefaultMembers,
		Baseline:   jd.DefaultBaseline,
		Rounds:     1,
		Store: StoreConfig{
			Kind:      "none",
			RedisAddr: "localhost:6379",
			Codec:     "msgpack",
			Namespace: "dcbench",
			TTL:       30 * 24 * time.Hour,
			MaxDecode: 1 << 20,
		},
		Logging: LoggingConfig{Backend: "zap"},
	}
}

// Load loads configuration from a YAML file. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("DCBENCH_REDIS_ADDR"); addr != "" {
		c.Store.RedisAddr = addr
	}
	if kind := os.Getenv("DCBENCH_STORE"); kind != "" {
		c.Store.Kind = kind
	}
}

// applyFlags copies every flag the user set on the command line from f to c.
func (c *Config) applyFlags(fs *pflag.FlagSet, f *Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("iterations", func() { c.Iterations = f.Iterations })
	set("objects", func() { c.Objects = f.Objects })
	set("members", func() { c.Members = f.Members })
	set("extended", func() { c.Extended = f.Extended })
	set("binary", func() { c.Binary = f.Binary })
	set("baseline", func() { c.Baseline = f.Baseline })
	set("rounds", func() { c.Rounds = f.Rounds })
	set("pause-gc", func() { c.PauseGC = f.PauseGC })
	set("store", func() { c.Store.Kind = f.Store.Kind })
	set("redis-addr", func() { c.Store.RedisAddr = f.Store.RedisAddr })
	set("codec", func() { c.Store.Codec = f.Store.Codec })
	set("log", func() { c.Logging.Backend = f.Logging.Backend })
	set("verbose", func() { c.Logging.Verbose = f.Logging.Verbose })
}

func (c *Config) Validate() error {
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if c.Objects < 0 || c.Members < 0 {
		return fmt.Errorf("objects and members must be >= 0, got %d and %d", c.Objects, c.Members)
	}
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be >= 1, got %d", c.Rounds)
	}
	switch c.Store.Kind {
	case "none", "ristretto", "bigcache", "redis":
	default:
		return fmt.Errorf("unknown store %q", c.Store.Kind)
	}
	switch c.Store.Codec {
	case "msgpack", "cbor":
	default:
		return fmt.Errorf("unknown store codec %q", c.Store.Codec)
	}
	if c.Store.Kind == "redis" && c.Store.RedisAddr == "" {
		return fmt.Errorf("store redis needs an address")
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store ttl must be >= 0, got %s", c.Store.TTL)
	}
	switch c.Logging.Backend {
	case "zap", "logrus", "slog":
	default:
		return fmt.Errorf("unknown log backend %q", c.Logging.Backend)
	}
	return nil
}

// Methods returns the rows this configuration benchmarks, in table order.
func (c *Config) Methods() []jd.Method {
	methods := jd.StandardMethods()
	if c.Extended {
		methods = append(methods, jd.ExtendedMethods()...)
	}
	if c.Binary {
		methods = append(methods, jd.BinaryMethods()...)
	}
	return methods
}
