// Package poolconfig loads pool/connection Options from a YAML document
// using gopkg.in/yaml.v3, rejecting unrecognized keys rather than silently
// ignoring them.
package poolconfig

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"redisconn/internal/connx"
	"redisconn/internal/logger"
	"redisconn/internal/pool"
)

// Options is the enumerated configuration table for a pool of connections,
// plus a MaxOpsPerSecond throttle.
type Options struct {
	Host                  string  `yaml:"host"`
	Port                  int     `yaml:"port"`
	Path                  string  `yaml:"path"`
	Size                  int     `yaml:"size"`
	TimeoutSeconds        float64 `yaml:"timeout"`
	ConnectTimeoutSeconds float64 `yaml:"connect_timeout"`
	ReadTimeoutSeconds    float64 `yaml:"read_timeout"`
	MaxOpsPerSecond       float64 `yaml:"max_ops_per_second"`
}

// Defaults returns 127.0.0.1:6379, size 5, 5s pool acquisition timeout,
// 1s connect/read timeouts, no throughput cap.
func Defaults() Options {
	return Options{
		Host:                  "127.0.0.1",
		Port:                  6379,
		Size:                  5,
		TimeoutSeconds:        5.0,
		ConnectTimeoutSeconds: 1.0,
		ReadTimeoutSeconds:    1.0,
	}
}

// Load decodes Options from r over the Defaults, rejecting unrecognized
// keys: a typo'd key (e.g. "rad_timeout") is a load error rather than a
// silently-ignored no-op. An empty document yields the defaults unchanged.
func Load(r io.Reader) (Options, error) {
	opts := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		if err == io.EOF {
			return opts, nil
		}
		return Options{}, fmt.Errorf("poolconfig: decode: %w", err)
	}
	return opts, nil
}

// LoadFile reads and decodes Options from a YAML file at path.
func LoadFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("poolconfig: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate reports a descriptive error for option combinations that can
// never produce a working pool.
func (o Options) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("poolconfig: size must be positive, got %d", o.Size)
	}
	if o.Path == "" && o.Host == "" {
		return fmt.Errorf("poolconfig: either host or path must be set")
	}
	if o.Path == "" && (o.Port <= 0 || o.Port > 65535) {
		return fmt.Errorf("poolconfig: invalid port %d", o.Port)
	}
	return nil
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return connx.NoTimeout
	}
	return time.Duration(s * float64(time.Second))
}

// ConnectTimeout converts ConnectTimeoutSeconds, treating <= 0 as NoTimeout.
func (o Options) ConnectTimeout() time.Duration { return seconds(o.ConnectTimeoutSeconds) }

// ReadTimeout converts ReadTimeoutSeconds, treating <= 0 as NoTimeout.
func (o Options) ReadTimeout() time.Duration { return seconds(o.ReadTimeoutSeconds) }

// AcquireTimeout converts TimeoutSeconds (the pool acquisition timeout).
func (o Options) AcquireTimeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return pool.DefaultOptions().AcquireTimeout
	}
	return time.Duration(o.TimeoutSeconds * float64(time.Second))
}

// PoolOptions projects Options onto pool.Options.
func (o Options) PoolOptions() pool.Options {
	return pool.Options{
		Size:            o.Size,
		AcquireTimeout:  o.AcquireTimeout(),
		MaxOpsPerSecond: o.MaxOpsPerSecond,
	}
}

// NewFactory builds a pool.Factory dialing per these Options: a Unix socket
// when Path is set (overriding Host/Port), TCP otherwise.
func (o Options) NewFactory(log *logger.Logger) pool.Factory {
	readTimeout := o.ReadTimeout()
	if o.Path != "" {
		path := o.Path
		return func() (*connx.Connection, error) {
			return connx.ConnectLocal(path, readTimeout, log)
		}
	}
	host, port, connectTimeout := o.Host, o.Port, o.ConnectTimeout()
	return func() (*connx.Connection, error) {
		return connx.ConnectTCP(host, port, connectTimeout, readTimeout, log)
	}
}

// NewPool builds a ready-to-use *pool.Pool from Options.
func (o Options) NewPool(log *logger.Logger) *pool.Pool {
	return pool.New(o.NewFactory(log), o.PoolOptions(), log)
}
