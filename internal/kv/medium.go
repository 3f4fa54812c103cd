// Package kv persists named record tables on a flat key-value medium.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Driver identifies a Medium backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverS3       Driver = "s3"
)

var ErrUnknownDriver = errors.New("unknown kv driver")

// Medium stores opaque values by key. Implementations need not be safe for
// concurrent writers; the table store has a single logical writer.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
	Driver() Driver
}

// Config selects and parameterizes a Medium.
type Config struct {
	Driver Driver

	// Path is the database or document location for the sqlite and file drivers.
	Path string

	// DSN is the postgres connection string.
	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Open constructs the Medium named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Medium, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return OpenFile(cfg.Path)
	case DriverSQLite, "":
		return OpenSQLite(ctx, cfg.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN)
	case DriverRedis:
		return OpenRedis(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	case DriverS3:
		return OpenS3(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// ParseDriver validates a driver name from flags or config.
func ParseDriver(name string) (Driver, error) {
	d := Driver(name)
	switch d {
	case DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis, DriverS3:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDriver, name)
}
