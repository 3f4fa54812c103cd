// Package config loads neuroflow settings from an optional YAML file with
// NEUROFLOW_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/neuroflow/internal/constants"
	"github.com/julianstephens/neuroflow/internal/keyring"
	"github.com/julianstephens/neuroflow/internal/kv"
	"github.com/julianstephens/neuroflow/internal/logger"
	"github.com/julianstephens/neuroflow/internal/utils"
)

// ErrEmbeddedCredentials rejects config files whose postgres DSN carries a
// password. The env var and keyring may hold one.
var ErrEmbeddedCredentials = errors.New("postgres connection strings must not embed a password")

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`

	// Password only comes from NEUROFLOW_REDIS_PASSWORD or the keyring.
	Password string `yaml:"-"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type StorageConfig struct {
	Driver string      `yaml:"driver"`
	Path   string      `yaml:"path"`
	DSN    string      `yaml:"dsn"`
	Prefix string      `yaml:"prefix"`
	Redis  RedisConfig `yaml:"redis"`
	S3     S3Config    `yaml:"s3"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type Config struct {
	Storage     StorageConfig `yaml:"storage"`
	UserID      string        `yaml:"user_id"`
	Timezone    string        `yaml:"timezone"`
	MetricsAddr string        `yaml:"metrics_addr"`
	Log         LogConfig     `yaml:"log"`
}

// Default returns the settings used when no file or env var says otherwise.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver: string(kv.DriverSQLite),
			Path:   constants.DefaultDataPath,
			Prefix: constants.TablePrefix,
		},
		Timezone: constants.DefaultTimezone,
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return cfg, err
		}
		data, err := os.ReadFile(expanded)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to decode %s: %w", expanded, err)
			}
			if HasEmbeddedCredentials(cfg.Storage.DSN) {
				return cfg, ErrEmbeddedCredentials
			}
		}
	}

	overrideFromEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func (c Config) Save(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(expanded, data, 0o600)
}

func overrideFromEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("NEUROFLOW_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := getenv("NEUROFLOW_DATA"); v != "" {
		cfg.Storage.Path = v
	}
	if v := getenv("NEUROFLOW_DB_CONNECTION"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := getenv("NEUROFLOW_TABLE_PREFIX"); v != "" {
		cfg.Storage.Prefix = v
	}
	if v := getenv("NEUROFLOW_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
	if v := getenv("NEUROFLOW_REDIS_PASSWORD"); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := getenv("NEUROFLOW_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Storage.Redis.DB = db
		}
	}
	if v := getenv("NEUROFLOW_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := getenv("NEUROFLOW_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := getenv("NEUROFLOW_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := getenv("NEUROFLOW_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.S3.PathStyle = b
		}
	}
	if v := getenv("NEUROFLOW_USER"); v != "" {
		cfg.UserID = v
	}
	if v := getenv("NEUROFLOW_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := getenv("NEUROFLOW_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := getenv("NEUROFLOW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c Config) Validate() error {
	if _, err := kv.ParseDriver(c.Storage.Driver); err != nil {
		return err
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	return nil
}

// SecretFunc looks up a keyring secret by account name.
type SecretFunc func(account string) (string, error)

// Medium resolves the kv configuration. Secrets that must not live in the
// file (postgres DSN, redis password) are read through secret.
func (c Config) Medium(secret SecretFunc) (kv.Config, error) {
	driver, err := kv.ParseDriver(c.Storage.Driver)
	if err != nil {
		return kv.Config{}, err
	}
	if secret == nil {
		secret = keyring.Get
	}

	out := kv.Config{
		Driver:      driver,
		DSN:         c.Storage.DSN,
		RedisAddr:   c.Storage.Redis.Addr,
		RedisDB:     c.Storage.Redis.DB,
		S3Bucket:    c.Storage.S3.Bucket,
		S3Region:    c.Storage.S3.Region,
		S3Endpoint:  c.Storage.S3.Endpoint,
		S3PathStyle: c.Storage.S3.PathStyle,
	}

	switch driver {
	case kv.DriverSQLite, kv.DriverFile:
		path := c.Storage.Path
		if driver == kv.DriverFile && path == constants.DefaultDataPath {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		}
		if out.Path, err = ExpandPath(path); err != nil {
			return kv.Config{}, err
		}
	case kv.DriverPostgres:
		if out.DSN == "" {
			dsn, err := secret(constants.DefaultKeyringUser)
			if err != nil {
				return kv.Config{}, fmt.Errorf("no postgres connection string in config, env or keyring: %w", err)
			}
			out.DSN = dsn
		}
	case kv.DriverRedis:
		if c.Storage.Redis.Password != "" {
			out.RedisPassword = c.Storage.Redis.Password
			break
		}
		pw, err := secret(constants.RedisKeyringUser)
		switch {
		case err == nil:
			out.RedisPassword = pw
		case errors.Is(err, keyring.ErrNotFound), errors.Is(err, keyring.ErrKeyringUnavailable):
			logger.Debug("connecting to redis without a password", "reason", err)
		default:
			return kv.Config{}, err
		}
	}
	return out, nil
}

// Location returns the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// HasEmbeddedCredentials reports whether a postgres URL carries a password.
func HasEmbeddedCredentials(dsn string) bool {
	if dsn == "" {
		return false
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return strings.Contains(dsn, "password=")
	}
	_, ok := u.User.Password()
	return ok
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
