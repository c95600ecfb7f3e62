// Package config loads umlweb settings from defaults, an optional YAML or
// TOML file and UMLWEB_* environment variables, in increasing precedence.
// Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/umlweb/pkg/domain"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Storage selects and configures the blob store behind the project repository.
type Storage struct {
	Driver        string `mapstructure:"driver" validate:"oneof=memory file redis sqlite postgres"`
	Key           string `mapstructure:"key" validate:"required"`
	Path          string `mapstructure:"path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	PostgresDSN   string `mapstructure:"postgres_dsn" validate:"required_if=Driver postgres"`
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption at rest.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// HTTP configures the REST server.
type HTTP struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// CORSOrigins defaults to any origin when empty.
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Log configures the application logger.
type Log struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Pretty bool   `mapstructure:"pretty"`
}

// Config is the complete application configuration.
type Config struct {
	Storage Storage `mapstructure:"storage"`
	HTTP    HTTP    `mapstructure:"http"`
	Log     Log     `mapstructure:"log"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:      DriverFile,
			Key:         domain.DefaultProjectKey,
			Path:        ".umlweb",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "umlweb:",
			SQLitePath:  "umlweb.db",
		},
		HTTP: HTTP{Addr: ":8080"},
		Log:  Log{Level: "info"},
	}
}

// FileNames lists the names Discover looks for, in order.
var FileNames = []string{"umlweb.yaml", "umlweb.yml", "umlweb.toml"}

// Discover returns the first config file found in dir, or "" when there is none.
func Discover(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// env maps UMLWEB_* variables to config keys.
var env = map[string][2]string{
	"UMLWEB_STORAGE_DRIVER":    {"storage", "driver"},
	"UMLWEB_STORAGE_KEY":       {"storage", "key"},
	"UMLWEB_STORAGE_PATH":      {"storage", "path"},
	"UMLWEB_REDIS_ADDR":        {"storage", "redis_addr"},
	"UMLWEB_REDIS_PASSWORD":    {"storage", "redis_password"},
	"UMLWEB_REDIS_DB":          {"storage", "redis_db"},
	"UMLWEB_REDIS_PREFIX":      {"storage", "redis_prefix"},
	"UMLWEB_SQLITE_PATH":       {"storage", "sqlite_path"},
	"UMLWEB_POSTGRES_DSN":      {"storage", "postgres_dsn"},
	"UMLWEB_ENCRYPTION_KEY":    {"storage", "encryption_key"},
	"UMLWEB_HTTP_ADDR":         {"http", "addr"},
	"UMLWEB_HTTP_CORS_ORIGINS": {"http", "cors_origins"},
	"UMLWEB_LOG_LEVEL":         {"log", "level"},
	"UMLWEB_LOG_PRETTY":        {"log", "pretty"},
}

// Load builds the configuration from defaults, the file at path (skipped when
// empty) and the environment as seen through lookup (os.LookupEnv when nil).
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Default()

	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decode(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := decode(fromEnv(lookup), &cfg); err != nil {
		return Config{}, fmt.Errorf("config environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints such as the storage driver name.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return raw, nil
}

func fromEnv(lookup func(string) (string, bool)) map[string]any {
	raw := map[string]any{}
	for name, key := range env {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		section, _ := raw[key[0]].(map[string]any)
		if section == nil {
			section = map[string]any{}
			raw[key[0]] = section
		}
		if key[1] == "cors_origins" {
			section[key[1]] = strings.Split(v, ",")
			continue
		}
		section[key[1]] = v
	}
	return raw
}

// decode merges raw into cfg. Keys absent from raw keep their current value.
func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
