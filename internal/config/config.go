// Package config loads ls-starmap settings from defaults, an optional YAML
// file, a .env file and STARMAP_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-starmap/internal/camera"
	"github.com/litescript/ls-starmap/internal/layout"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "STARMAP_"

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Config is the full application configuration.
type Config struct {
	DataPath string        `yaml:"data"`
	Seed     int64         `yaml:"seed"`
	Style    string        `yaml:"style" validate:"oneof=classic nebula"`
	LogLevel string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string        `yaml:"log_file"`
	Camera   camera.Config `yaml:"camera"`
	Server   ServerConfig  `yaml:"server"`
}

// ServerConfig configures SSH serving mode.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr" validate:"required,hostname_port"`
	HostKeyPath string        `yaml:"host_key" validate:"required"`
	MetricsAddr string        `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	MaxSessions int           `yaml:"max_sessions" validate:"gte=0"`
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:     layout.DefaultSeed,
		Style:    "classic",
		LogLevel: "info",
		Camera:   camera.DefaultConfig(),
		Server: ServerConfig{
			SSHAddr:     ":2222",
			HostKeyPath: ".ssh/starmap_ed25519",
			MetricsAddr: "",
			MaxSessions: 32,
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := cfg.Decode(f); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays YAML from r onto c. Unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Environ returns the STARMAP_* variables from the .env file at dotenvPath
// (if it exists) overlaid with the process environment.
func Environ(dotenvPath string) (map[string]string, error) {
	env := map[string]string{}
	if dotenvPath != "" {
		vals, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		for k, v := range vals {
			if strings.HasPrefix(k, EnvPrefix) {
				env[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overlays environment values onto c. Keys are matched without
// the STARMAP_ prefix; unknown keys are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	for key, val := range env {
		name := strings.TrimPrefix(key, EnvPrefix)
		var err error
		switch name {
		case "DATA":
			c.DataPath = val
		case "SEED":
			c.Seed, err = strconv.ParseInt(val, 10, 64)
		case "STYLE":
			c.Style = strings.ToLower(val)
		case "LOG_LEVEL":
			c.LogLevel = strings.ToLower(val)
		case "LOG_FILE":
			c.LogFile = val
		case "MIN_ZOOM":
			c.Camera.MinZoom, err = strconv.ParseFloat(val, 64)
		case "MAX_ZOOM":
			c.Camera.MaxZoom, err = strconv.ParseFloat(val, 64)
		case "FOCUS_ZOOM":
			c.Camera.FocusZoom, err = strconv.ParseFloat(val, 64)
		case "SSH_ADDR":
			c.Server.SSHAddr = val
		case "HOST_KEY":
			c.Server.HostKeyPath = val
		case "METRICS_ADDR":
			c.Server.MetricsAddr = val
		case "MAX_SESSIONS":
			c.Server.MaxSessions, err = strconv.Atoi(val)
		case "IDLE_TIMEOUT":
			c.Server.IdleTimeout, err = time.ParseDuration(val)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// Validate checks every field and reports the first problem as
// "field: reason".
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to user-friendly messages
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", field, e.Param(), e.Value())
		case "hostname_port":
			return fmt.Errorf("%s: must be host:port, got %q", field, e.Value())
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, e.Param())
		case "lt":
			return fmt.Errorf("%s: must be less than %s", field, e.Param())
		case "lte":
			return fmt.Errorf("%s: must be at most %s", field, e.Param())
		case "gtfield":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
