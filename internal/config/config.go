package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a single mirroring run.
type Config struct {
	// Path is the CertificateRevocation directory that receives versions.
	Path string `yaml:"path" mapstructure:"path"`
	// Keep is how many of the most recent versions survive pruning.
	Keep int `yaml:"keep" mapstructure:"keep"`
	// Timeout bounds every HTTP request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// LogLevel is the minimum level written by the logger.
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// UserAgent is sent with every HTTP request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Descriptor describes the upstream component.
	Descriptor Descriptor `yaml:"descriptor" mapstructure:"descriptor"`
}

const (
	// DefaultConfigFilename is the optional settings file looked up in the working directory.
	DefaultConfigFilename = "crlset-mirror.yaml"

	// EnvPrefix prefixes environment overrides, e.g. CRLSET_MIRROR_PATH.
	EnvPrefix = "CRLSET_MIRROR"

	// DefaultKeep is the number of versions retained after pruning.
	DefaultKeep = 2

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultUserAgent is sent with every HTTP request.
	DefaultUserAgent = "crlset-mirror"

	// DefaultFilePermissions is the permission for saved settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadKeep is returned when fewer than one version would be retained.
	errBadKeep = errors.New("keep must be at least 1")
)

// Default returns settings with every default applied and no root path.
func Default() *Config {
	return &Config{
		Keep:       DefaultKeep,
		Timeout:    DefaultTimeout,
		LogLevel:   DefaultLogLevel,
		UserAgent:  DefaultUserAgent,
		Descriptor: DefaultDescriptor(),
	}
}

// Load builds settings from defaults, the optional YAML file at path and
// CRLSET_MIRROR_* environment variables, in increasing priority.
// A missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, Default())

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	v.SetConfigFile(filepath.Clean(path))

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and rejects invalid values.
// The root path is checked separately by ValidateRoot.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Keep == 0 {
		cfg.Keep = DefaultKeep
	}

	if cfg.Keep < 1 {
		return errBadKeep
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Descriptor == (Descriptor{}) {
		cfg.Descriptor = DefaultDescriptor()
	}

	if err := cfg.Descriptor.Validate(); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}

	return nil
}

// setDefaults registers every key so environment overrides work without a file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("path", cfg.Path)
	v.SetDefault("keep", cfg.Keep)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("descriptor.app_id", cfg.Descriptor.AppID)
	v.SetDefault("descriptor.update_url", cfg.Descriptor.UpdateURL)
	v.SetDefault("descriptor.namespace", cfg.Descriptor.Namespace)
	v.SetDefault("descriptor.accept_format", cfg.Descriptor.AcceptFormat)
	v.SetDefault("descriptor.tag", cfg.Descriptor.Tag)
	v.SetDefault("descriptor.magic", cfg.Descriptor.Magic)
	v.SetDefault("descriptor.header_length", cfg.Descriptor.HeaderLength)
}
