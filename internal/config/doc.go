// Package config defines runtime settings for crlset-mirror.
//
// It exposes the immutable application Descriptor describing the upstream
// component, YAML/env loading via viper, saving via yaml.v3, validation of
// the settings, and validation of the target root directory.
package config
