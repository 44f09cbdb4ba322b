/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package retry

import (
	"errors"
	"strings"
	"time"

	"github.com/acronis/go-fakesocket/config"
)

const cfgDefaultKeyPrefix = "retry"

const (
	cfgKeyBackoff    = "backoff"
	cfgKeyInterval   = "interval"
	cfgKeyMaxRetries = "maxRetries"
)

var errNegative = errors.New("should be >= 0")

// Backoff types.
const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// Config represents a set of configuration parameters for retrying.
//
// Example of YAML:
//
//	retry:
//	  backoff: exponential
//	  interval: 10ms
//	  maxRetries: 5
type Config struct {
	Backoff    string        `mapstructure:"backoff" yaml:"backoff" json:"backoff"`
	Interval   time.Duration `mapstructure:"interval" yaml:"interval" json:"interval"`
	MaxRetries int           `mapstructure:"maxRetries" yaml:"maxRetries" json:"maxRetries"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix ("retry" if empty).
func NewConfig(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for retrying in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyBackoff, BackoffConstant)
	dp.SetDefault(cfgKeyInterval, 0)
	dp.SetDefault(cfgKeyMaxRetries, 10)
}

// Set sets retry configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Backoff, err = dp.GetStringFromSet(cfgKeyBackoff, []string{BackoffConstant, BackoffExponential}, true); err != nil {
		return err
	}
	if c.Interval, err = dp.GetDuration(cfgKeyInterval); err != nil {
		return err
	}
	if c.Interval < 0 {
		return dp.WrapKeyErr(cfgKeyInterval, errNegative)
	}
	if c.MaxRetries, err = dp.GetInt(cfgKeyMaxRetries); err != nil {
		return err
	}
	if c.MaxRetries < 0 {
		return dp.WrapKeyErr(cfgKeyMaxRetries, errNegative)
	}
	return nil
}

// Policy returns the retry policy described by the configuration.
func (c *Config) Policy() Policy {
	if strings.EqualFold(c.Backoff, BackoffExponential) {
		return NewExponentialBackoffPolicy(c.Interval, c.MaxRetries)
	}
	return NewConstantBackoffPolicy(c.Interval, c.MaxRetries)
}
