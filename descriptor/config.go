/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package descriptor

import (
	"fmt"
	"math"

	"github.com/acronis/go-fakesocket/config"
	"github.com/acronis/go-fakesocket/log"
	"github.com/acronis/go-fakesocket/stream"
	"github.com/acronis/go-fakesocket/throttle"
)

const cfgDefaultKeyPrefix = "fakesocket"

const (
	cfgKeyProtocol = "protocol"
	cfgKeyHost     = "host"
	cfgKeyPort     = "port"
	cfgKeyMaxSize  = "maxSize"
)

// Config represents a set of configuration parameters of a fake stream descriptor.
// Configuration can be loaded in different formats (YAML, JSON) using config.Loader.
//
// Example of YAML:
//
//	fakesocket:
//	  protocol: fake
//	  host: buffer
//	  port: 9200
//	  maxSize: 64M
//	  throttle:
//	    write:
//	      limit: 1
//	  log:
//	    level: debug
//	    output: file
//	    file:
//	      path: /var/log/fakesocket.log
type Config struct {
	Protocol string           `mapstructure:"protocol" yaml:"protocol" json:"protocol"`
	Host     string           `mapstructure:"host" yaml:"host" json:"host"`
	Port     int              `mapstructure:"port" yaml:"port" json:"port"`
	MaxSize  config.ByteSize  `mapstructure:"maxSize" yaml:"maxSize" json:"maxSize"`
	Throttle *throttle.Config `mapstructure:"throttle" yaml:"throttle" json:"throttle"`
	Log      *log.Config      `mapstructure:"log" yaml:"log" json:"log"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix ("fakesocket" if empty).
func NewConfig(keyPrefix string) *Config {
	return &Config{Throttle: throttle.NewConfig(""), Log: log.NewConfig(""), keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Protocol: DefaultProtocol,
		Host:     "localhost",
		MaxSize:  stream.DefaultMaxSize,
		Throttle: throttle.NewConfigFromPolicy(throttle.DefaultPolicy()),
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for the descriptor in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyProtocol, DefaultProtocol)
	dp.SetDefault(cfgKeyHost, "localhost")
	dp.SetDefault(cfgKeyPort, 0)
	dp.SetDefault(cfgKeyMaxSize, stream.DefaultMaxSize.String())
	config.CallSetProviderDefaultsForFields(c, dp)
}

// Set sets descriptor configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Protocol, err = dp.GetString(cfgKeyProtocol); err != nil {
		return err
	}
	if c.Protocol == "" {
		return dp.WrapKeyErr(cfgKeyProtocol, ErrInvalidDataSource)
	}
	if c.Host, err = dp.GetString(cfgKeyHost); err != nil {
		return err
	}
	if c.Host == "" {
		return dp.WrapKeyErr(cfgKeyHost, ErrInvalidDataSource)
	}
	if c.Port, err = dp.GetInt(cfgKeyPort); err != nil {
		return err
	}
	if c.Port != 0 && (c.Port < MinPort || c.Port > MaxPort) {
		return dp.WrapKeyErr(cfgKeyPort, &PortRangeError{Port: c.Port, Min: MinPort, Max: MaxPort})
	}
	maxSize, err := dp.GetSizeInBytes(cfgKeyMaxSize)
	if err != nil {
		return err
	}
	if c.MaxSize = config.ByteSize(maxSize); c.MaxSize == 0 || c.MaxSize > math.MaxInt64 {
		return dp.WrapKeyErr(cfgKeyMaxSize, fmt.Errorf("should be in the range from 1 to %d", int64(math.MaxInt64)))
	}
	return config.CallSetForFields(c, dp)
}

// NewLogger creates the logger described by the log section of the configuration.
// If the section is absent, the logger is disabled. CloseFunc must be called to flush written entries.
func (c *Config) NewLogger() (log.FieldLogger, log.CloseFunc) {
	if c.Log == nil {
		return log.NewDisabledLogger(), func() {}
	}
	return log.NewLogger(c.Log, log.String("protocol", c.Protocol))
}

// FromConfig creates a new Builder for stream.Buffer from the configuration.
// Streams opened by the registered builder are created with opts, the MaxSize of the configuration
// is used if opts.MaxSize is zero.
func FromConfig(cfg *Config, opts stream.BufferOptions) (*Builder, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrInvalidDataSource)
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = cfg.MaxSize
	}
	b, err := New(stream.NewBufferFactory(opts))
	if err != nil {
		return nil, err
	}
	b = b.WithHost(cfg.Host)
	if cfg.Protocol != "" {
		b = b.WithProtocol(cfg.Protocol)
	}
	if cfg.Port != 0 {
		if b, err = b.WithPort(cfg.Port); err != nil {
			return nil, err
		}
	}
	if cfg.Throttle != nil {
		b = b.WithPolicy(cfg.Throttle.Policy())
	}
	return b, nil
}
