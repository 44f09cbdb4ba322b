/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"fmt"

	"github.com/acronis/go-fakesocket/config"
)

const cfgDefaultKeyPrefix = "throttle"

const (
	cfgKeyReadLimit  = "read.limit"
	cfgKeyReadAfter  = "read.after"
	cfgKeyReadEvery  = "read.every"
	cfgKeyWriteLimit = "write.limit"
	cfgKeyWriteAfter = "write.after"
	cfgKeyWriteEvery = "write.every"
)

// DirectionConfig represents throttling parameters for one direction (read or write).
type DirectionConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit" json:"limit"`
	After int `mapstructure:"after" yaml:"after" json:"after"`
	Every int `mapstructure:"every" yaml:"every" json:"every"`
}

// Config represents a set of configuration parameters for throttling.
// Configuration can be loaded in different formats (YAML, JSON) using config.Loader.
//
// Example of YAML:
//
//	throttle:
//	  read:
//	    limit: 10
//	    every: 2
//	  write:
//	    after: 1
type Config struct {
	Read  DirectionConfig `mapstructure:"read" yaml:"read" json:"read"`
	Write DirectionConfig `mapstructure:"write" yaml:"write" json:"write"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix ("throttle" if empty).
func NewConfig(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewConfigFromPolicy creates a new instance of the Config filled with the given policy values.
func NewConfigFromPolicy(p Policy) *Config {
	return &Config{
		Read:  DirectionConfig{Limit: p.ReadLimit, After: p.ReadAfter, Every: p.ReadEvery},
		Write: DirectionConfig{Limit: p.WriteLimit, After: p.WriteAfter, Every: p.WriteEvery},
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for throttling in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	def := DefaultPolicy()
	dp.SetDefault(cfgKeyReadLimit, def.ReadLimit)
	dp.SetDefault(cfgKeyReadAfter, def.ReadAfter)
	dp.SetDefault(cfgKeyReadEvery, def.ReadEvery)
	dp.SetDefault(cfgKeyWriteLimit, def.WriteLimit)
	dp.SetDefault(cfgKeyWriteAfter, def.WriteAfter)
	dp.SetDefault(cfgKeyWriteEvery, def.WriteEvery)
}

// Set sets throttling configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	var err error
	if c.Read, err = getDirectionConfig(dp, cfgKeyReadLimit, cfgKeyReadAfter, cfgKeyReadEvery); err != nil {
		return err
	}
	if c.Write, err = getDirectionConfig(dp, cfgKeyWriteLimit, cfgKeyWriteAfter, cfgKeyWriteEvery); err != nil {
		return err
	}
	return nil
}

func getDirectionConfig(dp config.DataProvider, limitKey, afterKey, everyKey string) (DirectionConfig, error) {
	var dc DirectionConfig
	var err error

	if dc.Limit, err = dp.GetInt(limitKey); err != nil {
		return dc, err
	}
	if dc.Limit < Unlimited {
		return dc, dp.WrapKeyErr(limitKey, fmt.Errorf("should be >= %d", Unlimited))
	}

	if dc.After, err = dp.GetInt(afterKey); err != nil {
		return dc, err
	}
	if dc.After < 0 {
		return dc, dp.WrapKeyErr(afterKey, fmt.Errorf("should be >= 0"))
	}

	if dc.Every, err = dp.GetInt(everyKey); err != nil {
		return dc, err
	}
	if dc.Every < 1 {
		dc.Every = 1
	}
	return dc, nil
}

// Policy returns the throttling policy described by the configuration.
func (c *Config) Policy() Policy {
	return Policy{
		ReadLimit:  c.Read.Limit,
		ReadAfter:  c.Read.After,
		ReadEvery:  c.Read.Every,
		WriteLimit: c.Write.Limit,
		WriteAfter: c.Write.After,
		WriteEvery: c.Write.Every,
	}.Normalize()
}
