/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"strings"

	"github.com/acronis/go-fakesocket/config"
)

const cfgDefaultKeyPrefix = "log"

const (
	cfgKeyLevel          = "level"
	cfgKeyFormat         = "format"
	cfgKeyOutput         = "output"
	cfgKeyNoColor        = "nocolor"
	cfgKeyAddCaller      = "addCaller"
	cfgKeyFilePath       = "file.path"
	cfgKeyFileMaxSize    = "file.maxSize"
	cfgKeyFileMaxBackups = "file.maxBackups"
	cfgKeyFileCompress   = "file.compress"
)

const megabyte = 1024 * 1024

// Default and minimal values of the file output.
const (
	DefaultFileMaxSize    config.ByteSize = 100 * megabyte
	MinFileMaxSize        config.ByteSize = megabyte
	DefaultFileMaxBackups                 = 5
)

// Level defines possible values for log levels.
type Level string

// Logging levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format defines possible values for log formats.
type Format string

// Logging formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Output defines possible values for log outputs.
type Output string

// Logging outputs.
const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
	OutputFile   Output = "file"
)

// FileConfig is a configuration of the file output. The file is rotated when it grows over MaxSize.
type FileConfig struct {
	Path       string          `mapstructure:"path" yaml:"path" json:"path"`
	MaxSize    config.ByteSize `mapstructure:"maxSize" yaml:"maxSize" json:"maxSize"`
	MaxBackups int             `mapstructure:"maxBackups" yaml:"maxBackups" json:"maxBackups"`
	Compress   bool            `mapstructure:"compress" yaml:"compress" json:"compress"`
}

// Config represents a set of configuration parameters for logging.
//
// Example of YAML:
//
//	log:
//	  level: debug
//	  output: file
//	  file:
//	    path: /var/log/fakesocket.log
//	    maxSize: 10M
type Config struct {
	Level   Level      `mapstructure:"level" yaml:"level" json:"level"`
	Format  Format     `mapstructure:"format" yaml:"format" json:"format"`
	Output  Output     `mapstructure:"output" yaml:"output" json:"output"`
	NoColor bool       `mapstructure:"nocolor" yaml:"nocolor" json:"nocolor"`
	File    FileConfig `mapstructure:"file" yaml:"file" json:"file"`

	// AddCaller determines whether the caller (in package/file:line format) will be added to each logged message.
	AddCaller bool `mapstructure:"addCaller" yaml:"addCaller" json:"addCaller"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config with the given key prefix ("log" if empty).
func NewConfig(keyPrefix string) *Config {
	return &Config{keyPrefix: keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  LevelInfo,
		Format: FormatJSON,
		Output: OutputStdout,
		File:   FileConfig{MaxSize: DefaultFileMaxSize, MaxBackups: DefaultFileMaxBackups},
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for logger in config.DataProvider.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	def := NewDefaultConfig()
	dp.SetDefault(cfgKeyLevel, string(def.Level))
	dp.SetDefault(cfgKeyFormat, string(def.Format))
	dp.SetDefault(cfgKeyOutput, string(def.Output))
	dp.SetDefault(cfgKeyFileMaxSize, def.File.MaxSize.String())
	dp.SetDefault(cfgKeyFileMaxBackups, def.File.MaxBackups)
}

// Set sets logger configuration values from config.DataProvider.
func (c *Config) Set(dp config.DataProvider) error {
	level, err := getLowerStringFromSet(dp, cfgKeyLevel, LevelError, LevelWarn, LevelInfo, LevelDebug)
	if err != nil {
		return err
	}
	c.Level = Level(level)

	format, err := getLowerStringFromSet(dp, cfgKeyFormat, FormatJSON, FormatText)
	if err != nil {
		return err
	}
	c.Format = Format(format)

	output, err := getLowerStringFromSet(dp, cfgKeyOutput, OutputStdout, OutputStderr, OutputFile)
	if err != nil {
		return err
	}
	c.Output = Output(output)

	if c.NoColor, err = dp.GetBool(cfgKeyNoColor); err != nil {
		return err
	}
	if c.AddCaller, err = dp.GetBool(cfgKeyAddCaller); err != nil {
		return err
	}
	return c.setFile(dp)
}

func (c *Config) setFile(dp config.DataProvider) error {
	var err error
	if c.File.Path, err = dp.GetString(cfgKeyFilePath); err != nil {
		return err
	}
	if c.File.Path == "" && c.Output == OutputFile {
		return dp.WrapKeyErr(cfgKeyFilePath, fmt.Errorf("cannot be empty when %q output is used", OutputFile))
	}

	maxSize, err := dp.GetSizeInBytes(cfgKeyFileMaxSize)
	if err != nil {
		return err
	}
	if c.File.MaxSize = config.ByteSize(maxSize); c.File.MaxSize < MinFileMaxSize {
		return dp.WrapKeyErr(cfgKeyFileMaxSize, fmt.Errorf("should be >= %s", MinFileMaxSize))
	}

	if c.File.MaxBackups, err = dp.GetInt(cfgKeyFileMaxBackups); err != nil {
		return err
	}
	if c.File.MaxBackups < 0 {
		return dp.WrapKeyErr(cfgKeyFileMaxBackups, fmt.Errorf("should be >= 0"))
	}

	c.File.Compress, err = dp.GetBool(cfgKeyFileCompress)
	return err
}

func getLowerStringFromSet[T ~string](dp config.DataProvider, key string, values ...T) (string, error) {
	set := make([]string, 0, len(values))
	for _, v := range values {
		set = append(set, string(v))
	}
	s, err := dp.GetStringFromSet(key, set, true)
	return strings.ToLower(s), err
}
