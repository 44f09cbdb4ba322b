/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"gopkg.in/yaml.v3"
)

// ByteSize is a size in bytes (e.g. the content limit of a fake stream or the log file rotation size).
// It's decoded from a plain number of bytes or from a human-readable string like "64M" or "64Mi",
// and encoded as a human-readable string.
type ByteSize uint64

// UnmarshalText implements encoding.TextUnmarshaler. It's used by mapstructure.TextUnmarshallerHookFunc.
func (b *ByteSize) UnmarshalText(text []byte) error {
	v := strings.TrimSpace(string(text))
	if num, err := strconv.ParseUint(v, 10, 64); err == nil {
		*b = ByteSize(num)
		return nil
	}
	num, err := bytefmt.ToBytes(trimK8sByteSuffix(v))
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", v, err)
	}
	*b = ByteSize(num)
	return nil
}

// UnmarshalJSON accepts both JSON numbers and strings.
func (b *ByteSize) UnmarshalJSON(data []byte) error {
	return b.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// UnmarshalYAML accepts both YAML integers and strings.
func (b *ByteSize) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid byte size at line %d: scalar is expected", value.Line)
	}
	return b.UnmarshalText([]byte(value.Value))
}

// MarshalText implements encoding.TextMarshaler, so JSON and YAML encoders write the human-readable form.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b ByteSize) String() string {
	return bytefmt.ByteSize(uint64(b))
}
