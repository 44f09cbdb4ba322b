/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package descriptor

import (
	"errors"
	"fmt"

	"github.com/acronis/go-fakesocket/stream"
)

// Port range.
const (
	MinPort = 1
	MaxPort = 65535
)

// Errors returned by Builder.
var (
	// ErrInvalidDataSource is returned when neither host nor path may be extracted from the source string.
	ErrInvalidDataSource = errors.New("host or path are required")

	// ErrInvalidPortRange is returned when the port is out of range [MinPort, MaxPort].
	ErrInvalidPortRange = errors.New("invalid port range")

	// ErrInvalidStreamType is returned when the stream type doesn't implement stream.Stream.
	ErrInvalidStreamType = stream.ErrInvalidStreamType
)

// PortRangeError is returned when the port is out of range. It matches ErrInvalidPortRange with errors.Is.
type PortRangeError struct {
	Port int
	Min  int
	Max  int
}

func (e *PortRangeError) Error() string {
	return fmt.Sprintf("port number %d must be in the range from %d to %d", e.Port, e.Min, e.Max)
}

// Is reports whether the target is ErrInvalidPortRange.
func (e *PortRangeError) Is(target error) bool {
	return target == ErrInvalidPortRange
}
