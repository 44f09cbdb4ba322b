/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package stream provides fake byte streams that may be registered under a custom URL scheme
// and opened by a connection string (DSN) instead of a real socket or file.
//
// Buffer is an in-memory seekable stream which applies a throttling policy (see throttle package)
// decoded from the DSN query on every read and write attempt. It allows tests to simulate
// partial reads and writes, short-lived connections, write failures after N operations
// or periodic ("every Nth call") success patterns.
package stream

import (
	"errors"
	"fmt"
	"io"
	"reflect"
)

// Option is a stream option that may be passed to Stream.SetOption.
type Option int

// Stream options. They mirror options of real sockets, fake streams are free to ignore them.
const (
	OptionBlocking Option = iota + 1
	OptionReadTimeout
	OptionWriteBuffer
	OptionReadBuffer
)

// StatInfo is a stat record of the stream. An empty record means that no stat information is available.
type StatInfo map[string]int64

// Stream is a set of capabilities that a fake stream type must implement to be registered under a protocol.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Open initializes the stream from the connection string it was opened with.
	Open(dsn string) error
	// Tell returns the current position of the cursor.
	Tell() int64
	// EOF reports whether the cursor is at or past the end of the content.
	EOF() bool
	// Truncate changes the size of the content.
	Truncate(size int64) error
	// SetOption sets a stream option.
	SetOption(option Option, arg1, arg2 int) error
	// Stat returns the stat record of the stream.
	Stat() StatInfo
}

// Factory creates a fresh (not opened yet) stream instance.
type Factory func() Stream

var streamInterfaceType = reflect.TypeOf((*Stream)(nil)).Elem()

// FactoryOf returns a factory for the given stream type.
// The stream type may be specified as:
//   - Factory or func() Stream;
//   - reflect.Type of a struct type (or a pointer to it) whose pointer implements Stream;
//   - a prototype value of such type (e.g. (*Buffer)(nil) or Buffer{}), only its type is used.
//
// ErrInvalidStreamType is returned if the type doesn't implement Stream.
func FactoryOf(streamType interface{}) (Factory, error) {
	switch v := streamType.(type) {
	case nil:
		return nil, fmt.Errorf("%w: <nil>", ErrInvalidStreamType)
	case Factory:
		if v == nil {
			return nil, fmt.Errorf("%w: nil factory", ErrInvalidStreamType)
		}
		return v, nil
	case func() Stream:
		if v == nil {
			return nil, fmt.Errorf("%w: nil factory", ErrInvalidStreamType)
		}
		return v, nil
	case reflect.Type:
		return factoryOfType(v)
	default:
		return factoryOfType(reflect.TypeOf(streamType))
	}
}

func factoryOfType(t reflect.Type) (Factory, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrInvalidStreamType)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || !reflect.PtrTo(t).Implements(streamInterfaceType) {
		return nil, fmt.Errorf("%w: %s must implement %s", ErrInvalidStreamType, t, streamInterfaceType)
	}
	return func() Stream {
		return reflect.New(t).Interface().(Stream)
	}, nil
}

// Errors returned by streams.
var (
	// ErrRejected is returned when a read or write attempt is declined by the throttling policy.
	// It's a normal, expected outcome and not a failure of the stream.
	ErrRejected = errors.New("operation rejected by throttling policy")

	ErrClosed           = errors.New("stream is closed")
	ErrNegativePosition = errors.New("negative position")
	ErrInvalidWhence    = errors.New("invalid whence")
	ErrNegativeSize     = errors.New("negative size")
	ErrSizeTooLarge     = errors.New("size exceeds the buffer limit")
	ErrInvalidDSN       = errors.New("invalid connection string")

	// ErrInvalidStreamType is returned when a stream type doesn't implement Stream.
	ErrInvalidStreamType = errors.New("invalid stream type")
)
