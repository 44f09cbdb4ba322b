/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package stream

import (
	"fmt"
	"io"
	"math"

	"code.cloudfoundry.org/bytefmt"
	"github.com/rs/xid"

	"github.com/acronis/go-fakesocket/config"
	"github.com/acronis/go-fakesocket/log"
	"github.com/acronis/go-fakesocket/throttle"
)

// DefaultMaxSize is the default upper bound of the buffer content size.
const DefaultMaxSize config.ByteSize = 1 << 30

// BufferOptions represents options for Buffer.
type BufferOptions struct {
	// Logger is used for reporting rejected operations and stream lifecycle (at debug level).
	// If nil, logging is disabled.
	Logger log.FieldLogger

	// MetricsCollector collects statistics of read and write attempts.
	// If nil, metrics are disabled.
	MetricsCollector MetricsCollector

	// MaxSize limits the content size reachable by Write and Truncate.
	// If zero, DefaultMaxSize is used.
	MaxSize config.ByteSize
}

// Buffer is an in-memory seekable stream that applies throttling policy on every read and write attempt.
// The policy is decoded from the query of the connection string passed to Open.
// Buffer is not safe for concurrent use, each opened connection owns its own instance.
type Buffer struct {
	id      xid.ID
	content []byte
	pos     int64

	readAttempts  int
	writeAttempts int

	policy throttle.Policy
	closed bool

	maxSize int64

	logger  log.FieldLogger
	metrics MetricsCollector
}

var _ Stream = (*Buffer)(nil)

// NewBuffer creates a new Buffer with the given options.
// The buffer is usable right away with the default (unlimited) policy, Open may be called to apply another one.
func NewBuffer(opts BufferOptions) *Buffer {
	maxSize := opts.MaxSize
	if maxSize == 0 || maxSize > math.MaxInt64 {
		maxSize = DefaultMaxSize
	}
	return &Buffer{
		id:      xid.New(),
		policy:  throttle.DefaultPolicy(),
		maxSize: int64(maxSize),
		logger:  opts.Logger,
		metrics: opts.MetricsCollector,
	}
}

// NewBufferFactory returns a factory that creates buffers with the given options.
func NewBufferFactory(opts BufferOptions) Factory {
	return func() Stream {
		return NewBuffer(opts)
	}
}

// Open decodes the throttling policy from the DSN query and resets the buffer state.
// Absent policy fields keep their defaults, malformed values are coerced to integers.
func (b *Buffer) Open(dsn string) error {
	if b.closed {
		return ErrClosed
	}
	policy, err := throttle.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidDSN, dsn, err)
	}
	if b.id.IsNil() {
		b.id = xid.New()
	}
	b.policy = policy
	b.content = nil
	b.pos = 0
	b.readAttempts = 0
	b.writeAttempts = 0
	b.log().Debug("fake stream opened", log.String("policy", policy.Encode()))
	return nil
}

// Read reads up to len(p) bytes from the current position.
// The attempt is counted before the throttling policy is evaluated.
// ErrRejected is returned if the policy declines the attempt, io.EOF - if the position is at or past the end.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	b.readAttempts++
	b.metricsCollector().IncReadAttempts()
	if !b.policy.AllowRead(b.readAttempts) {
		b.metricsCollector().IncReadRejections()
		b.log().Debug("fake stream read rejected", log.Int("attempt", b.readAttempts))
		return 0, ErrRejected
	}
	if b.pos >= int64(len(b.content)) {
		return 0, io.EOF
	}
	n := copy(p, b.content[b.pos:])
	b.pos += int64(n)
	b.metricsCollector().AddReadBytes(n)
	return n, nil
}

// Write writes p at the current position.
// The content after the written data is dropped, i.e. everything from the position is replaced by p.
// If the position is past the end, p is appended to the content and the position still advances by len(p).
// Writes growing the content above the buffer limit fail with ErrSizeTooLarge.
// The attempt is counted before the throttling policy is evaluated, ErrRejected is returned if the policy declines it.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	b.writeAttempts++
	b.metricsCollector().IncWriteAttempts()
	if !b.policy.AllowWrite(b.writeAttempts) {
		b.metricsCollector().IncWriteRejections()
		b.log().Debug("fake stream write rejected", log.Int("attempt", b.writeAttempts))
		return 0, ErrRejected
	}
	start := min(b.pos, int64(len(b.content)))
	if start+int64(len(p)) > b.maxSize {
		return 0, fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, start+int64(len(p)), b.maxSize)
	}
	b.content = append(b.content[:start], p...)
	b.pos += int64(len(p))
	b.metricsCollector().AddWrittenBytes(len(p))
	return len(p), nil
}

// Seek sets the position for the next Read or Write.
// Seeking past the end is allowed. Seeking to a negative position fails and doesn't change the position.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	if b.closed {
		return 0, ErrClosed
	}
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = b.pos + offset
	case io.SeekEnd:
		target = int64(len(b.content)) + offset
	default:
		return b.pos, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}
	if target < 0 {
		return b.pos, fmt.Errorf("%w: %d", ErrNegativePosition, target)
	}
	b.pos = target
	return b.pos, nil
}

// Truncate changes the size of the content. The position is not changed.
// If the size is greater than the current one, the content is padded with zero bytes.
// Sizes above the buffer limit (see BufferOptions.MaxSize) fail with ErrSizeTooLarge.
func (b *Buffer) Truncate(size int64) error {
	if b.closed {
		return ErrClosed
	}
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSize, size)
	}
	if size > b.maxSize {
		return fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, size, b.maxSize)
	}
	if n := int64(len(b.content)); size > n {
		b.content = append(b.content, make([]byte, size-n)...)
		return nil
	}
	b.content = b.content[:size]
	return nil
}

// Tell returns the current position.
func (b *Buffer) Tell() int64 {
	return b.pos
}

// EOF reports whether the position is at or past the end of the content.
func (b *Buffer) EOF() bool {
	return b.pos >= int64(len(b.content))
}

// SetOption does nothing, fake stream has no real socket options.
func (b *Buffer) SetOption(option Option, arg1, arg2 int) error {
	return nil
}

// Stat returns an empty record, no metadata is modeled.
func (b *Buffer) Stat() StatInfo {
	return StatInfo{}
}

// Close closes the buffer. Read, Write, Seek and Truncate fail with ErrClosed after that.
func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.log().Debug("fake stream closed",
		log.String("size", bytefmt.ByteSize(uint64(len(b.content)))),
		log.Int("read_attempts", b.readAttempts),
		log.Int("write_attempts", b.writeAttempts),
	)
	return nil
}

// ID returns the unique identifier of the buffer, it's used in logs.
func (b *Buffer) ID() string {
	return b.id.String()
}

// Content returns a copy of the buffer content.
func (b *Buffer) Content() []byte {
	return append([]byte{}, b.content...)
}

// ReadAttempts returns the total number of read attempts (not successes) since the buffer was opened.
func (b *Buffer) ReadAttempts() int {
	return b.readAttempts
}

// WriteAttempts returns the total number of write attempts (not successes) since the buffer was opened.
func (b *Buffer) WriteAttempts() int {
	return b.writeAttempts
}

// Policy returns the throttling policy of the buffer.
func (b *Buffer) Policy() throttle.Policy {
	return b.policy
}

func (b *Buffer) log() log.FieldLogger {
	if b.logger == nil {
		b.logger = log.NewDisabledLogger()
	}
	return b.logger.With(log.String("stream_id", b.ID()))
}

func (b *Buffer) metricsCollector() MetricsCollector {
	if b.metrics == nil {
		b.metrics = disabledMetricsCollector
	}
	return b.metrics
}
