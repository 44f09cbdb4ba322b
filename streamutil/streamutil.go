/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package streamutil provides helpers for the application side of fake streams:
// reading and writing that survive rejections of the throttling policy by retrying.
package streamutil

import (
	"context"
	"errors"
	"io"

	"github.com/acronis/go-fakesocket/retry"
	"github.com/acronis/go-fakesocket/stream"
)

// IsRejected reports whether the error means that the operation was rejected by the throttling policy.
func IsRejected(err error) bool {
	return errors.Is(err, stream.ErrRejected)
}

// WriteFull writes the whole p to w retrying rejected attempts according to the retry policy.
// Short writes are continued with the rest of the data. Any other error is returned immediately.
// The number of written bytes is returned.
func WriteFull(ctx context.Context, w io.Writer, p []byte, policy retry.Policy) (int, error) {
	written := 0
	for written < len(p) {
		var n int
		_, err := retry.DoWithRetry(ctx, policy, IsRejected, nil, func(ctx context.Context) error {
			var writeErr error
			n, writeErr = w.Write(p[written:])
			return writeErr
		})
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// ReadFull reads exactly len(p) bytes from r retrying rejected attempts according to the retry policy.
// io.ErrUnexpectedEOF is returned if the stream ends after some but not all bytes were read,
// io.EOF - if no bytes were read at all.
func ReadFull(ctx context.Context, r io.Reader, p []byte, policy retry.Policy) (int, error) {
	read := 0
	for read < len(p) {
		var n int
		_, err := retry.DoWithRetry(ctx, policy, IsRejected, nil, func(ctx context.Context) error {
			var readErr error
			n, readErr = r.Read(p[read:])
			return readErr
		})
		read += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				if read == len(p) {
					return read, nil
				}
				if read == 0 {
					return 0, io.EOF
				}
				return read, io.ErrUnexpectedEOF
			}
			return read, err
		}
	}
	return read, nil
}
