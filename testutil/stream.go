/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"io"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acronis/go-fakesocket/stream"
)

// AssertRejected asserts that the result of a stream read or write is a rejection by the throttling policy.
func AssertRejected(t assert.TestingT, n int, err error, msgAndArgs ...interface{}) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !assert.ErrorIs(t, err, stream.ErrRejected, msgAndArgs...) {
		return false
	}
	return assert.Equal(t, 0, n, msgAndArgs...)
}

// RequireRejected calls AssertRejected and fails test immediately in case of error.
func RequireRejected(t require.TestingT, n int, err error, msgAndArgs ...interface{}) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if AssertRejected(t, n, err, msgAndArgs...) {
		return
	}
	t.FailNow()
}

// RequireWrite writes data to the stream and asserts that it's written completely.
func RequireWrite(t require.TestingT, s io.Writer, data string) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	n, err := s.Write([]byte(data))
	require.NoError(t, err)
	require.Equal(t, len(data), n)
}

// RequireReadAll rewinds the stream and returns its whole content.
// The stream must not throttle reads.
func RequireReadAll(t require.TestingT, s io.ReadSeeker) string {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	_, err := s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	data, err := io.ReadAll(s)
	require.NoError(t, err)
	return string(data)
}
