/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package streamutil

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-fakesocket/retry"
	"github.com/acronis/go-fakesocket/stream"
	"github.com/acronis/go-fakesocket/testutil"
)

func openBuffer(t *testing.T, dsn string) *stream.Buffer {
	t.Helper()
	b := stream.NewBuffer(stream.BufferOptions{})
	require.NoError(t, b.Open(dsn))
	return b
}

func TestIsRejected(t *testing.T) {
	require.True(t, IsRejected(stream.ErrRejected))
	require.True(t, IsRejected(errors.Join(errors.New("write"), stream.ErrRejected)))
	require.False(t, IsRejected(io.EOF))
	require.False(t, IsRejected(nil))
}

func TestWriteFull(t *testing.T) {
	tests := []struct {
		name         string
		dsn          string
		maxRetries   int
		wantN        int
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "no throttling",
			dsn:          "fake://localhost",
			maxRetries:   0,
			wantN:        3,
			wantAttempts: 1,
		},
		{
			name:         "every 3rd write succeeds",
			dsn:          "fake://localhost/?write_every=3",
			maxRetries:   5,
			wantN:        3,
			wantAttempts: 3,
		},
		{
			name:         "not enough retries",
			dsn:          "fake://localhost/?write_every=3",
			maxRetries:   1,
			wantN:        0,
			wantErr:      stream.ErrRejected,
			wantAttempts: 2,
		},
		{
			name:         "writes are blocked forever",
			dsn:          "fake://localhost/?write=0",
			maxRetries:   4,
			wantN:        0,
			wantErr:      stream.ErrRejected,
			wantAttempts: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := openBuffer(t, tt.dsn)
			n, err := WriteFull(context.Background(), b, []byte("xyz"), retry.NewImmediatePolicy(tt.maxRetries))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, "xyz", testutil.RequireReadAll(t, b))
			}
			require.Equal(t, tt.wantN, n)
			require.Equal(t, tt.wantAttempts, b.WriteAttempts())
		})
	}
}

func TestReadFull(t *testing.T) {
	t.Run("rejected reads are retried", func(t *testing.T) {
		b := openBuffer(t, "fake://localhost/?read_after=2&read_every=2")
		testutil.RequireWrite(t, b, "abcdef")
		_, err := b.Seek(0, io.SeekStart)
		require.NoError(t, err)

		p := make([]byte, 6)
		n, err := ReadFull(context.Background(), b, p, retry.NewImmediatePolicy(10))
		require.NoError(t, err)
		require.Equal(t, 6, n)
		require.Equal(t, "abcdef", string(p))
		require.Equal(t, 4, b.ReadAttempts())
	})

	t.Run("unexpected eof", func(t *testing.T) {
		b := openBuffer(t, "fake://localhost")
		testutil.RequireWrite(t, b, "abc")
		_, err := b.Seek(0, io.SeekStart)
		require.NoError(t, err)

		p := make([]byte, 6)
		n, err := ReadFull(context.Background(), b, p, retry.NewImmediatePolicy(10))
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		require.Equal(t, 3, n)
	})

	t.Run("eof", func(t *testing.T) {
		b := openBuffer(t, "fake://localhost")
		n, err := ReadFull(context.Background(), b, make([]byte, 1), retry.NewImmediatePolicy(10))
		require.ErrorIs(t, err, io.EOF)
		require.Equal(t, 0, n)
	})

	t.Run("context is canceled", func(t *testing.T) {
		b := openBuffer(t, "fake://localhost/?read=0")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ReadFull(ctx, b, make([]byte, 1), retry.NewImmediatePolicy(0))
		require.ErrorIs(t, err, context.Canceled)
	})
}
