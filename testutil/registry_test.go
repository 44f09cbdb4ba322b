/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-fakesocket/log/logtest"
	"github.com/acronis/go-fakesocket/registry"
	"github.com/acronis/go-fakesocket/stream"
)

type cleanupRecorder struct {
	helperCalls int
	cleanups    []func()
}

func (r *cleanupRecorder) Helper() { r.helperCalls++ }

func (r *cleanupRecorder) Cleanup(f func()) { r.cleanups = append(r.cleanups, f) }

func TestNewRegistry(t *testing.T) {
	t.Run("protocols are unregistered on cleanup", func(t *testing.T) {
		rec := &cleanupRecorder{}
		reg := NewRegistry(rec)
		_, err := reg.Register("fake", stream.NewBufferFactory(stream.BufferOptions{}))
		require.NoError(t, err)
		require.True(t, reg.IsRegistered("fake"))

		require.Equal(t, 1, rec.helperCalls)
		require.Len(t, rec.cleanups, 1)
		rec.cleanups[0]()
		require.Empty(t, reg.Protocols())
	})

	t.Run("options are applied", func(t *testing.T) {
		logRecorder := logtest.NewRecorder()
		reg := NewRegistry(t, registry.Options{Logger: logRecorder})
		_, err := reg.Register("fake", stream.NewBufferFactory(stream.BufferOptions{}))
		require.NoError(t, err)
		require.Len(t, logRecorder.FindAllEntries("fake stream protocol registered"), 1)
	})
}
