/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package registry_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-fakesocket/log/logtest"
	"github.com/acronis/go-fakesocket/registry"
	"github.com/acronis/go-fakesocket/stream"
	"github.com/acronis/go-fakesocket/testutil"
)

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name     string
		protocol string
		wantErr  error
	}{
		{name: "simple", protocol: "fake"},
		{name: "mixed case", protocol: "FakeSock"},
		{name: "with special chars", protocol: "fake+sock-1.0"},
		{name: "empty", protocol: "", wantErr: registry.ErrInvalidProtocol},
		{name: "starts with digit", protocol: "1fake", wantErr: registry.ErrInvalidProtocol},
		{name: "contains colon", protocol: "fake:", wantErr: registry.ErrInvalidProtocol},
		{name: "contains slash", protocol: "fa/ke", wantErr: registry.ErrInvalidProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testutil.NewRegistry(t)
			unregister, err := reg.Register(tt.protocol, stream.NewBufferFactory(stream.BufferOptions{}))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, unregister)
				require.Empty(t, reg.Protocols())
				return
			}
			require.NoError(t, err)
			require.True(t, reg.IsRegistered(tt.protocol))
			unregister()
			require.False(t, reg.IsRegistered(tt.protocol))
		})
	}

	t.Run("nil factory", func(t *testing.T) {
		reg := testutil.NewRegistry(t)
		_, err := reg.Register("fake", nil)
		require.ErrorIs(t, err, stream.ErrInvalidStreamType)
	})
}

func TestRegistry_ReRegister(t *testing.T) {
	logRecorder := logtest.NewRecorder()
	reg := testutil.NewRegistry(t, registry.Options{Logger: logRecorder})

	var firstCalls, secondCalls int
	unregisterFirst, err := reg.Register("fake", func() stream.Stream {
		firstCalls++
		return stream.NewBuffer(stream.BufferOptions{})
	})
	require.NoError(t, err)
	_, err = reg.Register("FAKE", func() stream.Stream {
		secondCalls++
		return stream.NewBuffer(stream.BufferOptions{})
	})
	require.NoError(t, err)
	require.Equal(t, []string{"fake"}, reg.Protocols())

	_, err = reg.Open("fake://localhost")
	require.NoError(t, err)
	require.Equal(t, 0, firstCalls)
	require.Equal(t, 1, secondCalls)

	// Stale unregister must not remove the newer registration.
	unregisterFirst()
	require.True(t, reg.IsRegistered("fake"))

	entries := logRecorder.FindAllEntries("fake stream protocol registered")
	require.Len(t, entries, 2)
	replacedField, found := entries[1].FindField("replaced")
	require.True(t, found)
	require.EqualValues(t, 1, replacedField.Int)
}

func TestRegistry_Unregister(t *testing.T) {
	reg := testutil.NewRegistry(t)
	for _, protocol := range []string{"fake", "mock", "dummy"} {
		_, err := reg.Register(protocol, stream.NewBufferFactory(stream.BufferOptions{}))
		require.NoError(t, err)
	}
	require.Equal(t, []string{"dummy", "fake", "mock"}, reg.Protocols())

	require.True(t, reg.Unregister("Mock"))
	require.False(t, reg.Unregister("mock"))
	require.Equal(t, []string{"dummy", "fake"}, reg.Protocols())

	reg.UnregisterAll()
	require.Empty(t, reg.Protocols())
}

func TestRegistry_Open(t *testing.T) {
	reg := testutil.NewRegistry(t)
	_, err := reg.Register("fake", stream.NewBufferFactory(stream.BufferOptions{}))
	require.NoError(t, err)

	t.Run("each open yields an independent stream", func(t *testing.T) {
		const dsn = "fake://localhost:8080/?write=1"
		s1, err := reg.Open(dsn)
		require.NoError(t, err)
		s2, err := reg.Open(dsn)
		require.NoError(t, err)
		require.NotSame(t, s1, s2)

		n, err := s1.Write([]byte("abc"))
		require.NoError(t, err)
		require.Equal(t, 3, n)
		n, err = s1.Write([]byte("abc"))
		testutil.RequireRejected(t, n, err)

		// Counters and content of the second stream are untouched.
		testutil.RequireWrite(t, s2, "xyz")
		require.Equal(t, "xyz", testutil.RequireReadAll(t, s2))
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		_, err := reg.Open("FAKE://localhost")
		require.NoError(t, err)
	})

	t.Run("unknown protocol", func(t *testing.T) {
		_, err := reg.Open("unknown://localhost")
		require.ErrorIs(t, err, registry.ErrUnknownProtocol)
	})

	t.Run("missing scheme", func(t *testing.T) {
		_, err := reg.Open("localhost")
		require.ErrorIs(t, err, stream.ErrInvalidDSN)
	})

	t.Run("not a url", func(t *testing.T) {
		_, err := reg.Open("fake://%zz")
		require.ErrorIs(t, err, stream.ErrInvalidDSN)
	})
}

func TestRegistry_Concurrency(t *testing.T) {
	const workers = 10
	reg := testutil.NewRegistry(t)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			protocol := fmt.Sprintf("fake%d", i%3)
			unregister, err := reg.Register(protocol, stream.NewBufferFactory(stream.BufferOptions{}))
			if err != nil {
				errs <- err
				return
			}
			defer unregister()
			// Another worker may unregister the protocol in between.
			if _, err = reg.Open(protocol + "://localhost"); err != nil && !errors.Is(err, registry.ErrUnknownProtocol) {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		testutil.RequireNoErrorInChannel(t, errs)
	}
}
