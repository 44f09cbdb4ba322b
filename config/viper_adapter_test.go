/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestViperAdapter(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(`
protocol: FAKE
maxSize: 64Mi
minSize: 4096
interval: 150ms
nested:
  enabled: true
`), DataTypeYAML))

	t.Run("string from set", func(t *testing.T) {
		val, err := va.GetStringFromSet("protocol", []string{"fake", "tcp"}, true)
		require.NoError(t, err)
		require.Equal(t, "FAKE", val)

		_, err = va.GetStringFromSet("protocol", []string{"fake", "tcp"}, false)
		require.ErrorContains(t, err, `protocol: unknown value "FAKE"`)
	})

	t.Run("size in bytes", func(t *testing.T) {
		val, err := va.GetSizeInBytes("maxSize")
		require.NoError(t, err)
		require.Equal(t, uint64(64*1024*1024), val)

		val, err = va.GetSizeInBytes("minSize")
		require.NoError(t, err)
		require.Equal(t, uint64(4096), val)
	})

	t.Run("duration", func(t *testing.T) {
		val, err := va.GetDuration("interval")
		require.NoError(t, err)
		require.Equal(t, 150*time.Millisecond, val)

		val, err = va.GetDuration("missing")
		require.NoError(t, err)
		require.Zero(t, val)

		_, err = va.GetDuration("protocol")
		require.ErrorContains(t, err, "protocol: ")
	})

	t.Run("bool", func(t *testing.T) {
		val, err := va.GetBool("nested.enabled")
		require.NoError(t, err)
		require.True(t, val)
	})

	t.Run("key prefixed", func(t *testing.T) {
		kp := NewKeyPrefixedDataProvider(va, "nested")
		require.True(t, kp.IsSet("enabled"))
		require.False(t, kp.IsSet("protocol"))
		require.EqualError(t, kp.WrapKeyErr("enabled", errTest), "nested.enabled: test error")
	})
}

func TestByteSize_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    ByteSize
		wantErr bool
	}{
		{input: "1024", want: 1024},
		{input: "1K", want: 1024},
		{input: "2Mi", want: 2 * 1024 * 1024},
		{input: "-1", wantErr: true},
		{input: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var bs ByteSize
			err := bs.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, bs)
		})
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("test error")
