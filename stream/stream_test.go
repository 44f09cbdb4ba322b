/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package stream

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type notStream struct{}

func TestFactoryOf(t *testing.T) {
	bufFactory := NewBufferFactory(BufferOptions{})

	tests := []struct {
		name       string
		streamType interface{}
		wantErr    bool
	}{
		{name: "factory", streamType: bufFactory},
		{name: "plain func", streamType: func() Stream { return NewBuffer(BufferOptions{}) }},
		{name: "pointer prototype", streamType: (*Buffer)(nil)},
		{name: "value prototype", streamType: Buffer{}},
		{name: "reflect type", streamType: reflect.TypeOf(Buffer{})},
		{name: "nil", streamType: nil, wantErr: true},
		{name: "nil factory", streamType: Factory(nil), wantErr: true},
		{name: "type not implementing stream", streamType: notStream{}, wantErr: true},
		{name: "non-struct type", streamType: "fake", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := FactoryOf(tt.streamType)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidStreamType)
				return
			}
			require.NoError(t, err)
			s1, s2 := factory(), factory()
			require.NotNil(t, s1)
			require.NotSame(t, s1, s2, "factory must create fresh instances")
			require.NoError(t, s1.Open("fake://localhost"))
			n, err := s1.Write([]byte("abc"))
			require.NoError(t, err)
			require.Equal(t, 3, n)
		})
	}
}

func TestFactoryOf_ErrorMessage(t *testing.T) {
	_, err := FactoryOf(notStream{})
	require.EqualError(t, err, "invalid stream type: stream.notStream must implement stream.Stream")
}
