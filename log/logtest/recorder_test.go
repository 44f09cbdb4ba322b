/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-fakesocket/log"
)

func TestRecorder(t *testing.T) {
	logRecorder := NewRecorder()
	logRecorder.With(log.String("protocol", "fake")).Debug("write rejected", log.Int("attempt", 2))
	logRecorder.Debug("write rejected", log.Int("attempt", 3))
	logRecorder.WithLevel(log.LevelWarn).Info("skipped")

	require.Len(t, logRecorder.Entries(), 2)
	require.Len(t, logRecorder.FindAllEntries("write rejected"), 2)

	_, found := logRecorder.FindEntry("skipped")
	require.False(t, found)

	entry, found := logRecorder.FindEntry("write rejected")
	require.True(t, found)
	require.Equal(t, log.LevelDebug, entry.Level)

	attempt, found := entry.FindField("attempt")
	require.True(t, found)
	require.Equal(t, 2, int(attempt.Int))

	protocol, found := entry.FindField("protocol")
	require.True(t, found)
	require.Equal(t, "fake", string(protocol.Bytes))

	logRecorder.Reset()
	require.Empty(t, logRecorder.Entries())
}
