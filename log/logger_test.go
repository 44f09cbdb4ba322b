/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakesocket.log")

	cfg := NewDefaultConfig()
	cfg.Output = OutputFile
	cfg.File.Path = path
	cfg.Level = LevelDebug

	logger, closer := NewLogger(cfg, Int("pid", os.Getpid()))
	logger.With(String("protocol", "fake")).Debug("stream opened")
	logger.Warn("write rejected", Int("attempt", 2))
	logger.Error("open failed", Error(errors.New("unknown protocol")))
	logger.WithLevel(LevelError).Info("must be skipped")
	closer()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 3)

	require.Equal(t, "debug", entries[0]["level"])
	require.Equal(t, "stream opened", entries[0]["msg"])
	require.Equal(t, "fake", entries[0]["protocol"])
	require.Equal(t, os.Getpid(), int(entries[0]["pid"].(float64)))

	require.Equal(t, "write rejected", entries[1]["msg"])
	require.EqualValues(t, 2, entries[1]["attempt"])

	require.Equal(t, "error", entries[2]["level"])
	require.Equal(t, "unknown protocol", entries[2]["error"])
}

func TestDisabledLogger(t *testing.T) {
	logger := NewDisabledLogger()
	require.NotPanics(t, func() {
		logger.Info("nothing")
		logger.With(Int("attempt", 1)).Warn("nothing", Bool("rejected", true))
	})
}
