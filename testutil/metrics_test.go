/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRequireCounterValue(t *testing.T) {
	attemptsCounter := prometheus.NewCounter(prometheus.CounterOpts{Name: "attempts"})
	attemptsCounter.Add(42)

	mockT := &MockT{}
	RequireCounterValue(mockT, attemptsCounter, 41)
	require.True(t, mockT.Failed)

	mockT = &MockT{}
	RequireCounterValue(mockT, attemptsCounter, 42)
	require.False(t, mockT.Failed)
}
