/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package libinfo

import (
	"runtime/debug"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestExtractLibVersion(t *testing.T) {
	tests := []struct {
		name        string
		deps        []*debug.Module
		expectedVer string
	}{
		{
			name:        "module found",
			deps:        []*debug.Module{{Path: moduleName, Version: "v1.2.3"}},
			expectedVer: "v1.2.3",
		},
		{
			name:        "module found, v2",
			deps:        []*debug.Module{{Path: moduleName + "/v2", Version: "v2.0.0"}},
			expectedVer: "v2.0.0",
		},
		{
			name:        "subpackage-like path is not a major version",
			deps:        []*debug.Module{{Path: moduleName + "/vendor", Version: "v9.9.9"}},
			expectedVer: "",
		},
		{
			name:        "module not found",
			deps:        []*debug.Module{{Path: "github.com/other/module", Version: "v1.0.0"}},
			expectedVer: "",
		},
		{
			name:        "no deps",
			expectedVer: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expectedVer, extractLibVersion(tt.deps, moduleName))
		})
	}
}

func TestAddPrometheusLibVersionLabel(t *testing.T) {
	labels := prometheus.Labels{"protocol": "fake"}
	got := AddPrometheusLibVersionLabel(labels)
	require.Equal(t, "fake", got["protocol"])
	require.Equal(t, GetLibVersion(), got[PrometheusLibVersionLabel])
	require.NotContains(t, labels, PrometheusLibVersionLabel)
	require.NotEmpty(t, GetLibVersion())
}
