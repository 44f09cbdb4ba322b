/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package libinfo provides information about the library itself (e.g. its version for metrics labels).
package libinfo

import (
	"runtime/debug"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const moduleName = "github.com/acronis/go-fakesocket"

// PrometheusLibVersionLabel is a name of the const label with the library version.
const PrometheusLibVersionLabel = "go_fakesocket_version"

// AddPrometheusLibVersionLabel returns a copy of the labels with the library version label added.
func AddPrometheusLibVersionLabel(labels prometheus.Labels) prometheus.Labels {
	labelsCopy := make(prometheus.Labels, len(labels)+1)
	for k, v := range labels {
		labelsCopy[k] = v
	}
	labelsCopy[PrometheusLibVersionLabel] = GetLibVersion()
	return labelsCopy
}

var (
	libVersion     string
	libVersionOnce sync.Once
)

// GetLibVersion returns the version of the library as it's known from the build info ("v0.0.0" if unknown).
func GetLibVersion() string {
	libVersionOnce.Do(func() {
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			libVersion = extractLibVersion(buildInfo.Deps, moduleName)
		}
		if libVersion == "" {
			libVersion = "v0.0.0"
		}
	})
	return libVersion
}

// extractLibVersion looks for the module among dependencies,
// accepting both "moduleName" and "moduleName/vX" paths.
func extractLibVersion(deps []*debug.Module, modName string) string {
	for _, dep := range deps {
		if dep.Path == modName {
			return dep.Version
		}
		if suffix := strings.TrimPrefix(dep.Path, modName+"/v"); suffix != dep.Path && isDigits(suffix) {
			return dep.Version
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
