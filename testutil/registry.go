/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"github.com/acronis/go-fakesocket/registry"
)

// CleanupT is the subset of testing.TB used by NewRegistry.
type CleanupT interface {
	Helper()
	Cleanup(func())
}

// NewRegistry creates a new empty registry.Registry with the given options.
// All protocols are unregistered when the test and all its subtests complete.
func NewRegistry(t CleanupT, opts ...registry.Options) *registry.Registry {
	t.Helper()
	var o registry.Options
	if len(opts) != 0 {
		o = opts[0]
	}
	reg := registry.New(o)
	t.Cleanup(reg.UnregisterAll)
	return reg
}
