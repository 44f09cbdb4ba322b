/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package logtest provides implementation of log.FieldLogger that records logged entries,
// so tests can check what fake streams and registries reported (e.g. rejected writes).
package logtest
