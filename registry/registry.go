/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package registry provides a registry of fake stream types by protocol (URL scheme)
// and the facility to open a stream by a connection string (DSN) with the registered protocol.
//
// Registry is an explicit object, there is no process-wide state. Tests should use testutil.NewRegistry,
// so registrations never leak between tests.
package registry

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"github.com/acronis/go-fakesocket/log"
	"github.com/acronis/go-fakesocket/stream"
)

// Errors returned by Registry.
var (
	ErrInvalidProtocol = errors.New("invalid protocol name")
	ErrUnknownProtocol = errors.New("protocol is not registered")
)

// Options represents options for Registry.
type Options struct {
	// Logger is used for reporting registrations (at debug level). If nil, logging is disabled.
	Logger log.FieldLogger
}

type registration struct {
	factory    stream.Factory
	generation uint64
}

// Registry maps protocol names to stream factories. It's safe for concurrent use.
// The last registration for a protocol wins.
type Registry struct {
	logger log.FieldLogger

	mu         sync.RWMutex
	protocols  map[string]registration
	generation atomic.Uint64
}

// New creates a new empty Registry.
func New(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	return &Registry{logger: logger, protocols: make(map[string]registration)}
}

// Register registers the stream factory under the protocol. A prior registration of the same protocol is replaced.
// The returned function unregisters the protocol only if it's still served by this registration,
// so calling it after the protocol was re-registered does nothing.
func (r *Registry) Register(protocol string, factory stream.Factory) (unregister func(), err error) {
	protocol, err = normalizeProtocol(protocol)
	if err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory", stream.ErrInvalidStreamType)
	}

	gen := r.generation.Inc()
	r.mu.Lock()
	_, replaced := r.protocols[protocol]
	r.protocols[protocol] = registration{factory: factory, generation: gen}
	r.mu.Unlock()

	r.logger.Debug("fake stream protocol registered",
		log.String("protocol", protocol), log.Bool("replaced", replaced))

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if reg, ok := r.protocols[protocol]; ok && reg.generation == gen {
			delete(r.protocols, protocol)
		}
	}, nil
}

// Unregister removes the protocol from the registry. It reports whether the protocol was registered.
func (r *Registry) Unregister(protocol string) bool {
	protocol = strings.ToLower(protocol)
	r.mu.Lock()
	_, ok := r.protocols[protocol]
	delete(r.protocols, protocol)
	r.mu.Unlock()
	if ok {
		r.logger.Debug("fake stream protocol unregistered", log.String("protocol", protocol))
	}
	return ok
}

// UnregisterAll removes all protocols from the registry.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	r.protocols = make(map[string]registration)
	r.mu.Unlock()
}

// IsRegistered reports whether the protocol is registered.
func (r *Registry) IsRegistered(protocol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.protocols[strings.ToLower(protocol)]
	return ok
}

// Protocols returns the sorted list of registered protocols.
func (r *Registry) Protocols() []string {
	r.mu.RLock()
	protocols := make([]string, 0, len(r.protocols))
	for protocol := range r.protocols {
		protocols = append(protocols, protocol)
	}
	r.mu.RUnlock()
	sort.Strings(protocols)
	return protocols
}

// Open creates a fresh stream of the type registered under the DSN scheme and opens it with the DSN.
// Every call returns an independent instance even for the same DSN.
func (r *Registry) Open(dsn string) (stream.Stream, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", stream.ErrInvalidDSN, dsn, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w %q: scheme is missing", stream.ErrInvalidDSN, dsn)
	}
	protocol := strings.ToLower(u.Scheme)

	r.mu.RLock()
	reg, ok := r.protocols[protocol]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, protocol)
	}

	s := reg.factory()
	if err = s.Open(dsn); err != nil {
		return nil, fmt.Errorf("open %q: %w", dsn, err)
	}
	return s, nil
}

func normalizeProtocol(protocol string) (string, error) {
	if !isValidScheme(protocol) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProtocol, protocol)
	}
	return strings.ToLower(protocol), nil
}

// Scheme syntax per RFC 3986: ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func isValidScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
