/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package descriptor provides an immutable builder of fake stream descriptors.
//
// Builder accumulates protocol, host, port and throttling parameters, renders them into
// the connection string (DSN) of the form
//
//	<protocol>://<host>[:<port>][/?<query>]
//
// and registers the stream type under the protocol in registry.Registry.
// Every mutator returns a new Builder, the receiver is never modified, so builders may be shared freely.
package descriptor

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/acronis/go-fakesocket/registry"
	"github.com/acronis/go-fakesocket/stream"
	"github.com/acronis/go-fakesocket/throttle"
)

// DefaultProtocol is used when the source string has no scheme.
const DefaultProtocol = "fake"

// Builder describes a fake stream: protocol, address and throttling policy.
type Builder struct {
	protocol string
	host     string
	port     int // 0 means no port
	policy   throttle.Policy
	factory  stream.Factory
}

// New creates a new Builder for the given stream type (see stream.FactoryOf for accepted values).
// ErrInvalidStreamType is returned if the type doesn't implement stream.Stream.
func New(streamType interface{}) (*Builder, error) {
	factory, err := stream.FactoryOf(streamType)
	if err != nil {
		return nil, err
	}
	return &Builder{protocol: DefaultProtocol, policy: throttle.DefaultPolicy(), factory: factory}, nil
}

// FromSource creates a new Builder for stream.Buffer from the source string.
// The source is parsed as URI: the scheme is used as protocol (DefaultProtocol if absent),
// the host (or the path if host is absent) as host, and the port is validated with WithPort.
// Examples of valid sources: "buffer", "buffer:9200", "fake://localhost:8080", "fake:buffer",
// "unix:///var/run/app.sock", "unix:/var/run/app.sock".
func FromSource(src string) (*Builder, error) {
	u, err := parseSource(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDataSource, src, err)
	}
	host := u.Hostname()
	if host == "" {
		host = u.Path
	}
	if host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDataSource, src)
	}

	b, err := New((*stream.Buffer)(nil))
	if err != nil {
		return nil, err
	}
	b.host = host
	if u.Scheme != "" {
		b.protocol = strings.ToLower(u.Scheme)
	}
	if portStr := u.Port(); portStr != "" {
		port, convErr := strconv.Atoi(portStr)
		if convErr != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDataSource, src, convErr)
		}
		return b.WithPort(port)
	}
	return b, nil
}

// parseSource parses src as URI. A source without scheme, or whose part after the colon is a port ("buffer:9200"),
// is parsed as "//"+src so its first segment becomes the host. An opaque source ("fake:buffer") is parsed
// as "fake://buffer".
func parseSource(src string) (*url.URL, error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || isPort(u.Opaque) {
		return url.Parse("//" + src)
	}
	if u.Opaque != "" {
		return url.Parse(u.Scheme + "://" + u.Opaque)
	}
	return u, nil
}

func isPort(s string) bool {
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

func (b *Builder) clone() *Builder {
	c := *b
	return &c
}

// WithProtocol returns a copy of the builder with the protocol replaced.
func (b *Builder) WithProtocol(protocol string) *Builder {
	c := b.clone()
	c.protocol = protocol
	return c
}

// WithHost returns a copy of the builder with the host replaced.
func (b *Builder) WithHost(host string) *Builder {
	c := b.clone()
	c.host = host
	return c
}

// WithPort returns a copy of the builder with the port replaced.
// An error matching ErrInvalidPortRange (*PortRangeError) is returned if the port is out of range.
func (b *Builder) WithPort(port int) (*Builder, error) {
	if port < MinPort || port > MaxPort {
		return nil, &PortRangeError{Port: port, Min: MinPort, Max: MaxPort}
	}
	c := b.clone()
	c.port = port
	return c, nil
}

// WithRead returns a copy of the builder with the read limit replaced (throttle.Unlimited for no limit).
func (b *Builder) WithRead(limit int) *Builder {
	c := b.clone()
	c.policy.ReadLimit = limit
	return c
}

// WithWrite returns a copy of the builder with the write limit replaced (throttle.Unlimited for no limit).
func (b *Builder) WithWrite(limit int) *Builder {
	c := b.clone()
	c.policy.WriteLimit = limit
	return c
}

// WithoutRead returns a copy of the builder where no read ever succeeds.
func (b *Builder) WithoutRead() *Builder {
	return b.WithRead(0)
}

// WithoutWrite returns a copy of the builder where no write ever succeeds.
func (b *Builder) WithoutWrite() *Builder {
	return b.WithWrite(0)
}

// WithReadAfter returns a copy of the builder where the first n read attempts are rejected.
func (b *Builder) WithReadAfter(n int) *Builder {
	c := b.clone()
	c.policy.ReadAfter = n
	return c
}

// WithWriteAfter returns a copy of the builder where the first n write attempts are rejected.
func (b *Builder) WithWriteAfter(n int) *Builder {
	c := b.clone()
	c.policy.WriteAfter = n
	return c
}

// WithReadEvery returns a copy of the builder where only every nth read attempt succeeds.
// Values less than 1 are treated as 1.
func (b *Builder) WithReadEvery(n int) *Builder {
	c := b.clone()
	c.policy.ReadEvery = n
	c.policy = c.policy.Normalize()
	return c
}

// WithWriteEvery returns a copy of the builder where only every nth write attempt succeeds.
// Values less than 1 are treated as 1.
func (b *Builder) WithWriteEvery(n int) *Builder {
	c := b.clone()
	c.policy.WriteEvery = n
	c.policy = c.policy.Normalize()
	return c
}

// WithPolicy returns a copy of the builder with the whole throttling policy replaced.
func (b *Builder) WithPolicy(policy throttle.Policy) *Builder {
	c := b.clone()
	c.policy = policy.Normalize()
	return c
}

// WithStreamType returns a copy of the builder with the stream type replaced (see stream.FactoryOf).
func (b *Builder) WithStreamType(streamType interface{}) (*Builder, error) {
	factory, err := stream.FactoryOf(streamType)
	if err != nil {
		return nil, err
	}
	c := b.clone()
	c.factory = factory
	return c, nil
}

// Protocol returns the protocol (URL scheme) under which the stream type is registered.
func (b *Builder) Protocol() string {
	return b.protocol
}

// Host returns the host (or path).
func (b *Builder) Host() string {
	return b.host
}

// Port returns the port, 0 means that no port is specified.
func (b *Builder) Port() int {
	return b.port
}

// Policy returns the throttling policy.
func (b *Builder) Policy() throttle.Policy {
	return b.policy
}

// DSN returns the connection string.
// The query with all six throttling parameters is appended only if the policy deviates from the default one.
func (b *Builder) DSN() string {
	var sb strings.Builder
	sb.WriteString(b.protocol)
	sb.WriteString("://")
	sb.WriteString(b.hostPort())
	if query := b.policy.Encode(); query != "" {
		sb.WriteString("/?")
		sb.WriteString(query)
	}
	return sb.String()
}

// String returns the connection string.
func (b *Builder) String() string {
	return b.DSN()
}

// Register registers the stream type under the protocol in the registry and returns the connection string.
// A prior registration of the same protocol is replaced, so calling Register repeatedly is safe.
func (b *Builder) Register(reg *registry.Registry) (string, error) {
	if _, err := reg.Register(b.protocol, b.factory); err != nil {
		return "", err
	}
	return b.DSN(), nil
}

func (b *Builder) hostPort() string {
	if b.port != 0 {
		return net.JoinHostPort(b.host, strconv.Itoa(b.port))
	}
	if strings.Contains(b.host, ":") && !strings.HasPrefix(b.host, "[") {
		return "[" + b.host + "]"
	}
	return b.host
}
