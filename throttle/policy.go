/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package throttle provides the throttling policy of fake streams.
//
// A policy decides, by the ordinal number of a read or write attempt, whether the attempt
// is allowed to take effect. Three gates are combined for each direction:
//   - limit: attempts with a number greater than the limit are rejected forever (-1 means unlimited);
//   - after: the first N attempts are rejected;
//   - every: only every Nth attempt is allowed.
//
// Throttling is based on counting operations only, no wall-clock time is involved.
package throttle

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Unlimited is a limit value that means no limit at all.
const Unlimited = -1

// Query keys used in DSN.
const (
	QueryKeyRead       = "read"
	QueryKeyReadAfter  = "read_after"
	QueryKeyReadEvery  = "read_every"
	QueryKeyWrite      = "write"
	QueryKeyWriteAfter = "write_after"
	QueryKeyWriteEvery = "write_every"

	// Keys of the reduced (limits only) form of the policy.
	QueryKeyReadLimit  = "read_limit"
	QueryKeyWriteLimit = "write_limit"
)

// Policy is a set of parameters that govern whether a given read or write attempt is allowed.
// Policy is a value type, it's never changed after it's parsed by a stream.
type Policy struct {
	// ReadLimit is a maximum number of read attempts that may succeed.
	// Unlimited (-1) means no limit, 0 means no read ever succeeds.
	ReadLimit int `mapstructure:"read" yaml:"read" json:"read"`
	// ReadAfter is a number of leading read attempts that are rejected regardless of the limit.
	ReadAfter int `mapstructure:"read_after" yaml:"read_after" json:"read_after"`
	// ReadEvery determines that only every Nth read attempt succeeds.
	ReadEvery int `mapstructure:"read_every" yaml:"read_every" json:"read_every"`

	WriteLimit int `mapstructure:"write" yaml:"write" json:"write"`
	WriteAfter int `mapstructure:"write_after" yaml:"write_after" json:"write_after"`
	WriteEvery int `mapstructure:"write_every" yaml:"write_every" json:"write_every"`
}

// DefaultPolicy returns a policy that allows every read and write attempt.
func DefaultPolicy() Policy {
	return Policy{
		ReadLimit:  Unlimited,
		ReadEvery:  1,
		WriteLimit: Unlimited,
		WriteEvery: 1,
	}
}

// Normalize returns a copy of the policy where every-values less than 1 are clamped to 1.
func (p Policy) Normalize() Policy {
	if p.ReadEvery < 1 {
		p.ReadEvery = 1
	}
	if p.WriteEvery < 1 {
		p.WriteEvery = 1
	}
	return p
}

// IsDefault reports whether the policy allows every read and write attempt
// and is therefore encoded as an empty query.
func (p Policy) IsDefault() bool {
	return p.Normalize() == DefaultPolicy()
}

// AllowRead reports whether the read attempt with the given 1-based ordinal number is allowed.
func (p Policy) AllowRead(attempt int) bool {
	return allow(attempt, p.ReadLimit, p.ReadAfter, p.ReadEvery)
}

// AllowWrite reports whether the write attempt with the given 1-based ordinal number is allowed.
func (p Policy) AllowWrite(attempt int) bool {
	return allow(attempt, p.WriteLimit, p.WriteAfter, p.WriteEvery)
}

// Once an attempt number passes the limit, the limit stays spent:
// all further attempts are rejected, not only the next one.
func allow(attempt, limit, after, every int) bool {
	if limit >= 0 && attempt > limit {
		return false
	}
	if every < 1 {
		every = 1
	}
	return attempt > after && attempt%every == 0
}

// Encode encodes the policy as a URL query.
// An empty string is returned for the default policy. Otherwise, all six fields
// are encoded in the fixed order (read, read_after, read_every, write, write_after, write_every),
// so the output is stable.
func (p Policy) Encode() string {
	p = p.Normalize()
	if p == DefaultPolicy() {
		return ""
	}
	pairs := [...]struct {
		key string
		val int
	}{
		{QueryKeyRead, p.ReadLimit},
		{QueryKeyReadAfter, p.ReadAfter},
		{QueryKeyReadEvery, p.ReadEvery},
		{QueryKeyWrite, p.WriteLimit},
		{QueryKeyWriteAfter, p.WriteAfter},
		{QueryKeyWriteEvery, p.WriteEvery},
	}
	var sb strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(pair.key)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(pair.val))
	}
	return sb.String()
}

// String returns the policy in the query form.
func (p Policy) String() string {
	return p.Encode()
}

// ParseQuery decodes a policy from the URL query values.
// Absent keys keep their defaults. Values are coerced leniently: a non-numeric value is treated as 0.
// The reduced form keys (read_limit, write_limit) are used only if the corresponding
// full form keys (read, write) are absent.
func ParseQuery(query url.Values) Policy {
	p := DefaultPolicy()
	lookup := func(keys ...string) (int, bool) {
		for _, key := range keys {
			if vals, ok := query[key]; ok && len(vals) != 0 {
				return toInt(vals[len(vals)-1]), true
			}
		}
		return 0, false
	}
	if v, ok := lookup(QueryKeyRead, QueryKeyReadLimit); ok {
		p.ReadLimit = v
	}
	if v, ok := lookup(QueryKeyReadAfter); ok {
		p.ReadAfter = v
	}
	if v, ok := lookup(QueryKeyReadEvery); ok {
		p.ReadEvery = v
	}
	if v, ok := lookup(QueryKeyWrite, QueryKeyWriteLimit); ok {
		p.WriteLimit = v
	}
	if v, ok := lookup(QueryKeyWriteAfter); ok {
		p.WriteAfter = v
	}
	if v, ok := lookup(QueryKeyWriteEvery); ok {
		p.WriteEvery = v
	}
	return p.Normalize()
}

// ParseDSN decodes a policy from the query of the connection string.
func ParseDSN(dsn string) (Policy, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return Policy{}, err
	}
	return ParseQuery(u.Query()), nil
}

func toInt(s string) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// "1.5" and alike are truncated, anything else is 0.
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0
	}
	return int(f)
}
