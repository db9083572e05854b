// Package cache provides an in-process key/value cache with a pluggable
// eviction policy.
package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// EvictionPolicy decides whether an entry stored at storedAt is stale at now.
type EvictionPolicy interface {
	Expired(storedAt, now time.Time) bool
	Name() string
}

// NeverEvict keeps entries until the process exits or Purge is called.
type NeverEvict struct{}

func (NeverEvict) Expired(_, _ time.Time) bool { return false }
func (NeverEvict) Name() string                { return "never" }

// DayBoundary expires an entry once the calendar day it was stored on has
// ended in Location.
type DayBoundary struct {
	Location *time.Location
}

func (d DayBoundary) Expired(storedAt, now time.Time) bool {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	sy, sm, sd := storedAt.In(loc).Date()
	nextDay := time.Date(sy, sm, sd+1, 0, 0, 0, 0, loc)
	return !now.Before(nextDay)
}

func (DayBoundary) Name() string { return "daily" }

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	policy  EvictionPolicy
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates an empty cache. A nil policy means NeverEvict.
func New[K comparable, V any](policy EvictionPolicy, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if policy == nil {
		policy = NeverEvict{}
	}
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		policy:  policy,
		now:     o.now,
	}
}

// Get returns the value for key if present and not expired. Expired entries
// are dropped on access.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.policy.Expired(e.storedAt, c.now()) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, replacing any existing entry.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Len returns the number of stored entries, including ones not yet swept.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Sweep removes every entry the policy considers expired and reports how
// many were removed.
func (c *Cache[K, V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if c.policy.Expired(e.storedAt, now) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Purge drops all entries.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]entry[V])
}

// Policy returns the configured eviction policy.
func (c *Cache[K, V]) Policy() EvictionPolicy { return c.policy }

// ErrUnknownPolicy is returned by PolicyByName for names other than daily
// and never.
var ErrUnknownPolicy = errors.New("unknown cache policy")

// PolicyByName maps a config value to a policy. The empty name is daily.
func PolicyByName(name string, loc *time.Location) (EvictionPolicy, error) {
	switch name {
	case "", "daily":
		return DayBoundary{Location: loc}, nil
	case "never":
		return NeverEvict{}, nil
	}
	return nil, fmt.Errorf("%w %q (want daily or never)", ErrUnknownPolicy, name)
}
