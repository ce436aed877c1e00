package common

import (
	"time"

	"steel-ledger/mtrledger/internal/constants"
	"steel-ledger/mtrledger/internal/models/dtos"

	"github.com/patrickmn/go-cache"
)

// JoinCache keeps resolved joined views keyed by the data fingerprint they were built
// from. A write changes the fingerprint, so an entry can only be served while the
// tables still hold exactly the data it was computed over.
type JoinCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewJoinCache returns a cache whose entries live for ttl. A ttl <= 0 disables caching.
func NewJoinCache(ttl time.Duration) *JoinCache {
	if ttl <= 0 {
		return &JoinCache{}
	}
	return &JoinCache{cache: cache.New(ttl, 2*ttl), ttl: ttl}
}

func (c *JoinCache) Enabled() bool {
	return c != nil && c.cache != nil
}

func joinKey(fingerprint string) string {
	return string(constants.CachePrefixJoinedView) + fingerprint
}

func (c *JoinCache) Get(fingerprint string) ([]dtos.JoinedRow, bool) {
	if !c.Enabled() {
		return nil, false
	}
	val, found := c.cache.Get(joinKey(fingerprint))
	if !found {
		return nil, false
	}
	rows, ok := val.([]dtos.JoinedRow)
	return rows, ok
}

func (c *JoinCache) Set(fingerprint string, rows []dtos.JoinedRow) {
	if !c.Enabled() {
		return
	}
	c.cache.Set(joinKey(fingerprint), rows, c.ttl)
}

// Flush drops every entry.
func (c *JoinCache) Flush() {
	if c.Enabled() {
		c.cache.Flush()
	}
}
