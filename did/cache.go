// Copyright (C) 2025 anp-x
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package did

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/anp-x/anp-go/internal/metrics"
)

const defaultCacheTTL = 5 * time.Minute

// cache is a process-local DID document cache. Reads take an RLock;
// a cache miss collapses concurrent resolutions of the same DID into
// a single in-flight fetch via singleflight, so one slow lookup never
// blocks lookups of unrelated DIDs.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	sf      singleflight.Group
}

func newCache(ttl time.Duration) *cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// get returns a cached document for did if present and not expired.
func (c *cache) get(did string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[did]
	if !ok {
		return nil, false
	}
	if time.Since(entry.insertedAt) > c.ttl {
		return nil, false
	}
	return entry.document, true
}

// set replaces the cache row for did atomically.
func (c *cache) set(did string, doc *Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[did] = cacheEntry{document: doc, insertedAt: time.Now()}
}

// resolveOnce ensures at most one concurrent call to fetch runs per did;
// other callers observing the same in-flight key receive its result.
func (c *cache) resolveOnce(did string, fetch func() (*Document, error)) (*Document, error) {
	v, err, _ := c.sf.Do(did, func() (interface{}, error) {
		if doc, ok := c.get(did); ok {
			metrics.DIDCacheHits.WithLabelValues("hit").Inc()
			return doc, nil
		}
		metrics.DIDCacheHits.WithLabelValues("miss").Inc()
		doc, err := fetch()
		if err != nil {
			return nil, err
		}
		c.set(did, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}
