// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"

	"github.com/dao-ledger/stakerep/metrics"
)

var (
	logger             = log.New("pkg", "cache")
	metricCacheHitMiss = metrics.LazyLoadCounterVec("cache_hit_miss_count", []string{"cache", "event"})
)

const logStatsEvery = 2000

// LRU a LRU cache extends golang-lru.
type LRU struct {
	*lru.Cache
	name  string
	stats Stats
}

// NewLRU create a LRU cache instance reporting its hits and misses under name.
// maxSize should be > 0, or an error returned.
func NewLRU(name string, maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: c, name: name}, nil
}

// Loader defines loader to load value.
type Loader func(key any) (any, error)

// GetOrLoad first try to get from cache, do load if missed.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.record("hit", l.stats.Hit())
		return v, nil
	}
	l.record("miss", l.stats.Miss())
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

func (l *LRU) record(event string, n int64) {
	metricCacheHitMiss().AddWithLabel(1, map[string]string{"cache": l.name, "event": event})
	if n%logStatsEvery == 0 {
		logger.Debug("cache stats", "cache", l.name, "hitrate", l.stats.HitRate(), "entries", l.Len())
	}
}

// Stats returns hit and miss counts of GetOrLoad.
func (l *LRU) Stats() (hit, miss int64) {
	return l.stats.hit.Load(), l.stats.miss.Load()
}
