// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache keeps recently computed memory measures keyed by a digest of
// the request that produced them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/dgraph-io/ristretto"

	"github.com/crashstats/memory-measures/pkg/measures"
	"github.com/crashstats/memory-measures/pkg/memreport"
)

// entryOverhead approximates the bytes held by one cached key/value pair
// besides the key itself.
const entryOverhead = 64

// MeasuresCache is a bounded, concurrency-safe cache of extraction results.
type MeasuresCache struct {
	cache *ristretto.Cache
}

// New returns a cache that holds roughly maxCost bytes of entries.
func New(maxCost int64) (*MeasuresCache, error) {
	maxCost = max(1, maxCost)
	numCounters := max(1, maxCost/100)

	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &MeasuresCache{cache: c}, nil
}

// Key derives the cache key for extracting pid from report.
func Key(report *memreport.Report, pid int) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(pid)))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns a copy of the cached measures for key.
func (c *MeasuresCache) Get(key string) (measures.Measures, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	ms, ok := val.(measures.Measures)
	if !ok {
		return nil, false
	}
	return clone(ms), true
}

// Set stores a copy of ms under key. Admission is asynchronous; call Wait
// when a following Get must observe the write.
func (c *MeasuresCache) Set(key string, ms measures.Measures) {
	cost := int64(len(key))
	for k := range ms {
		cost += int64(len(k)) + entryOverhead
	}
	c.cache.Set(key, clone(ms), cost)
}

// Wait blocks until pending writes are applied.
func (c *MeasuresCache) Wait() {
	c.cache.Wait()
}

// Close stops the cache's background goroutines.
func (c *MeasuresCache) Close() {
	c.cache.Close()
}

// Stats reports hit and miss counters.
func (c *MeasuresCache) Stats() (hits, misses uint64, ratio float64) {
	metrics := c.cache.Metrics
	hits = metrics.Hits()
	misses = metrics.Misses()
	ratio = metrics.Ratio()
	return
}

func clone(ms measures.Measures) measures.Measures {
	out := make(measures.Measures, len(ms))
	for k, v := range ms {
		out[k] = v
	}
	return out
}
