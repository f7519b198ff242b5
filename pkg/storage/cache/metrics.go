// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	s         *CachedStorage
	requests  *prometheus.Desc
	evictions *prometheus.Desc
}

var _ prometheus.Collector = (*collector)(nil)

// Collector returns the prometheus.Collector which exposes the cache
// counters as lrukv_cache_requests_total{result="hit|miss"} and
// lrukv_cache_evictions_total.
func (s *CachedStorage) Collector() prometheus.Collector {
	return &collector{
		s:         s,
		requests:  prometheus.NewDesc("lrukv_cache_requests_total", "Number of the cache lookups by result", []string{"result"}, nil),
		evictions: prometheus.NewDesc("lrukv_cache_evictions_total", "Number of records evicted from the cache", nil, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.evictions
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	st := c.s.Stats()
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(st.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(st.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions))
}
