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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DIDResolutions tracks did:wba resolution attempts.
	DIDResolutions = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "did",
			Name:      "resolutions_total",
			Help:      "Total number of DID document resolutions",
		},
		[]string{"status"}, // success, error
	)

	// DIDCacheHits tracks cache hits vs misses on resolution.
	DIDCacheHits = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "did",
			Name:      "cache_lookups_total",
			Help:      "Total number of DID cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// DIDResolutionDuration tracks resolve() latency including HTTP fetch.
	DIDResolutionDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "did",
			Name:      "resolution_duration_seconds",
			Help:      "DID resolution duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	// DIDVerifications tracks Manager.Verify outcomes.
	DIDVerifications = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "did",
			Name:      "verifications_total",
			Help:      "Total number of DID signature verifications",
		},
		[]string{"result"}, // valid, invalid
	)
)
