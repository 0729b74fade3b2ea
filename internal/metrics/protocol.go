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
	// FramesDecoded tracks protocol message frames decoded, by type.
	FramesDecoded = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "frames_decoded_total",
			Help:      "Total number of protocol frames decoded",
		},
		[]string{"type"}, // META, APPLICATION, NATURAL_LANGUAGE, VERIFICATION
	)

	// MetaMessagesParsed tracks parsed meta-protocol messages by action.
	MetaMessagesParsed = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "meta_messages_parsed_total",
			Help:      "Total number of meta-protocol messages parsed",
		},
		[]string{"action", "status"}, // status: ok, malformed
	)

	// FrameSize tracks encoded frame sizes.
	FrameSize = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "protocol",
			Name:      "frame_size_bytes",
			Help:      "Size of encoded protocol frames in bytes",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 10), // 16B to 4MB
		},
	)
)
