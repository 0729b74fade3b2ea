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
	// ChannelsEstablished tracks encrypted channels successfully keyed.
	ChannelsEstablished = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "established_total",
			Help:      "Total number of encrypted channels established",
		},
		[]string{"method"}, // ecdhe, hpke
	)

	// ChannelMessagesEncrypted tracks AES-GCM seal operations.
	ChannelMessagesEncrypted = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "messages_encrypted_total",
			Help:      "Total number of messages encrypted over a channel",
		},
	)

	// ChannelTamperDetections tracks AEAD tag verification failures.
	ChannelTamperDetections = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "tamper_detections_total",
			Help:      "Total number of authentication tag verification failures",
		},
	)

	// ChannelOperationDuration tracks encrypt/decrypt durations.
	ChannelOperationDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "operation_duration_seconds",
			Help:      "Channel encrypt/decrypt duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to 1.6s
		},
		[]string{"operation"}, // encrypt, decrypt
	)

	// ChannelMessageSize tracks plaintext message sizes.
	ChannelMessageSize = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "channel",
			Name:      "message_size_bytes",
			Help:      "Size of messages processed by an encrypted channel",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10), // 64B to 16MB
		},
		[]string{"direction"}, // inbound, outbound
	)
)
