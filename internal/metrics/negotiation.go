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
	// NegotiationsStarted tracks negotiation state machines entering Negotiating.
	NegotiationsStarted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "started_total",
			Help:      "Total number of negotiations started",
		},
		[]string{"role"}, // initiator, responder
	)

	// NegotiationsCompleted tracks machines reaching a terminal state.
	NegotiationsCompleted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "completed_total",
			Help:      "Total number of negotiations reaching a terminal state",
		},
		[]string{"outcome"}, // Completed, Rejected, Failed
	)

	// NegotiationTransitions tracks every state transition the machine makes.
	NegotiationTransitions = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "transitions_total",
			Help:      "Total number of negotiation state transitions",
		},
		[]string{"from", "to", "event"},
	)

	// NegotiationRounds tracks the round count a negotiation settles at.
	NegotiationRounds = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "negotiation",
			Name:      "rounds",
			Help:      "Number of negotiation rounds before leaving Negotiating",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		},
		[]string{"outcome"},
	)
)
