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

package negotiate

import (
	"sync"

	"github.com/anp-x/anp-go/internal/metrics"
)

// Transition is the pure (state, event, data, context) -> (state,
// context) function driving the negotiation state table. Unrecognized
// events in a given state are discarded: the returned state and
// context are unchanged.
func Transition(state State, event Event, data EventData, ctx Context) (State, Context) {
	switch state {
	case Idle:
		switch event {
		case EventInitiate:
			next := ctx.clone()
			next.CandidateProtocols = data.CandidateProtocols
			return Negotiating, next
		case EventReceiveRequest:
			next := ctx.clone()
			next.CandidateProtocols = data.CandidateProtocols
			next.SequenceID = data.SequenceID
			return Negotiating, next
		}

	case Negotiating:
		switch event {
		case EventNegotiate:
			if ctx.NegotiationRound >= ctx.maxRounds() {
				return Rejected, ctx.clone()
			}
			next := ctx.clone()
			next.NegotiationRound++
			next.SequenceID++
			return Negotiating, next
		case EventAccept:
			next := ctx.clone()
			next.AgreedProtocol = data.AgreedProtocol
			return CodeGeneration, next
		case EventReject, EventTimeout:
			return Rejected, ctx.clone()
		}

	case CodeGeneration:
		switch event {
		case EventCodeReady:
			return TestCases, ctx.clone()
		case EventCodeError:
			return Failed, ctx.withError(data.ErrorMessage)
		}

	case TestCases:
		switch event {
		case EventTestsAgreed:
			next := ctx.clone()
			next.TestCases = data.TestCases
			return Testing, next
		case EventSkipTests:
			return Ready, ctx.clone()
		}

	case Testing:
		switch event {
		case EventTestsPassed:
			return Ready, ctx.clone()
		case EventTestsFailed:
			return FixError, ctx.withError(data.ErrorMessage)
		}

	case FixError:
		switch event {
		case EventFixAccepted:
			return CodeGeneration, ctx.clone()
		case EventFixRejected:
			return Failed, ctx.clone()
		}

	case Ready:
		if event == EventStartCommunication {
			return Communicating, ctx.clone()
		}

	case Communicating:
		switch event {
		case EventProtocolError:
			return FixError, ctx.withError(data.ErrorMessage)
		case EventEnd:
			return Completed, ctx.clone()
		}
	}

	return state, ctx.clone()
}

// Machine wraps Transition with the serialization a negotiation
// session requires: one machine's events are processed FIFO, never
// concurrently.
type Machine struct {
	mu    sync.Mutex
	state State
	ctx   Context
}

// NewMachine starts a machine in Idle with the given initial context
// (MaxNegotiationRounds defaults to DefaultMaxNegotiationRounds when
// left at zero).
func NewMachine(ctx Context) *Machine {
	return &Machine{state: Idle, ctx: ctx.clone()}
}

// Dispatch applies event/data to the machine, serialized against any
// concurrent Dispatch call on the same Machine, and records a
// transition metric.
func (m *Machine) Dispatch(event Event, data EventData) (State, Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	from := m.state
	m.state, m.ctx = Transition(m.state, event, data, m.ctx)
	metrics.NegotiationTransitions.WithLabelValues(string(from), string(m.state), string(event)).Inc()
	if from == Idle && m.state == Negotiating {
		role := "initiator"
		if event == EventReceiveRequest {
			role = "responder"
		}
		metrics.NegotiationsStarted.WithLabelValues(role).Inc()
	}
	if from != m.state && m.state.IsTerminal() {
		outcome := string(m.state)
		metrics.NegotiationsCompleted.WithLabelValues(outcome).Inc()
		metrics.NegotiationRounds.WithLabelValues(outcome).Observe(float64(m.ctx.NegotiationRound))
	}
	return m.state, m.ctx.clone()
}

// State returns the machine's current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Context returns a copy of the machine's current context.
func (m *Machine) Context() Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx.clone()
}
