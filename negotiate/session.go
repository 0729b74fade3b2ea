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
	"time"

	"github.com/anp-x/anp-go/did"
	"github.com/anp-x/anp-go/protocol"
)

// Config binds a negotiation to the pair of agents running it: the
// local identity, the remote peer's DID, and the round/timeout knobs.
// Timeout is advisory: the machine carries no wall-clock timer, the
// caller observes elapsed time and injects EventTimeout itself.
type Config struct {
	LocalIdentity        *did.Identity
	RemoteDID            string
	MaxNegotiationRounds int
	Timeout              time.Duration
}

// Session pairs a Machine with the identities it negotiates between
// and builds the outbound meta-protocol frames for the local side.
type Session struct {
	cfg     Config
	machine *Machine
}

// NewSession starts a session in Idle.
func NewSession(cfg Config) (*Session, error) {
	if cfg.LocalIdentity == nil {
		return nil, newNegotiationError("negotiation requires a local identity", nil)
	}
	if cfg.RemoteDID == "" {
		return nil, newNegotiationError("negotiation requires a remote DID", nil)
	}
	return &Session{
		cfg:     cfg,
		machine: NewMachine(Context{MaxNegotiationRounds: cfg.MaxNegotiationRounds}),
	}, nil
}

// RemoteDID returns the peer this session negotiates with.
func (s *Session) RemoteDID() string { return s.cfg.RemoteDID }

// LocalDID returns the local agent's DID. The identity's private key
// material stays inside the session.
func (s *Session) LocalDID() string { return s.cfg.LocalIdentity.DID }

// State returns the underlying machine's current state.
func (s *Session) State() State { return s.machine.State() }

// Context returns a copy of the underlying machine's context.
func (s *Session) Context() Context { return s.machine.Context() }

// Initiate dispatches EventInitiate and returns the META frame carrying
// the local side's opening protocolNegotiation proposal.
func (s *Session) Initiate(candidateProtocols string) ([]byte, State, error) {
	if current := s.machine.State(); current != Idle {
		return nil, current, newNegotiationError("initiate is only valid from Idle", nil)
	}
	state, ctx := s.machine.Dispatch(EventInitiate, EventData{CandidateProtocols: candidateProtocols})
	if state != Negotiating {
		return nil, state, newNegotiationError("initiate is only valid from Idle", nil)
	}

	frame, err := metaFrame(protocol.ProtocolNegotiationMessage{
		SequenceID:         ctx.SequenceID,
		CandidateProtocols: candidateProtocols,
		Status:             protocol.StatusNegotiating,
	})
	if err != nil {
		return nil, state, err
	}
	return frame, state, nil
}

// Accept dispatches EventAccept for the chosen protocol and returns the
// META frame telling the peer the negotiation is agreed.
func (s *Session) Accept(agreedProtocol string) ([]byte, State, error) {
	if current := s.machine.State(); current != Negotiating {
		return nil, current, newNegotiationError("accept is only valid while Negotiating", nil)
	}
	state, ctx := s.machine.Dispatch(EventAccept, EventData{AgreedProtocol: agreedProtocol})
	if state != CodeGeneration {
		return nil, state, newNegotiationError("accept is only valid while Negotiating", nil)
	}

	frame, err := metaFrame(protocol.ProtocolNegotiationMessage{
		SequenceID:         ctx.SequenceID,
		CandidateProtocols: agreedProtocol,
		Status:             protocol.StatusAccepted,
	})
	if err != nil {
		return nil, state, err
	}
	return frame, state, nil
}

// Reject dispatches EventReject and returns the META frame telling the
// peer the negotiation is over.
func (s *Session) Reject() ([]byte, State, error) {
	state, ctx := s.machine.Dispatch(EventReject, EventData{})
	frame, err := metaFrame(protocol.ProtocolNegotiationMessage{
		SequenceID: ctx.SequenceID,
		Status:     protocol.StatusRejected,
	})
	if err != nil {
		return nil, state, err
	}
	return frame, state, nil
}

// ProcessIncoming feeds a received frame through the machine.
func (s *Session) ProcessIncoming(frame []byte) (State, Context, error) {
	return s.machine.ProcessIncoming(frame)
}

func metaFrame(msg protocol.Message) ([]byte, error) {
	return protocol.EncodeMeta(msg)
}
