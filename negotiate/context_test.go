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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anp-x/anp-go/protocol"
)

func frame(t *testing.T, json string) []byte {
	t.Helper()
	return protocol.Encode(protocol.Meta, []byte(json))
}

func TestProcessIncomingReceiveRequest(t *testing.T) {
	m := NewMachine(Context{})
	state, ctx, err := m.ProcessIncoming(frame(t, `{"action":"protocolNegotiation","sequenceId":3,"candidateProtocols":"JSON-RPC, gRPC","status":"negotiating"}`))
	require.NoError(t, err)
	require.Equal(t, Negotiating, state)
	require.Equal(t, "JSON-RPC, gRPC", ctx.CandidateProtocols)
	require.Equal(t, 3, ctx.SequenceID)
}

func TestProcessIncomingAccept(t *testing.T) {
	m := NewMachine(Context{})
	m.Dispatch(EventInitiate, EventData{CandidateProtocols: "JSON-RPC, gRPC"})

	state, ctx, err := m.ProcessIncoming(frame(t, `{"action":"protocolNegotiation","sequenceId":1,"candidateProtocols":"gRPC","status":"accepted"}`))
	require.NoError(t, err)
	require.Equal(t, CodeGeneration, state)
	require.Equal(t, "gRPC", ctx.AgreedProtocol)
}

func TestProcessIncomingAcceptWithMultipleProtocolsErrors(t *testing.T) {
	m := NewMachine(Context{})
	m.Dispatch(EventInitiate, EventData{})

	_, _, err := m.ProcessIncoming(frame(t, `{"action":"protocolNegotiation","sequenceId":1,"candidateProtocols":"JSON-RPC, gRPC","status":"accepted"}`))
	require.Error(t, err)
	require.Equal(t, Negotiating, m.State())
}

func TestProcessIncomingRejectsNonMetaFrame(t *testing.T) {
	m := NewMachine(Context{})
	appFrame := protocol.Encode(protocol.Application, []byte("payload"))
	_, _, err := m.ProcessIncoming(appFrame)
	require.Error(t, err)
}

func TestProcessIncomingCodeGeneration(t *testing.T) {
	m := NewMachine(Context{})
	m.Dispatch(EventInitiate, EventData{})
	m.Dispatch(EventAccept, EventData{AgreedProtocol: "gRPC"})

	state, _, err := m.ProcessIncoming(frame(t, `{"action":"codeGeneration","status":"generated"}`))
	require.NoError(t, err)
	require.Equal(t, TestCases, state)
}

func TestProcessIncomingTestCasesNegotiation(t *testing.T) {
	m := NewMachine(Context{})
	m.Dispatch(EventInitiate, EventData{})
	m.Dispatch(EventAccept, EventData{})
	m.Dispatch(EventCodeReady, EventData{})

	state, ctx, err := m.ProcessIncoming(frame(t, `{"action":"testCasesNegotiation","testCases":"case1,case2","status":"accepted"}`))
	require.NoError(t, err)
	require.Equal(t, Testing, state)
	require.Equal(t, "case1,case2", ctx.TestCases)
}

func TestProcessIncomingFixErrorNegotiation(t *testing.T) {
	m := NewMachine(Context{})
	m.Dispatch(EventInitiate, EventData{})
	m.Dispatch(EventAccept, EventData{})
	m.Dispatch(EventCodeReady, EventData{})
	m.Dispatch(EventTestsAgreed, EventData{})
	m.Dispatch(EventTestsFailed, EventData{ErrorMessage: "boom"})

	state, _, err := m.ProcessIncoming(frame(t, `{"action":"fixErrorNegotiation","errorDescription":"boom","status":"accepted"}`))
	require.NoError(t, err)
	require.Equal(t, CodeGeneration, state)
}

func TestProcessIncomingMalformedFrameErrors(t *testing.T) {
	m := NewMachine(Context{})
	_, _, err := m.ProcessIncoming(nil)
	require.Error(t, err)
}

func TestProcessIncomingNaturalLanguageCannotDriveMachine(t *testing.T) {
	m := NewMachine(Context{})
	_, _, err := m.ProcessIncoming(frame(t, `{"action":"naturalLanguageNegotiation","type":"REQUEST","messageId":"m1","message":"hi"}`))
	require.Error(t, err)
}
