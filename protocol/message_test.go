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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMetaProtocolNegotiation(t *testing.T) {
	raw := []byte(`{"action":"protocolNegotiation","sequenceId":1,"candidateProtocols":"meteringProtocol","status":"negotiating"}`)
	msg, err := ParseMeta(raw)
	require.NoError(t, err)

	pn, ok := msg.(ProtocolNegotiationMessage)
	require.True(t, ok)
	require.Equal(t, 1, pn.SequenceID)
	require.Equal(t, "meteringProtocol", pn.CandidateProtocols)
	require.Equal(t, StatusNegotiating, pn.Status)
	require.Equal(t, ActionProtocolNegotiation, pn.MessageAction())
}

func TestParseMetaProtocolNegotiationRejectsBadStatus(t *testing.T) {
	raw := []byte(`{"action":"protocolNegotiation","sequenceId":1,"candidateProtocols":"x","status":"bogus"}`)
	_, err := ParseMeta(raw)
	require.Error(t, err)
}

func TestParseMetaCodeGeneration(t *testing.T) {
	raw := []byte(`{"action":"codeGeneration","status":"generated"}`)
	msg, err := ParseMeta(raw)
	require.NoError(t, err)
	cg, ok := msg.(CodeGenerationMessage)
	require.True(t, ok)
	require.Equal(t, StatusGenerated, cg.Status)
}

func TestParseMetaTestCasesNegotiation(t *testing.T) {
	raw := []byte(`{"action":"testCasesNegotiation","testCases":"case1,case2","status":"accepted"}`)
	msg, err := ParseMeta(raw)
	require.NoError(t, err)
	tc, ok := msg.(TestCasesNegotiationMessage)
	require.True(t, ok)
	require.Equal(t, "case1,case2", tc.TestCases)
	require.Equal(t, StatusAccepted, tc.Status)
}

func TestParseMetaFixErrorNegotiation(t *testing.T) {
	raw := []byte(`{"action":"fixErrorNegotiation","errorDescription":"timeout","status":"rejected"}`)
	msg, err := ParseMeta(raw)
	require.NoError(t, err)
	fe, ok := msg.(FixErrorNegotiationMessage)
	require.True(t, ok)
	require.Equal(t, "timeout", fe.ErrorDescription)
	require.Equal(t, StatusRejected, fe.Status)
}

func TestParseMetaNaturalLanguageNegotiation(t *testing.T) {
	raw := []byte(`{"action":"naturalLanguageNegotiation","type":"REQUEST","messageId":"abc-123","message":"hello"}`)
	msg, err := ParseMeta(raw)
	require.NoError(t, err)
	nl, ok := msg.(NaturalLanguageNegotiationMessage)
	require.True(t, ok)
	require.Equal(t, NaturalLanguageRequest, nl.Type)
	require.Equal(t, "abc-123", nl.MessageID)
}

func TestParseMetaUnknownAction(t *testing.T) {
	raw := []byte(`{"action":"doesNotExist"}`)
	_, err := ParseMeta(raw)
	require.Error(t, err)
}

func TestParseMetaInvalidJSON(t *testing.T) {
	_, err := ParseMeta([]byte(`not json`))
	require.Error(t, err)
}

func TestParseMetaInvalidUTF8(t *testing.T) {
	_, err := ParseMeta([]byte{0xff, 0xfe, 0x00})
	require.Error(t, err)
}

func TestEncodeMetaRoundTripsThroughParseMeta(t *testing.T) {
	frame, err := EncodeMeta(ProtocolNegotiationMessage{
		SequenceID:         7,
		CandidateProtocols: "gRPC",
		Status:             StatusAccepted,
	})
	require.NoError(t, err)

	pt, payload, err := Decode(frame)
	require.NoError(t, err)
	require.Equal(t, Meta, pt)

	msg, err := ParseMeta(payload)
	require.NoError(t, err)
	pn, ok := msg.(ProtocolNegotiationMessage)
	require.True(t, ok)
	require.Equal(t, 7, pn.SequenceID)
	require.Equal(t, "gRPC", pn.CandidateProtocols)
	require.Equal(t, StatusAccepted, pn.Status)
}

func TestNewNaturalLanguageRequestGeneratesID(t *testing.T) {
	a := NewNaturalLanguageRequest("hi")
	b := NewNaturalLanguageRequest("hi")
	require.NotEmpty(t, a.MessageID)
	require.NotEqual(t, a.MessageID, b.MessageID)
	require.Equal(t, NaturalLanguageRequest, a.Type)
}
