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
	"fmt"
	"strings"

	"github.com/anp-x/anp-go/internal/logger"
	"github.com/anp-x/anp-go/protocol"
)

func newNegotiationError(message string, cause error) *logger.ANPError {
	return logger.NewANPError(logger.ErrCodeProtocolNegotiation, message, cause)
}

// ProcessIncoming decodes frame, requires it to carry a META payload,
// parses the meta-protocol message, maps it to its corresponding
// event, and dispatches it against m.
func (m *Machine) ProcessIncoming(frame []byte) (State, Context, error) {
	pt, data, err := protocol.Decode(frame)
	if err != nil {
		return m.State(), m.Context(), err
	}
	if pt != protocol.Meta {
		return m.State(), m.Context(), newNegotiationError(fmt.Sprintf("expected META frame, got %s", pt), nil)
	}

	msg, err := protocol.ParseMeta(data)
	if err != nil {
		return m.State(), m.Context(), err
	}

	event, eventData, err := eventForMessage(msg)
	if err != nil {
		return m.State(), m.Context(), err
	}

	state, ctx := m.Dispatch(event, eventData)
	return state, ctx, nil
}

// eventForMessage maps a parsed meta-protocol message to its
// corresponding event and event data.
func eventForMessage(msg protocol.Message) (Event, EventData, error) {
	switch m := msg.(type) {
	case protocol.ProtocolNegotiationMessage:
		switch m.Status {
		case protocol.StatusNegotiating:
			return EventReceiveRequest, EventData{CandidateProtocols: m.CandidateProtocols, SequenceID: m.SequenceID}, nil
		case protocol.StatusAccepted:
			if strings.Contains(m.CandidateProtocols, ",") {
				return "", EventData{}, newNegotiationError(
					fmt.Sprintf("accepted protocolNegotiation must name a single protocol, got %q", m.CandidateProtocols), nil)
			}
			return EventAccept, EventData{AgreedProtocol: m.CandidateProtocols}, nil
		case protocol.StatusRejected:
			return EventReject, EventData{}, nil
		case protocol.StatusTimeout:
			return EventTimeout, EventData{}, nil
		}

	case protocol.CodeGenerationMessage:
		switch m.Status {
		case protocol.StatusGenerated:
			return EventCodeReady, EventData{}, nil
		case protocol.StatusError:
			return EventCodeError, EventData{ErrorMessage: "code generation failed"}, nil
		}

	case protocol.TestCasesNegotiationMessage:
		switch m.Status {
		case protocol.StatusAccepted:
			return EventTestsAgreed, EventData{TestCases: m.TestCases}, nil
		case protocol.StatusRejected:
			return EventSkipTests, EventData{}, nil
		}

	case protocol.FixErrorNegotiationMessage:
		switch m.Status {
		case protocol.StatusAccepted:
			return EventFixAccepted, EventData{}, nil
		case protocol.StatusRejected:
			return EventFixRejected, EventData{ErrorMessage: m.ErrorDescription}, nil
		}
	}

	return "", EventData{}, newNegotiationError(fmt.Sprintf("message cannot be mapped to a negotiation event: %T", msg), nil)
}
