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
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/anp-x/anp-go/internal/metrics"
)

// Action discriminates a meta-protocol message.
type Action string

const (
	ActionProtocolNegotiation     Action = "protocolNegotiation"
	ActionCodeGeneration          Action = "codeGeneration"
	ActionTestCasesNegotiation    Action = "testCasesNegotiation"
	ActionFixErrorNegotiation     Action = "fixErrorNegotiation"
	ActionNaturalLanguageNegotiation Action = "naturalLanguageNegotiation"
)

// Status values shared across the negotiation-shaped messages.
const (
	StatusNegotiating Status = "negotiating"
	StatusRejected    Status = "rejected"
	StatusAccepted    Status = "accepted"
	StatusTimeout     Status = "timeout"
	StatusGenerated   Status = "generated"
	StatusError       Status = "error"
)

// Status is the wire status string of a negotiation-shaped message.
type Status string

// Message is implemented by every concrete meta-protocol message type.
type Message interface {
	MessageAction() Action
}

// ProtocolNegotiationMessage proposes or responds to application
// protocol candidates.
type ProtocolNegotiationMessage struct {
	SequenceID           int    `json:"sequenceId"`
	CandidateProtocols   string `json:"candidateProtocols"`
	ModificationSummary  string `json:"modificationSummary,omitempty"`
	Status               Status `json:"status"`
}

func (ProtocolNegotiationMessage) MessageAction() Action { return ActionProtocolNegotiation }

// CodeGenerationMessage reports the outcome of generating integration code.
type CodeGenerationMessage struct {
	Status Status `json:"status"`
}

func (CodeGenerationMessage) MessageAction() Action { return ActionCodeGeneration }

// TestCasesNegotiationMessage proposes or responds to a set of test cases.
type TestCasesNegotiationMessage struct {
	TestCases           string `json:"testCases"`
	ModificationSummary string `json:"modificationSummary,omitempty"`
	Status              Status `json:"status"`
}

func (TestCasesNegotiationMessage) MessageAction() Action { return ActionTestCasesNegotiation }

// FixErrorNegotiationMessage proposes or responds to a fix for a
// failing test case.
type FixErrorNegotiationMessage struct {
	ErrorDescription string `json:"errorDescription"`
	Status           Status `json:"status"`
}

func (FixErrorNegotiationMessage) MessageAction() Action { return ActionFixErrorNegotiation }

// NaturalLanguageMessageType distinguishes a natural-language request
// from its response.
type NaturalLanguageMessageType string

const (
	NaturalLanguageRequest  NaturalLanguageMessageType = "REQUEST"
	NaturalLanguageResponse NaturalLanguageMessageType = "RESPONSE"
)

// NaturalLanguageNegotiationMessage carries free-form natural-language
// negotiation text, outside the structured action types.
type NaturalLanguageNegotiationMessage struct {
	Type      NaturalLanguageMessageType `json:"type"`
	MessageID string                     `json:"messageId"`
	Message   string                     `json:"message"`
}

func (NaturalLanguageNegotiationMessage) MessageAction() Action {
	return ActionNaturalLanguageNegotiation
}

// NewNaturalLanguageRequest builds a request message with a fresh
// random message id.
func NewNaturalLanguageRequest(text string) *NaturalLanguageNegotiationMessage {
	return &NaturalLanguageNegotiationMessage{
		Type:      NaturalLanguageRequest,
		MessageID: uuid.NewString(),
		Message:   text,
	}
}

// envelope is used only to read the discriminator before dispatching
// to a concrete type.
type envelope struct {
	Action Action `json:"action"`
}

// EncodeMeta marshals msg with its "action" discriminator included and
// wraps it in a META frame, the inverse of Decode+ParseMeta.
func EncodeMeta(msg Message) ([]byte, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, newProtocolError("failed to encode meta-protocol message", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, newProtocolError("failed to encode meta-protocol message", err)
	}
	fields["action"] = msg.MessageAction()
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, newProtocolError("failed to encode meta-protocol message", err)
	}
	return Encode(Meta, payload), nil
}

// ParseMeta UTF-8 decodes, JSON-parses, and discriminates data into a
// concrete Message by its "action" field. Any malformed or unknown
// payload raises ProtocolNegotiationError.
func ParseMeta(data []byte) (Message, error) {
	msg, err := parseMeta(data)
	action := "unknown"
	if msg != nil {
		action = string(msg.MessageAction())
	}
	status := "ok"
	if err != nil {
		status = "malformed"
	}
	metrics.MetaMessagesParsed.WithLabelValues(action, status).Inc()
	return msg, err
}

func parseMeta(data []byte) (Message, error) {
	if !utf8.Valid(data) {
		return nil, newProtocolError("meta-protocol payload is not valid UTF-8", nil)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, newProtocolError("failed to parse meta-protocol message JSON", err)
	}

	switch env.Action {
	case ActionProtocolNegotiation:
		var msg ProtocolNegotiationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, newProtocolError("malformed protocolNegotiation message", err)
		}
		if err := validateStatus(msg.Status, StatusNegotiating, StatusRejected, StatusAccepted, StatusTimeout); err != nil {
			return nil, err
		}
		return msg, nil

	case ActionCodeGeneration:
		var msg CodeGenerationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, newProtocolError("malformed codeGeneration message", err)
		}
		if err := validateStatus(msg.Status, StatusGenerated, StatusError); err != nil {
			return nil, err
		}
		return msg, nil

	case ActionTestCasesNegotiation:
		var msg TestCasesNegotiationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, newProtocolError("malformed testCasesNegotiation message", err)
		}
		if err := validateStatus(msg.Status, StatusNegotiating, StatusRejected, StatusAccepted); err != nil {
			return nil, err
		}
		return msg, nil

	case ActionFixErrorNegotiation:
		var msg FixErrorNegotiationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, newProtocolError("malformed fixErrorNegotiation message", err)
		}
		if err := validateStatus(msg.Status, StatusNegotiating, StatusRejected, StatusAccepted); err != nil {
			return nil, err
		}
		return msg, nil

	case ActionNaturalLanguageNegotiation:
		var msg NaturalLanguageNegotiationMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, newProtocolError("malformed naturalLanguageNegotiation message", err)
		}
		if msg.Type != NaturalLanguageRequest && msg.Type != NaturalLanguageResponse {
			return nil, newProtocolError(fmt.Sprintf("invalid naturalLanguageNegotiation type: %q", msg.Type), nil)
		}
		if msg.MessageID == "" {
			return nil, newProtocolError("naturalLanguageNegotiation message missing messageId", nil)
		}
		return msg, nil

	default:
		return nil, newProtocolError(fmt.Sprintf("unknown meta-protocol action: %q", env.Action), nil)
	}
}

func validateStatus(got Status, allowed ...Status) error {
	for _, s := range allowed {
		if got == s {
			return nil
		}
	}
	return newProtocolError(fmt.Sprintf("invalid status %q", got), nil)
}
