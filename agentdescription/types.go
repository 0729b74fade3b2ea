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

// Package agentdescription builds, signs, and verifies the signed
// JSON-LD-style Agent Description document: an agent's
// published name, interfaces, and information entries, optionally
// bound to a DID with an Ed25519Signature2020 proof.
package agentdescription

// SecurityDefinition describes one authentication scheme an agent
// advertises in securityDefinitions.
type SecurityDefinition struct {
	Scheme      string `json:"scheme"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Information is one entry of the (deliberately misspelled) Infomations
// array: a piece of reference material about the agent.
type Information struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Interface is one entry of the interfaces array: an endpoint exposing
// a particular application protocol.
type Interface struct {
	Type        string `json:"type"`
	Protocol    string `json:"protocol"`
	Version     string `json:"version"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Proof is the Ed25519Signature2020 proof attached to a signed
// description. ProofValue is base64url of the raw signature.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	Challenge          string `json:"challenge,omitempty"`
	Domain             string `json:"domain,omitempty"`
	ProofValue         string `json:"proofValue"`
}

const (
	ProofTypeEd25519Signature2020 = "Ed25519Signature2020"
	ProofPurposeAuthentication    = "authentication"
)

// Description is the wire shape of an Agent Description document.
// The "Infomations" field spelling is wire-canonical
// and must be preserved exactly.
type Description struct {
	ProtocolType        string                        `json:"protocolType"`
	ProtocolVersion     string                        `json:"protocolVersion"`
	Type                string                        `json:"type"`
	Name                string                        `json:"name"`
	DID                 string                        `json:"did,omitempty"`
	Owner               string                        `json:"owner,omitempty"`
	Description         string                        `json:"description,omitempty"`
	Created             string                        `json:"created"`
	SecurityDefinitions map[string]SecurityDefinition `json:"securityDefinitions"`
	Security            string                        `json:"security"`
	Infomations         []Information                 `json:"Infomations,omitempty"`
	Interfaces          []Interface                   `json:"interfaces,omitempty"`
	Proof               *Proof                        `json:"proof,omitempty"`
}

const (
	DefaultProtocolType    = "ANP"
	DefaultProtocolVersion = "1.0.0"
	DescriptionType        = "AgentDescription"
	SecuritySchemeDIDWBA   = "did_wba"
)

// Metadata parameterizes Create.
type Metadata struct {
	Name        string
	DID         string
	Owner       string
	Description string
}

// clone deep-copies a Description so add_information/add_interface/sign
// never mutate the caller's value.
func (d *Description) clone() *Description {
	out := *d
	out.SecurityDefinitions = make(map[string]SecurityDefinition, len(d.SecurityDefinitions))
	for k, v := range d.SecurityDefinitions {
		out.SecurityDefinitions[k] = v
	}
	out.Infomations = append([]Information(nil), d.Infomations...)
	out.Interfaces = append([]Interface(nil), d.Interfaces...)
	if d.Proof != nil {
		p := *d.Proof
		out.Proof = &p
	}
	return &out
}
