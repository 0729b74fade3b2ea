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

package did

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/google/uuid"
)

// AuthHeaders are the five HTTP header values a caller attaches to an
// outbound request authenticated as a DID identity.
type AuthHeaders struct {
	DID                string
	Nonce              string
	Timestamp          string
	VerificationMethod string
	Signature          string
}

// authPayload is canonicalized and signed to produce AuthHeaders.Signature.
type authPayload struct {
	DID                string `json:"did"`
	Nonce              string `json:"nonce"`
	Timestamp          string `json:"timestamp"`
	VerificationMethod string `json:"verificationMethod"`
}

// BuildAuthHeaders signs a fresh {did, nonce, timestamp, verificationMethod}
// payload with identity's authentication key and returns the header set
// a transport attaches to an outbound request.
func BuildAuthHeaders(m *Manager, identity *Identity) (*AuthHeaders, error) {
	nonce := uuid.NewString()
	timestamp := time.Now().UTC().Format(time.RFC3339)
	authID := identity.AuthKeyID()

	payload := authPayload{
		DID:                identity.DID,
		Nonce:              nonce,
		Timestamp:          timestamp,
		VerificationMethod: authID,
	}

	canonical, err := canonicalizeAuthPayload(&payload)
	if err != nil {
		return nil, newAuthenticationError("failed to canonicalize auth payload", err)
	}

	sig, err := m.Sign(identity, canonical)
	if err != nil {
		return nil, err
	}

	return &AuthHeaders{
		DID:                identity.DID,
		Nonce:              nonce,
		Timestamp:          timestamp,
		VerificationMethod: authID,
		Signature:          base64.RawURLEncoding.EncodeToString(sig.Value),
	}, nil
}

// VerifyAuthHeaders checks h.Signature against the canonicalized
// {did, nonce, timestamp, verificationMethod} payload, resolving the
// signer's DID document (or using doc, if supplied) to locate the
// named verification method. Never errors: it returns false for any
// malformed or mismatched input.
func VerifyAuthHeaders(ctx context.Context, m *Manager, h *AuthHeaders, doc *Document) bool {
	if h == nil || h.DID == "" || h.VerificationMethod == "" {
		return false
	}
	sig, err := base64.RawURLEncoding.DecodeString(h.Signature)
	if err != nil {
		return false
	}
	payload := authPayload{
		DID:                h.DID,
		Nonce:              h.Nonce,
		Timestamp:          h.Timestamp,
		VerificationMethod: h.VerificationMethod,
	}
	canonical, err := canonicalizeAuthPayload(&payload)
	if err != nil {
		return false
	}
	return m.Verify(ctx, h.DID, h.VerificationMethod, canonical, sig, doc)
}

func canonicalizeAuthPayload(p *authPayload) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return jsoncanonicalizer.Transform(raw)
}
