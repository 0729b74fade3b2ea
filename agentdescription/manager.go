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

package agentdescription

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anp-x/anp-go/did"
)

// Manager implements the Agent Description Manager's create/add/sign/
// verify/fetch contract.
type Manager struct {
	did        *did.Manager
	httpClient *http.Client
}

// NewManager builds a Manager that signs/verifies through didManager.
func NewManager(didManager *did.Manager) *Manager {
	return &Manager{
		did:        didManager,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Create builds a fresh Description from metadata: rejects an empty
// name, defaults protocolVersion, seeds the did_wba security scheme,
// and stamps Created with the current UTC time.
func (m *Manager) Create(meta Metadata) (*Description, error) {
	if meta.Name == "" {
		return nil, newValidationError("agent description name must not be empty", nil)
	}
	return &Description{
		ProtocolType:    DefaultProtocolType,
		ProtocolVersion: DefaultProtocolVersion,
		Type:            DescriptionType,
		Name:            meta.Name,
		DID:             meta.DID,
		Owner:           meta.Owner,
		Description:     meta.Description,
		Created:         time.Now().UTC().Format(time.RFC3339),
		SecurityDefinitions: map[string]SecurityDefinition{
			SecuritySchemeDIDWBA: {
				Scheme:      SecuritySchemeDIDWBA,
				Type:        "http",
				Description: "DID WBA based authentication",
			},
		},
		Security: SecuritySchemeDIDWBA,
	}, nil
}

// AddInformation returns a new Description with info appended to
// Infomations. Rejects an empty required field or a URL duplicating
// an existing entry; never mutates d.
func (m *Manager) AddInformation(d *Description, info Information) (*Description, error) {
	if info.Type == "" || info.Description == "" || info.URL == "" {
		return nil, newValidationError("information entry requires type, description, and url", nil)
	}
	for _, existing := range d.Infomations {
		if existing.URL == info.URL {
			return nil, newValidationError(fmt.Sprintf("duplicate information url: %q", info.URL), nil)
		}
	}
	out := d.clone()
	out.Infomations = append(out.Infomations, info)
	return out, nil
}

// AddInterface returns a new Description with iface appended to
// interfaces. Rejects an empty required field or a duplicate url.
func (m *Manager) AddInterface(d *Description, iface Interface) (*Description, error) {
	if iface.Type == "" || iface.Protocol == "" || iface.Version == "" || iface.URL == "" {
		return nil, newValidationError("interface entry requires type, protocol, version, and url", nil)
	}
	for _, existing := range d.Interfaces {
		if existing.URL == iface.URL {
			return nil, newValidationError(fmt.Sprintf("duplicate interface url: %q", iface.URL), nil)
		}
	}
	out := d.clone()
	out.Interfaces = append(out.Interfaces, iface)
	return out, nil
}

// Sign attaches a fresh Ed25519Signature2020 proof to d, signed by
// identity's authentication key. d.DID must be set and must equal
// identity.DID. The proof is always removed before canonicalization
// and reattached last, so it is never part of its own signature input.
func (m *Manager) Sign(d *Description, identity *did.Identity, challenge, domain string) (*Description, error) {
	if d.DID == "" {
		return nil, newAuthenticationError("cannot sign an agent description with no did", nil)
	}
	if d.DID != identity.DID {
		return nil, newAuthenticationError(fmt.Sprintf("description did %q does not match signing identity %q", d.DID, identity.DID), nil)
	}

	unsigned := d.clone()
	unsigned.Proof = nil
	canonical, err := canonicalize(unsigned)
	if err != nil {
		return nil, newValidationError("failed to canonicalize agent description", err)
	}

	sig, err := m.did.Sign(identity, canonical)
	if err != nil {
		return nil, err
	}

	unsigned.Proof = &Proof{
		Type:               ProofTypeEd25519Signature2020,
		Created:            time.Now().UTC().Format(time.RFC3339),
		VerificationMethod: sig.VerificationMethodID,
		ProofPurpose:       ProofPurposeAuthentication,
		Challenge:          challenge,
		Domain:             domain,
		ProofValue:         base64.RawURLEncoding.EncodeToString(sig.Value),
	}
	return unsigned, nil
}

// Verify reports whether d's proof is a valid signature over d (with
// the proof detached) per the named verification method, resolved
// through didManager or doc if supplied. Never errors: any failure
// mode yields false.
func (m *Manager) Verify(ctx context.Context, d *Description, doc *did.Document) bool {
	if d == nil || d.Proof == nil || d.DID == "" {
		return false
	}

	unsigned := d.clone()
	unsigned.Proof = nil
	canonical, err := canonicalize(unsigned)
	if err != nil {
		return false
	}

	sig, err := base64.RawURLEncoding.DecodeString(d.Proof.ProofValue)
	if err != nil {
		return false
	}

	return m.did.Verify(ctx, d.DID, d.Proof.VerificationMethod, canonical, sig, doc)
}

// VerifyWithDomain wraps Verify, additionally requiring proof.domain
// to equal expectedDomain.
func (m *Manager) VerifyWithDomain(ctx context.Context, d *Description, expectedDomain string, doc *did.Document) bool {
	if d == nil || d.Proof == nil || d.Proof.Domain != expectedDomain {
		return false
	}
	return m.Verify(ctx, d, doc)
}

// VerifyWithChallenge wraps Verify, additionally requiring
// proof.challenge to equal expectedChallenge.
func (m *Manager) VerifyWithChallenge(ctx context.Context, d *Description, expectedChallenge string, doc *did.Document) bool {
	if d == nil || d.Proof == nil || d.Proof.Challenge != expectedChallenge {
		return false
	}
	return m.Verify(ctx, d, doc)
}

// Fetch retrieves and structurally validates an Agent Description from url.
func (m *Manager) Fetch(ctx context.Context, url string) (*Description, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newNetworkError("failed to build agent description request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, newNetworkError("failed to fetch agent description", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newNetworkError(fmt.Sprintf("unexpected status fetching agent description: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError("failed to read agent description body", err)
	}

	var d Description
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, newValidationError("failed to parse agent description JSON", err)
	}
	if err := validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// validate checks the description's URL-uniqueness invariants.
func validate(d *Description) error {
	seen := make(map[string]struct{}, len(d.Infomations))
	for _, info := range d.Infomations {
		if _, ok := seen[info.URL]; ok {
			return newValidationError(fmt.Sprintf("duplicate information url: %q", info.URL), nil)
		}
		seen[info.URL] = struct{}{}
	}
	seen = make(map[string]struct{}, len(d.Interfaces))
	for _, iface := range d.Interfaces {
		if _, ok := seen[iface.URL]; ok {
			return newValidationError(fmt.Sprintf("duplicate interface url: %q", iface.URL), nil)
		}
		seen[iface.URL] = struct{}{}
	}
	return nil
}
