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

// Package did implements the did:wba decentralized identifier method:
// construction, well-known document resolution with a TTL cache, and
// DID-based signing/verification.
package did

import (
	"time"

	anpcrypto "github.com/anp-x/anp-go/crypto"
)

// Verification method type URIs recognized on the wire.
const (
	TypeEd25519VerificationKey2020    = "Ed25519VerificationKey2020"
	TypeX25519KeyAgreementKey2019     = "X25519KeyAgreementKey2019"
	TypeEcdsaSecp256k1VerificationKey = "EcdsaSecp256k1VerificationKey2019"
)

// Fragment names used by identities this package creates.
const (
	FragmentAuthKey      = "auth-key"
	FragmentKeyAgreement = "key-agreement"
)

// VerificationMethod is one entry of a DID document's verificationMethod array.
type VerificationMethod struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	Controller   string                 `json:"controller"`
	PublicKeyJWK map[string]interface{} `json:"publicKeyJwk"`
}

// Document is a resolved DID document.
type Document struct {
	Context            []string              `json:"@context"`
	ID                 string                `json:"id"`
	VerificationMethod []VerificationMethod  `json:"verificationMethod"`
	Authentication     []string              `json:"authentication"`
	KeyAgreement       []string              `json:"keyAgreement,omitempty"`
}

// FindVerificationMethod locates a verification method by its full id
// (`<did>#<fragment>`).
func (d *Document) FindVerificationMethod(id string) *VerificationMethod {
	for i := range d.VerificationMethod {
		if d.VerificationMethod[i].ID == id {
			return &d.VerificationMethod[i]
		}
	}
	return nil
}

// PrivateKeyEntry is the private half of one verification method,
// keyed by the method's full id within an Identity.
type PrivateKeyEntry struct {
	KeyPair anpcrypto.KeyPair
	KeyType anpcrypto.KeyType
}

// Identity is the private side of a DID: the document plus the private
// key material for every verification method it lists. It resides only
// in the process that called Create and is never serialized.
type Identity struct {
	DID         string
	Document    *Document
	PrivateKeys map[string]PrivateKeyEntry
}

// AuthKeyID returns the full id of this identity's authentication key.
func (id *Identity) AuthKeyID() string {
	return id.DID + "#" + FragmentAuthKey
}

// KeyAgreementKeyID returns the full id of this identity's key-agreement key.
func (id *Identity) KeyAgreementKeyID() string {
	return id.DID + "#" + FragmentKeyAgreement
}

// Signature is the result of Manager.Sign: a raw signature plus the id
// of the verification method that produced it.
type Signature struct {
	Value                []byte
	VerificationMethodID string
}

// CreateOptions parameterize Manager.Create.
type CreateOptions struct {
	Domain string
	Port   *int
	Path   []string
}

// cacheEntry is one DID cache row; immutable once inserted.
type cacheEntry struct {
	document   *Document
	insertedAt time.Time
}
