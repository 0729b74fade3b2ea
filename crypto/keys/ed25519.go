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

package keys

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	anpcrypto "github.com/anp-x/anp-go/crypto"
)

// ed25519KeyPair implements anpcrypto.KeyPair for the authentication key kind.
type ed25519KeyPair struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	id         string
}

// GenerateEd25519KeyPair generates a fresh Ed25519 authentication key pair.
func GenerateEd25519KeyPair() (anpcrypto.KeyPair, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return NewEd25519KeyPair(privateKey, "")
}

// NewEd25519KeyPair wraps an existing Ed25519 private key. If id is empty
// it is derived from the public key hash.
func NewEd25519KeyPair(privateKey ed25519.PrivateKey, id string) (anpcrypto.KeyPair, error) {
	publicKey := privateKey.Public().(ed25519.PublicKey)
	if id == "" {
		id = deriveID(publicKey)
	}
	return &ed25519KeyPair{privateKey: privateKey, publicKey: publicKey, id: id}, nil
}

func deriveID(publicKey ed25519.PublicKey) string {
	hash := sha256.Sum256(publicKey)
	return hex.EncodeToString(hash[:8])
}

func (kp *ed25519KeyPair) PublicKey() crypto.PublicKey  { return kp.publicKey }
func (kp *ed25519KeyPair) PrivateKey() crypto.PrivateKey { return kp.privateKey }
func (kp *ed25519KeyPair) Type() anpcrypto.KeyType       { return anpcrypto.KeyTypeEd25519 }
func (kp *ed25519KeyPair) ID() string                    { return kp.id }

// Sign produces a raw 64-byte Ed25519 signature.
func (kp *ed25519KeyPair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(kp.privateKey, message), nil
}

// Verify reports whether signature is valid for message. It never panics
// on malformed input; callers that need the boolean-only verify
// contract should use crypto.Verify instead.
func (kp *ed25519KeyPair) Verify(message, signature []byte) error {
	if !ed25519.Verify(kp.publicKey, message, signature) {
		return anpcrypto.ErrInvalidSignature
	}
	return nil
}
