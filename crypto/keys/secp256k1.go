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
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	anpcrypto "github.com/anp-x/anp-go/crypto"
)

// secp256k1KeyPair implements anpcrypto.KeyPair for the
// EcdsaSecp256k1VerificationKey2019 key kind.
type secp256k1KeyPair struct {
	privateKey *secp256k1.PrivateKey
	publicKey  *secp256k1.PublicKey
	id         string
}

// GenerateSecp256k1KeyPair generates a fresh secp256k1 key pair.
func GenerateSecp256k1KeyPair() (anpcrypto.KeyPair, error) {
	privateKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return NewSecp256k1KeyPair(privateKey, ""), nil
}

// NewSecp256k1KeyPair wraps an existing secp256k1 private key.
func NewSecp256k1KeyPair(privateKey *secp256k1.PrivateKey, id string) anpcrypto.KeyPair {
	publicKey := privateKey.PubKey()
	if id == "" {
		hash := sha256.Sum256(publicKey.SerializeCompressed())
		id = hex.EncodeToString(hash[:8])
	}
	return &secp256k1KeyPair{privateKey: privateKey, publicKey: publicKey, id: id}
}

func (kp *secp256k1KeyPair) PublicKey() crypto.PublicKey   { return kp.publicKey.ToECDSA() }
func (kp *secp256k1KeyPair) PrivateKey() crypto.PrivateKey { return kp.privateKey.ToECDSA() }
func (kp *secp256k1KeyPair) Type() anpcrypto.KeyType       { return anpcrypto.KeyTypeSecp256k1 }
func (kp *secp256k1KeyPair) ID() string                    { return kp.id }

// Sign hashes message with SHA-256 and returns the IEEE-P1363 r‖s
// encoding of the ECDSA signature, not ASN.1 DER.
func (kp *secp256k1KeyPair) Sign(message []byte) ([]byte, error) {
	hash := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(rand.Reader, kp.privateKey.ToECDSA(), hash[:])
	if err != nil {
		return nil, err
	}
	return serializeSignature(r, s), nil
}

func (kp *secp256k1KeyPair) Verify(message, signature []byte) error {
	hash := sha256.Sum256(message)
	r, s, err := deserializeSignature(signature)
	if err != nil {
		return anpcrypto.ErrInvalidSignature
	}
	if !ecdsa.Verify(kp.publicKey.ToECDSA(), hash[:], r, s) {
		return anpcrypto.ErrInvalidSignature
	}
	return nil
}

// serializeSignature encodes r and s as fixed-width 32-byte big-endian
// integers concatenated r‖s, per IEEE-P1363.
func serializeSignature(r, s *big.Int) []byte {
	rBytes := r.Bytes()
	sBytes := s.Bytes()
	signature := make([]byte, 64)
	copy(signature[32-len(rBytes):32], rBytes)
	copy(signature[64-len(sBytes):64], sBytes)
	return signature
}

func deserializeSignature(data []byte) (*big.Int, *big.Int, error) {
	if len(data) != 64 {
		return nil, nil, anpcrypto.ErrInvalidSignature
	}
	r := new(big.Int).SetBytes(data[:32])
	s := new(big.Int).SetBytes(data[32:])
	return r, s, nil
}
