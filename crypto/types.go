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

// Package crypto defines the key and primitive abstractions shared by
// every concrete key type under crypto/keys and every export format
// under crypto/formats.
package crypto

import (
	"crypto"
	"errors"
)

// KeyType identifies the cryptographic algorithm a KeyPair implements.
type KeyType string

const (
	KeyTypeEd25519   KeyType = "Ed25519"
	KeyTypeX25519    KeyType = "X25519"
	KeyTypeSecp256k1 KeyType = "Secp256k1"
)

// KeyFormat identifies a key serialization format.
type KeyFormat string

const (
	KeyFormatJWK KeyFormat = "JWK"
	KeyFormatPEM KeyFormat = "PEM"
)

// KeyPair is implemented by every concrete key type in crypto/keys.
type KeyPair interface {
	PublicKey() crypto.PublicKey
	PrivateKey() crypto.PrivateKey
	Type() KeyType
	Sign(message []byte) ([]byte, error)
	Verify(message, signature []byte) error
	ID() string
}

// KeyExporter serializes a KeyPair to a KeyFormat.
type KeyExporter interface {
	Export(keyPair KeyPair, format KeyFormat) ([]byte, error)
	ExportPublic(keyPair KeyPair, format KeyFormat) ([]byte, error)
}

// KeyImporter deserializes a KeyPair from a KeyFormat.
type KeyImporter interface {
	Import(data []byte, format KeyFormat) (KeyPair, error)
	ImportPublic(data []byte, format KeyFormat) (crypto.PublicKey, error)
}

// Common errors.
var (
	ErrInvalidKeyType     = errors.New("invalid key type")
	ErrInvalidKeyFormat   = errors.New("invalid key format")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrSignNotSupported   = errors.New("key type does not support signing")
	ErrVerifyNotSupported = errors.New("key type does not support signature verification")
)
