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

package formats

import (
	stdcrypto "crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/crypto/keys"
)

type pemExporter struct{}

// NewPEMExporter returns a KeyExporter that produces/consumes PEM.
func NewPEMExporter() anpcrypto.KeyExporter { return &pemExporter{} }

func (e *pemExporter) Export(keyPair anpcrypto.KeyPair, format anpcrypto.KeyFormat) ([]byte, error) {
	if format != anpcrypto.KeyFormatPEM {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}

	switch keyPair.Type() {
	case anpcrypto.KeyTypeEd25519:
		privateKey, ok := keyPair.PrivateKey().(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("invalid Ed25519 private key type")
		}
		derBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal Ed25519 private key: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: derBytes}), nil

	case anpcrypto.KeyTypeSecp256k1:
		privateKey, ok := keyPair.PrivateKey().(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("invalid Secp256k1 private key type")
		}
		privKeyBytes := pad32(privateKey.D.Bytes())
		// x509 has no secp256k1 OID, so we store the raw 32-byte scalar
		// under a custom header rather than a standards-compliant ASN.1
		// encoding. JWK is preferred for secp256k1 interop.
		block := &pem.Block{
			Type:    "EC PRIVATE KEY",
			Bytes:   privKeyBytes,
			Headers: map[string]string{"Curve": "secp256k1"},
		}
		return pem.EncodeToMemory(block), nil

	default:
		return nil, anpcrypto.ErrInvalidKeyType
	}
}

func (e *pemExporter) ExportPublic(keyPair anpcrypto.KeyPair, format anpcrypto.KeyFormat) ([]byte, error) {
	if format != anpcrypto.KeyFormatPEM {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}

	switch keyPair.Type() {
	case anpcrypto.KeyTypeEd25519:
		derBytes, err := x509.MarshalPKIXPublicKey(keyPair.PublicKey())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal Ed25519 public key: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: derBytes}), nil

	case anpcrypto.KeyTypeSecp256k1:
		publicKey, ok := keyPair.PublicKey().(*ecdsa.PublicKey)
		if !ok {
			return nil, errors.New("invalid Secp256k1 public key type")
		}
		pubKeyBytes := append(pad32(publicKey.X.Bytes()), pad32(publicKey.Y.Bytes())...)
		block := &pem.Block{
			Type:    "PUBLIC KEY",
			Bytes:   pubKeyBytes,
			Headers: map[string]string{"Curve": "secp256k1"},
		}
		return pem.EncodeToMemory(block), nil

	default:
		return nil, anpcrypto.ErrInvalidKeyType
	}
}

func pad32(b []byte) []byte {
	if len(b) >= 32 {
		return b
	}
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	return padded
}

type pemImporter struct{}

// NewPEMImporter returns a KeyImporter that consumes PEM.
func NewPEMImporter() anpcrypto.KeyImporter { return &pemImporter{} }

func (i *pemImporter) Import(data []byte, format anpcrypto.KeyFormat) (anpcrypto.KeyPair, error) {
	if format != anpcrypto.KeyFormatPEM {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	switch block.Type {
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS8 private key: %w", err)
		}
		switch privateKey := key.(type) {
		case ed25519.PrivateKey:
			return keys.NewEd25519KeyPair(privateKey, "")
		case *ecdsa.PrivateKey:
			secp256k1PrivKey := secp256k1.PrivKeyFromBytes(privateKey.D.Bytes())
			return keys.NewSecp256k1KeyPair(secp256k1PrivKey, ""), nil
		default:
			return nil, fmt.Errorf("unsupported private key type: %T", privateKey)
		}

	case "EC PRIVATE KEY":
		if curve, ok := block.Headers["Curve"]; ok && curve == "secp256k1" {
			if len(block.Bytes) != 32 {
				return nil, fmt.Errorf("invalid secp256k1 private key length: %d", len(block.Bytes))
			}
			secp256k1PrivKey := secp256k1.PrivKeyFromBytes(block.Bytes)
			return keys.NewSecp256k1KeyPair(secp256k1PrivKey, ""), nil
		}
		return nil, errors.New("standard EC private key format not supported for secp256k1")

	default:
		return nil, fmt.Errorf("unsupported PEM block type: %s", block.Type)
	}
}

func (i *pemImporter) ImportPublic(data []byte, format anpcrypto.KeyFormat) (stdcrypto.PublicKey, error) {
	if format != anpcrypto.KeyFormatPEM {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	if block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("expected PUBLIC KEY, got %s", block.Type)
	}

	if curve, ok := block.Headers["Curve"]; ok && curve == "secp256k1" {
		if len(block.Bytes) != 64 {
			return nil, fmt.Errorf("invalid secp256k1 public key length: %d", len(block.Bytes))
		}
		return &ecdsa.PublicKey{
			Curve: secp256k1.S256(),
			X:     new(big.Int).SetBytes(block.Bytes[:32]),
			Y:     new(big.Int).SetBytes(block.Bytes[32:]),
		}, nil
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
	}
	switch key := publicKey.(type) {
	case ed25519.PublicKey:
		return key, nil
	case *ecdsa.PublicKey:
		return key, nil
	default:
		return nil, fmt.Errorf("unsupported public key type: %T", publicKey)
	}
}
