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

// Package formats implements key export/import for the JWK and PEM
// serializations referenced by agent description verification methods.
package formats

import (
	stdcrypto "crypto"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/crypto/keys"
)

// JWK is a JSON Web Key as required by the publicKeyJwk member of a
// verification method: kty/crv are always present; x is
// present for every key kind here and y only for EC (secp256k1).
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
	D   string `json:"d,omitempty"`
	Kid string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
}

type jwkExporter struct{}

// NewJWKExporter returns a KeyExporter that produces/consumes JWK.
func NewJWKExporter() anpcrypto.KeyExporter { return &jwkExporter{} }

func (e *jwkExporter) Export(keyPair anpcrypto.KeyPair, format anpcrypto.KeyFormat) ([]byte, error) {
	if format != anpcrypto.KeyFormatJWK {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}
	jwk := &JWK{Kid: keyPair.ID(), Use: "sig"}

	switch keyPair.Type() {
	case anpcrypto.KeyTypeEd25519:
		privateKey, ok := keyPair.PrivateKey().(ed25519.PrivateKey)
		if !ok {
			return nil, errors.New("invalid Ed25519 private key type")
		}
		publicKey := privateKey.Public().(ed25519.PublicKey)
		jwk.Kty = "OKP"
		jwk.Crv = "Ed25519"
		jwk.X = base64.RawURLEncoding.EncodeToString(publicKey)
		jwk.D = base64.RawURLEncoding.EncodeToString(privateKey.Seed())
		jwk.Alg = "EdDSA"

	case anpcrypto.KeyTypeSecp256k1:
		privateKey, ok := keyPair.PrivateKey().(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("invalid Secp256k1 private key type")
		}
		jwk.Kty = "EC"
		jwk.Crv = "secp256k1"
		jwk.X = base64.RawURLEncoding.EncodeToString(privateKey.X.Bytes())
		jwk.Y = base64.RawURLEncoding.EncodeToString(privateKey.Y.Bytes())
		jwk.D = base64.RawURLEncoding.EncodeToString(privateKey.D.Bytes())
		jwk.Alg = "ES256K"

	case anpcrypto.KeyTypeX25519:
		privKey, ok := keyPair.PrivateKey().(*ecdh.PrivateKey)
		if !ok {
			return nil, errors.New("invalid X25519 private key type")
		}
		pubKey := privKey.Public().(*ecdh.PublicKey)
		jwk.Use = "enc"
		jwk.Kty = "OKP"
		jwk.Crv = "X25519"
		jwk.X = base64.RawURLEncoding.EncodeToString(pubKey.Bytes())
		jwk.D = base64.RawURLEncoding.EncodeToString(privKey.Bytes())
		jwk.Alg = "ECDH-ES"

	default:
		return nil, anpcrypto.ErrInvalidKeyType
	}

	return json.Marshal(jwk)
}

func (e *jwkExporter) ExportPublic(keyPair anpcrypto.KeyPair, format anpcrypto.KeyFormat) ([]byte, error) {
	if format != anpcrypto.KeyFormatJWK {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}
	jwk := &JWK{Kid: keyPair.ID(), Use: "sig"}

	switch keyPair.Type() {
	case anpcrypto.KeyTypeEd25519:
		publicKey, ok := keyPair.PublicKey().(ed25519.PublicKey)
		if !ok {
			return nil, errors.New("invalid Ed25519 public key type")
		}
		jwk.Kty = "OKP"
		jwk.Crv = "Ed25519"
		jwk.X = base64.RawURLEncoding.EncodeToString(publicKey)
		jwk.Alg = "EdDSA"

	case anpcrypto.KeyTypeSecp256k1:
		publicKey, ok := keyPair.PublicKey().(*ecdsa.PublicKey)
		if !ok {
			return nil, errors.New("invalid Secp256k1 public key type")
		}
		jwk.Kty = "EC"
		jwk.Crv = "secp256k1"
		jwk.X = base64.RawURLEncoding.EncodeToString(publicKey.X.Bytes())
		jwk.Y = base64.RawURLEncoding.EncodeToString(publicKey.Y.Bytes())
		jwk.Alg = "ES256K"

	case anpcrypto.KeyTypeX25519:
		pubKey, ok := keyPair.PublicKey().(*ecdh.PublicKey)
		if !ok {
			return nil, errors.New("invalid X25519 public key type")
		}
		jwk.Use = "enc"
		jwk.Kty = "OKP"
		jwk.Crv = "X25519"
		jwk.X = base64.RawURLEncoding.EncodeToString(pubKey.Bytes())
		jwk.Alg = "ECDH-ES"

	default:
		return nil, anpcrypto.ErrInvalidKeyType
	}

	return json.Marshal(jwk)
}

type jwkImporter struct{}

// NewJWKImporter returns a KeyImporter that consumes JWK.
func NewJWKImporter() anpcrypto.KeyImporter { return &jwkImporter{} }

func (i *jwkImporter) Import(data []byte, format anpcrypto.KeyFormat) (anpcrypto.KeyPair, error) {
	if format != anpcrypto.KeyFormatJWK {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JWK: %w", err)
	}

	switch jwk.Kty {
	case "OKP":
		switch jwk.Crv {
		case "Ed25519":
			return i.importEd25519(&jwk)
		case "X25519":
			return i.importX25519(&jwk)
		default:
			return nil, fmt.Errorf("unsupported OKP curve: %s", jwk.Crv)
		}
	case "EC":
		if jwk.Crv != "secp256k1" {
			return nil, fmt.Errorf("unsupported EC curve: %s", jwk.Crv)
		}
		return i.importSecp256k1(&jwk)
	default:
		return nil, fmt.Errorf("unsupported key type: %s", jwk.Kty)
	}
}

func (i *jwkImporter) ImportPublic(data []byte, format anpcrypto.KeyFormat) (stdcrypto.PublicKey, error) {
	if format != anpcrypto.KeyFormatJWK {
		return nil, anpcrypto.ErrInvalidKeyFormat
	}
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JWK: %w", err)
	}

	switch jwk.Kty {
	case "OKP":
		switch jwk.Crv {
		case "Ed25519":
			publicKeyBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
			if err != nil {
				return nil, fmt.Errorf("failed to decode public key: %w", err)
			}
			return ed25519.PublicKey(publicKeyBytes), nil
		case "X25519":
			publicKeyBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
			if err != nil {
				return nil, fmt.Errorf("failed to decode X25519 public key: %w", err)
			}
			return ecdh.X25519().NewPublicKey(publicKeyBytes)
		default:
			return nil, fmt.Errorf("unsupported OKP curve: %s", jwk.Crv)
		}
	case "EC":
		if jwk.Crv != "secp256k1" {
			return nil, fmt.Errorf("unsupported EC curve: %s", jwk.Crv)
		}
		xBytes, err := base64.RawURLEncoding.DecodeString(jwk.X)
		if err != nil {
			return nil, fmt.Errorf("failed to decode X coordinate: %w", err)
		}
		yBytes, err := base64.RawURLEncoding.DecodeString(jwk.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Y coordinate: %w", err)
		}
		return &ecdsa.PublicKey{
			Curve: secp256k1.S256(),
			X:     new(big.Int).SetBytes(xBytes),
			Y:     new(big.Int).SetBytes(yBytes),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported key type: %s", jwk.Kty)
	}
}

func (i *jwkImporter) importEd25519(jwk *JWK) (anpcrypto.KeyPair, error) {
	if jwk.D == "" {
		return nil, errors.New("missing private key component")
	}
	seedBytes, err := base64.RawURLEncoding.DecodeString(jwk.D)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	privateKey := ed25519.NewKeyFromSeed(seedBytes)
	return keys.NewEd25519KeyPair(privateKey, jwk.Kid)
}

func (i *jwkImporter) importSecp256k1(jwk *JWK) (anpcrypto.KeyPair, error) {
	if jwk.D == "" {
		return nil, errors.New("missing private key component")
	}
	dBytes, err := base64.RawURLEncoding.DecodeString(jwk.D)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	privateKey := secp256k1.PrivKeyFromBytes(dBytes)
	return keys.NewSecp256k1KeyPair(privateKey, jwk.Kid), nil
}

func (i *jwkImporter) importX25519(jwk *JWK) (anpcrypto.KeyPair, error) {
	if jwk.D == "" {
		return nil, errors.New("missing private key component")
	}
	privateKeyBytes, err := base64.RawURLEncoding.DecodeString(jwk.D)
	if err != nil {
		return nil, fmt.Errorf("failed to decode X25519 private key: %w", err)
	}
	privateKey, err := ecdh.X25519().NewPrivateKey(privateKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create X25519 private key: %w", err)
	}
	return keys.NewX25519KeyPair(privateKey, jwk.Kid)
}

// ComputeKeyIDRFC9421 computes the RFC 7638 JWK thumbprint over the
// key's required members in lexicographic order.
func (jwk JWK) ComputeKeyIDRFC9421() (string, error) {
	m := map[string]string{"kty": jwk.Kty}
	if jwk.Crv != "" {
		m["crv"] = jwk.Crv
	}
	if jwk.X != "" {
		m["x"] = jwk.X
	}
	if jwk.Y != "" {
		m["y"] = jwk.Y
	}

	sortedKeys := make([]string, 0, len(m))
	for k := range m {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	buf := []byte{'{'}
	for idx, k := range sortedKeys {
		if idx > 0 {
			buf = append(buf, ',')
		}
		valueJSON, err := json.Marshal(m[k])
		if err != nil {
			return "", fmt.Errorf("failed to marshal JWK thumbprint value: %w", err)
		}
		buf = append(buf, fmt.Sprintf("%q:%s", k, valueJSON)...)
	}
	buf = append(buf, '}')

	sum := sha256.Sum256(buf)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
