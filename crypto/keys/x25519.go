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
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/cloudflare/circl/hpke"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/internal/metrics"
)

// X25519KeyPair holds an X25519 key-agreement key pair.
type X25519KeyPair struct {
	privateKey *ecdh.PrivateKey
	publicKey  *ecdh.PublicKey
	id         string
}

// GenerateX25519KeyPair generates a fresh X25519 key-agreement key pair.
func GenerateX25519KeyPair() (anpcrypto.KeyPair, error) {
	privateKey, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate X25519 key: %w", err)
	}
	return NewX25519KeyPair(privateKey, "")
}

// NewX25519KeyPair wraps an existing X25519 private key.
func NewX25519KeyPair(privateKey *ecdh.PrivateKey, id string) (anpcrypto.KeyPair, error) {
	publicKey := privateKey.PublicKey()
	if id == "" {
		hash := sha256.Sum256(publicKey.Bytes())
		id = hex.EncodeToString(hash[:8])
	}
	return &X25519KeyPair{privateKey: privateKey, publicKey: publicKey, id: id}, nil
}

func (kp *X25519KeyPair) PublicKey() crypto.PublicKey   { return kp.publicKey }
func (kp *X25519KeyPair) PublicKeyBytes() []byte        { return kp.publicKey.Bytes() }
func (kp *X25519KeyPair) PrivateKey() crypto.PrivateKey { return kp.privateKey }
func (kp *X25519KeyPair) Type() anpcrypto.KeyType       { return anpcrypto.KeyTypeX25519 }
func (kp *X25519KeyPair) ID() string                    { return kp.id }

// Sign is not supported: X25519 keys only perform key agreement.
func (kp *X25519KeyPair) Sign(message []byte) ([]byte, error) {
	return nil, anpcrypto.ErrSignNotSupported
}

// Verify is not supported: X25519 keys only perform key agreement.
func (kp *X25519KeyPair) Verify(message, signature []byte) error {
	return anpcrypto.ErrVerifyNotSupported
}

// ECDH computes the raw 32-byte X25519 shared secret with a peer's
// public key, with no further hashing. Callers derive a symmetric key
// from it with hkdf_sha256.
func (kp *X25519KeyPair) ECDH(peerPubBytes []byte) ([]byte, error) {
	curve := ecdh.X25519()
	peerPub, err := curve.NewPublicKey(peerPubBytes)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("ecdh").Inc()
		return nil, fmt.Errorf("failed to parse peer public key: %w", err)
	}
	secret, err := sharedSecret(kp.privateKey.ECDH(peerPub))
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("ecdh").Inc()
		return nil, err
	}
	metrics.CryptoOperations.WithLabelValues("ecdh", "x25519").Inc()
	return secret, nil
}

// DeriveSharedSecret computes SHA-256 of the raw X25519 ECDH output,
// for callers that want a fixed symmetric key without a separate HKDF
// step.
func (kp *X25519KeyPair) DeriveSharedSecret(peerPubBytes []byte) ([]byte, error) {
	raw, err := kp.ECDH(peerPubBytes)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(raw)
	return sum[:], nil
}

func sharedSecret(dh []byte, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	var zero [32]byte
	if subtle.ConstantTimeCompare(dh, zero[:]) == 1 {
		return nil, fmt.Errorf("x25519: low-order or identity point")
	}
	return dh, nil
}

// ConvertEd25519PubToX25519 converts an Ed25519 public key to its
// Montgomery-form X25519 public key (RFC 8032 §5.1.5 birational map),
// used when a peer only publishes an authentication key but the channel
// needs a key-agreement key derived from the same identity material.
func ConvertEd25519PubToX25519(pubKey ed25519.PublicKey) ([]byte, error) {
	if len(pubKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("bad Ed25519 public key length: %d", len(pubKey))
	}
	P, err := new(edwards25519.Point).SetBytes(pubKey)
	if err != nil {
		return nil, fmt.Errorf("invalid Ed25519 public key: %w", err)
	}
	return P.BytesMontgomery(), nil
}

// ConvertEd25519PrivToX25519 converts an Ed25519 private key into the
// corresponding X25519 scalar.
func ConvertEd25519PrivToX25519(privKey ed25519.PrivateKey) ([]byte, error) {
	if len(privKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("bad Ed25519 private key length: %d", len(privKey))
	}
	seed := privKey.Seed()
	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	var xPriv [32]byte
	copy(xPriv[:], h[:32])
	return xPriv[:], nil
}

// HPKE suite used by channel/hpke.go's alternate establishment path.
var hpkeSuite = hpke.NewSuite(
	hpke.KEM_X25519_HKDF_SHA256,
	hpke.KDF_HKDF_SHA256,
	hpke.AEAD_ChaCha20Poly1305,
)

// HPKEDeriveSharedSecretToPeer runs the HPKE sender role against a
// recipient's X25519 public key and returns the encapsulated key plus
// an exported secret of exportLen bytes.
func HPKEDeriveSharedSecretToPeer(peer *ecdh.PublicKey, info, exportCtx []byte, exportLen int) (enc, exporterSecret []byte, err error) {
	kem := hpke.KEM_X25519_HKDF_SHA256.Scheme()
	rp, err := kem.UnmarshalBinaryPublicKey(peer.Bytes())
	if err != nil {
		return nil, nil, fmt.Errorf("hpke unmarshal pub: %w", err)
	}
	sender, err := hpkeSuite.NewSender(rp, info)
	if err != nil {
		return nil, nil, fmt.Errorf("hpke new sender: %w", err)
	}
	enc, sealer, err := sender.Setup(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("hpke setup: %w", err)
	}
	secret := sealer.Export(exportCtx, uint(exportLen))
	return enc, secret, nil
}

// HPKEOpenSharedSecretWithPriv runs the HPKE receiver role, reproducing
// the same exported secret a sender derived via HPKEDeriveSharedSecretToPeer.
func HPKEOpenSharedSecretWithPriv(priv *ecdh.PrivateKey, enc, info, exportCtx []byte, exportLen int) ([]byte, error) {
	kem := hpke.KEM_X25519_HKDF_SHA256.Scheme()
	skR, err := kem.UnmarshalBinaryPrivateKey(priv.Bytes())
	if err != nil {
		return nil, fmt.Errorf("hpke unmarshal priv: %w", err)
	}
	receiver, err := hpkeSuite.NewReceiver(skR, info)
	if err != nil {
		return nil, fmt.Errorf("hpke new receiver: %w", err)
	}
	opener, err := receiver.Setup(enc)
	if err != nil {
		return nil, fmt.Errorf("hpke receiver setup: %w", err)
	}
	return opener.Export(exportCtx, uint(exportLen)), nil
}
