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

// Package channel implements the end-to-end encrypted channel: an
// X25519 ECDHE shared secret, HKDF-SHA256 key derivation, and
// bidirectional AES-256-GCM framing, plus an HPKE-based alternate
// establishment path in hpke.go.
package channel

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/crypto/keys"
	"github.com/anp-x/anp-go/did"
	"github.com/anp-x/anp-go/internal/metrics"
)

const (
	saltSize      = 32
	derivedKeyLen = 32
	// hkdfInfo is the fixed HKDF info string this channel always uses.
	hkdfInfo = "ANP-Encryption"
)

// Channel holds the derived symmetric key shared bidirectionally
// between two peers. Zero value is not usable; build one
// with Establish or EstablishWithSalt.
type Channel struct {
	key []byte
}

// Establish computes the channel key from localIdentity's key-agreement
// key and peerDoc's published key-agreement verification method, using
// a freshly generated random salt. The caller must publish the
// returned salt to the peer (e.g. alongside the first encrypted
// frame) so the peer can derive the same key with EstablishWithSalt.
func Establish(localIdentity *did.Identity, peerDoc *did.Document) (*Channel, []byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, newCryptoError("failed to generate channel salt", err)
	}
	ch, err := EstablishWithSalt(localIdentity, peerDoc, salt)
	if err != nil {
		return nil, nil, err
	}
	return ch, salt, nil
}

// EstablishWithSalt computes the channel key using a salt already
// agreed with the peer (e.g. received alongside the initiator's first
// encrypted frame).
func EstablishWithSalt(localIdentity *did.Identity, peerDoc *did.Document, salt []byte) (*Channel, error) {
	localEntry, ok := localIdentity.PrivateKeys[localIdentity.KeyAgreementKeyID()]
	if !ok {
		return nil, newAuthenticationError(fmt.Sprintf("identity has no key-agreement key %q", localIdentity.KeyAgreementKeyID()), nil)
	}
	localX25519, ok := localEntry.KeyPair.(*keys.X25519KeyPair)
	if !ok {
		return nil, newCryptoError("key-agreement key is not an X25519 key pair", nil)
	}

	peerPub, err := peerKeyAgreementPublicKey(peerDoc)
	if err != nil {
		return nil, err
	}

	secret, err := localX25519.ECDH(peerPub)
	if err != nil {
		return nil, newCryptoError("ECDH computation failed", err)
	}

	key, err := anpcrypto.HKDFSHA256(secret, salt, []byte(hkdfInfo), derivedKeyLen)
	if err != nil {
		return nil, newCryptoError("key derivation failed", err)
	}

	metrics.ChannelsEstablished.WithLabelValues("ecdhe").Inc()
	return &Channel{key: key}, nil
}

// peerKeyAgreementPublicKey extracts the raw X25519 public key bytes
// from peerDoc's keyAgreement verification method's publicKeyJwk.
func peerKeyAgreementPublicKey(peerDoc *did.Document) ([]byte, error) {
	if len(peerDoc.KeyAgreement) == 0 {
		return nil, newCryptoError("peer document has no keyAgreement entry", nil)
	}
	method := peerDoc.FindVerificationMethod(peerDoc.KeyAgreement[0])
	if method == nil {
		return nil, newCryptoError("peer document is missing its keyAgreement verification method", nil)
	}
	xRaw, ok := method.PublicKeyJWK["x"].(string)
	if !ok || xRaw == "" {
		return nil, newCryptoError("peer keyAgreement publicKeyJwk missing x", nil)
	}
	pub, err := base64.RawURLEncoding.DecodeString(xRaw)
	if err != nil {
		return nil, newCryptoError("peer keyAgreement publicKeyJwk x is not valid base64url", err)
	}
	return pub, nil
}

// Encrypt seals plaintext under the channel's symmetric key with a
// fresh random IV.
func (c *Channel) Encrypt(plaintext []byte) (*anpcrypto.EncryptedMessage, error) {
	start := time.Now()
	msg, err := anpcrypto.AEADEncrypt(c.key, plaintext, nil)
	metrics.ChannelOperationDuration.WithLabelValues("encrypt").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	metrics.ChannelMessagesEncrypted.Inc()
	metrics.ChannelMessageSize.WithLabelValues("outbound").Observe(float64(len(plaintext)))
	return msg, nil
}

// Decrypt opens an EncryptedMessage sealed by the peer's Channel
// sharing this key. Any tampering with ciphertext, iv, or tag fails
// loudly via AEADDecrypt's "Authentication tag verification failed" error.
func (c *Channel) Decrypt(msg *anpcrypto.EncryptedMessage) ([]byte, error) {
	start := time.Now()
	plaintext, err := anpcrypto.AEADDecrypt(c.key, msg, nil)
	metrics.ChannelOperationDuration.WithLabelValues("decrypt").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ChannelTamperDetections.Inc()
		return nil, err
	}
	metrics.ChannelMessageSize.WithLabelValues("inbound").Observe(float64(len(plaintext)))
	return plaintext, nil
}
