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

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/anp-x/anp-go/internal/metrics"
)

// Sign dispatches to kp.Sign. Kept as a free function so call sites read
// as the primitive operation name, not a method call.
func Sign(kp KeyPair, message []byte) ([]byte, error) {
	start := time.Now()
	sig, err := kp.Sign(message)
	metrics.CryptoOperationDuration.WithLabelValues("sign", string(kp.Type())).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("sign").Inc()
		return nil, err
	}
	metrics.CryptoOperations.WithLabelValues("sign", string(kp.Type())).Inc()
	return sig, nil
}

// Verify reports whether signature is valid for message under kp's
// public key. It never returns an error for an invalid signature — it
// returns false, following a verify-never-throws policy.
func Verify(kp KeyPair, message, signature []byte) bool {
	metrics.CryptoOperations.WithLabelValues("verify", string(kp.Type())).Inc()
	return kp.Verify(message, signature) == nil
}

// EncryptedMessage is the wire shape of an AEAD-encrypted payload:
// ciphertext with a 12-byte IV and 16-byte tag.
type EncryptedMessage struct {
	Ciphertext []byte
	IV         []byte
	Tag        []byte
}

const (
	aesKeySize   = 32
	gcmNonceSize = 12
	gcmTagSize   = 16
)

// AEADEncrypt seals plaintext under key (must be 32 bytes, AES-256)
// with a fresh random 12-byte IV, authenticating aad (may be nil) as
// associated data. IV is never reused across calls.
func AEADEncrypt(key, plaintext, aad []byte) (*EncryptedMessage, error) {
	if len(key) != aesKeySize {
		return nil, fmt.Errorf("crypto: AES-256-GCM key must be %d bytes, got %d", aesKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate IV: %w", err)
	}
	sealed := aead.Seal(nil, iv, plaintext, aad)
	ciphertext := sealed[:len(sealed)-gcmTagSize]
	tag := sealed[len(sealed)-gcmTagSize:]
	metrics.CryptoOperations.WithLabelValues("aead_encrypt", "aes256gcm").Inc()
	return &EncryptedMessage{Ciphertext: ciphertext, IV: iv, Tag: tag}, nil
}

// AEADDecrypt opens an EncryptedMessage. Any modification to
// ciphertext, iv, or tag causes this to fail with an error whose text
// contains "Authentication tag verification failed".
func AEADDecrypt(key []byte, msg *EncryptedMessage, aad []byte) ([]byte, error) {
	if len(key) != aesKeySize {
		return nil, fmt.Errorf("crypto: AES-256-GCM key must be %d bytes, got %d", aesKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	sealed := append(append([]byte{}, msg.Ciphertext...), msg.Tag...)
	plaintext, err := aead.Open(nil, msg.IV, sealed, aad)
	if err != nil {
		metrics.CryptoErrors.WithLabelValues("aead_decrypt").Inc()
		return nil, fmt.Errorf("crypto: Authentication tag verification failed: %w", err)
	}
	metrics.CryptoOperations.WithLabelValues("aead_decrypt", "aes256gcm").Inc()
	return plaintext, nil
}

// VerifyWithPublicKey verifies a raw signature against a bare public key
// of the given kind, without a full KeyPair (private key not needed).
// Used by DID verification, where only the peer's public key is known.
// Never errors: an unrecognized key kind or malformed signature simply
// yields false, matching the verify-never-throws policy.
func VerifyWithPublicKey(pub interface{}, keyType KeyType, message, signature []byte) bool {
	switch keyType {
	case KeyTypeEd25519:
		key, ok := pub.(ed25519.PublicKey)
		if !ok {
			return false
		}
		return ed25519.Verify(key, message, signature)
	case KeyTypeSecp256k1:
		key, ok := pub.(*ecdsa.PublicKey)
		if !ok || len(signature) != 64 {
			return false
		}
		hash := sha256.Sum256(message)
		r := new(big.Int).SetBytes(signature[:32])
		s := new(big.Int).SetBytes(signature[32:])
		return ecdsa.Verify(key, hash[:], r, s)
	default:
		return false
	}
}

// HKDFSHA256 derives length bytes from ikm and salt using HMAC-SHA256
// based key derivation (RFC 5869). The default info string for the
// encrypted channel is "ANP-Encryption".
func HKDFSHA256(ikm, salt, info []byte, length int) ([]byte, error) {
	h := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, fmt.Errorf("crypto: hkdf: %w", err)
	}
	return out, nil
}
