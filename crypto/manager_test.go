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
	stdcrypto "crypto"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// rawEd25519 is a minimal KeyPair for exercising Manager dispatch
// without importing crypto/keys (which would cycle).
type rawEd25519 struct{ priv ed25519.PrivateKey }

func (k *rawEd25519) PublicKey() stdcrypto.PublicKey   { return k.priv.Public() }
func (k *rawEd25519) PrivateKey() stdcrypto.PrivateKey { return k.priv }
func (k *rawEd25519) Type() KeyType                    { return KeyTypeEd25519 }
func (k *rawEd25519) ID() string                       { return "stub" }
func (k *rawEd25519) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, message), nil
}
func (k *rawEd25519) Verify(message, signature []byte) error {
	if !ed25519.Verify(k.priv.Public().(ed25519.PublicKey), message, signature) {
		return ErrInvalidSignature
	}
	return nil
}

func newStubGenerators() map[KeyType]func() (KeyPair, error) {
	return map[KeyType]func() (KeyPair, error){
		KeyTypeEd25519: func() (KeyPair, error) {
			_, priv, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return nil, err
			}
			return &rawEd25519{priv: priv}, nil
		},
	}
}

func TestManagerGeneratesRegisteredKinds(t *testing.T) {
	m := NewManager(newStubGenerators(), nil, nil)

	kp, err := m.GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)
	require.Equal(t, KeyTypeEd25519, kp.Type())

	_, err = m.GenerateKeyPair(KeyTypeSecp256k1)
	require.ErrorIs(t, err, ErrInvalidKeyType)
}

func TestManagerExportWithoutExporterFails(t *testing.T) {
	m := NewManager(newStubGenerators(), nil, nil)
	kp, err := m.GenerateKeyPair(KeyTypeEd25519)
	require.NoError(t, err)

	_, err = m.ExportKeyPair(kp, KeyFormatJWK)
	require.ErrorIs(t, err, ErrInvalidKeyFormat)
}
