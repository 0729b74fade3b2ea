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
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	anpcrypto "github.com/anp-x/anp-go/crypto"
)

func TestEd25519SignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)
	require.Equal(t, anpcrypto.KeyTypeEd25519, kp.Type())

	message := []byte("the quick brown fox")
	sig, err := kp.Sign(message)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	require.True(t, anpcrypto.Verify(kp, message, sig))
}

func TestEd25519VerifyFailsOnWrongMessage(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)

	sig, err := kp.Sign([]byte("original message"))
	require.NoError(t, err)

	require.False(t, anpcrypto.Verify(kp, []byte("tampered message"), sig))
}

func TestEd25519VerifyNeverErrorsOnGarbageSignature(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)

	require.False(t, anpcrypto.Verify(kp, []byte("message"), []byte("not a signature")))
}

func TestEd25519IDIsStableAcrossWrap(t *testing.T) {
	kp, err := GenerateEd25519KeyPair()
	require.NoError(t, err)
	require.NotEmpty(t, kp.ID())

	wrapped, err := NewEd25519KeyPair(kp.PrivateKey().(ed25519.PrivateKey), "")
	require.NoError(t, err)
	require.Equal(t, kp.ID(), wrapped.ID())
}
