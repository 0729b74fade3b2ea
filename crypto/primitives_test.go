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
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func TestAEADRoundTrip(t *testing.T) {
	key := randomBytes(t, 32)
	plaintext := []byte("Hello Bob! This is a secret message from Alice.")

	msg, err := AEADEncrypt(key, plaintext, nil)
	require.NoError(t, err)
	require.Len(t, msg.IV, 12)
	require.Len(t, msg.Tag, 16)

	decrypted, err := AEADDecrypt(key, msg, nil)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestAEADFreshIVPerCall(t *testing.T) {
	key := randomBytes(t, 32)
	msg1, err := AEADEncrypt(key, []byte("same plaintext"), nil)
	require.NoError(t, err)
	msg2, err := AEADEncrypt(key, []byte("same plaintext"), nil)
	require.NoError(t, err)
	require.NotEqual(t, msg1.IV, msg2.IV)
}

func TestAEADDecryptFailsOnTamperedCiphertext(t *testing.T) {
	key := randomBytes(t, 32)
	msg, err := AEADEncrypt(key, []byte("Hello Bob!"), nil)
	require.NoError(t, err)

	tampered := *msg
	tampered.Ciphertext = append([]byte(nil), msg.Ciphertext...)
	tampered.Ciphertext[0] ^= 0xFF

	_, err = AEADDecrypt(key, &tampered, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Authentication tag verification failed")
}

func TestAEADDecryptFailsOnTamperedTagAndIV(t *testing.T) {
	key := randomBytes(t, 32)
	msg, err := AEADEncrypt(key, []byte("Hello Bob!"), nil)
	require.NoError(t, err)

	tamperedTag := *msg
	tamperedTag.Tag = append([]byte(nil), msg.Tag...)
	tamperedTag.Tag[0] ^= 0xFF
	_, err = AEADDecrypt(key, &tamperedTag, nil)
	require.Error(t, err)

	tamperedIV := *msg
	tamperedIV.IV = append([]byte(nil), msg.IV...)
	tamperedIV.IV[0] ^= 0xFF
	_, err = AEADDecrypt(key, &tamperedIV, nil)
	require.Error(t, err)
}

func TestHKDFSHA256IsDeterministic(t *testing.T) {
	ikm := randomBytes(t, 32)
	salt := randomBytes(t, 32)

	key1, err := HKDFSHA256(ikm, salt, []byte("ANP-Encryption"), 32)
	require.NoError(t, err)
	key2, err := HKDFSHA256(ikm, salt, []byte("ANP-Encryption"), 32)
	require.NoError(t, err)
	require.Equal(t, key1, key2)
	require.Len(t, key1, 32)

	otherInfo, err := HKDFSHA256(ikm, salt, []byte("other-info"), 32)
	require.NoError(t, err)
	require.NotEqual(t, key1, otherInfo)
}
