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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/crypto/keys"
)

func TestJWKExportImportRoundTripEd25519(t *testing.T) {
	kp, err := keys.GenerateEd25519KeyPair()
	require.NoError(t, err)

	exporter := NewJWKExporter()
	data, err := exporter.Export(kp, anpcrypto.KeyFormatJWK)
	require.NoError(t, err)

	importer := NewJWKImporter()
	imported, err := importer.Import(data, anpcrypto.KeyFormatJWK)
	require.NoError(t, err)
	require.Equal(t, anpcrypto.KeyTypeEd25519, imported.Type())

	message := []byte("round trip message")
	sig, err := imported.Sign(message)
	require.NoError(t, err)
	require.True(t, anpcrypto.Verify(kp, message, sig))
}

func TestJWKExportPublicOmitsPrivateComponent(t *testing.T) {
	kp, err := keys.GenerateEd25519KeyPair()
	require.NoError(t, err)

	exporter := NewJWKExporter()
	data, err := exporter.ExportPublic(kp, anpcrypto.KeyFormatJWK)
	require.NoError(t, err)

	var jwk JWK
	require.NoError(t, json.Unmarshal(data, &jwk))
	require.Empty(t, jwk.D)
	require.NotEmpty(t, jwk.X)
}

func TestJWKImportPublicSecp256k1(t *testing.T) {
	kp, err := keys.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	exporter := NewJWKExporter()
	data, err := exporter.ExportPublic(kp, anpcrypto.KeyFormatJWK)
	require.NoError(t, err)

	importer := NewJWKImporter()
	pub, err := importer.ImportPublic(data, anpcrypto.KeyFormatJWK)
	require.NoError(t, err)

	message := []byte("secp256k1 public import")
	sig, err := kp.Sign(message)
	require.NoError(t, err)
	require.True(t, anpcrypto.VerifyWithPublicKey(pub, anpcrypto.KeyTypeSecp256k1, message, sig))
}

func TestJWKThumbprintIsStable(t *testing.T) {
	kp, err := keys.GenerateEd25519KeyPair()
	require.NoError(t, err)

	exporter := NewJWKExporter()
	data, err := exporter.ExportPublic(kp, anpcrypto.KeyFormatJWK)
	require.NoError(t, err)

	var jwk JWK
	require.NoError(t, json.Unmarshal(data, &jwk))

	thumb1, err := jwk.ComputeKeyIDRFC9421()
	require.NoError(t, err)
	thumb2, err := jwk.ComputeKeyIDRFC9421()
	require.NoError(t, err)
	require.Equal(t, thumb1, thumb2)
	require.NotEmpty(t, thumb1)
}

func TestJWKImportRejectsUnsupportedCurve(t *testing.T) {
	importer := NewJWKImporter()
	_, err := importer.Import([]byte(`{"kty":"OKP","crv":"X448","d":"aGVsbG8"}`), anpcrypto.KeyFormatJWK)
	require.Error(t, err)
}
