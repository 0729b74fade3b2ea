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
	"testing"

	"github.com/stretchr/testify/require"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/crypto/keys"
)

func TestPEMExportImportRoundTripEd25519(t *testing.T) {
	kp, err := keys.GenerateEd25519KeyPair()
	require.NoError(t, err)

	exporter := NewPEMExporter()
	data, err := exporter.Export(kp, anpcrypto.KeyFormatPEM)
	require.NoError(t, err)
	require.Contains(t, string(data), "PRIVATE KEY")

	importer := NewPEMImporter()
	imported, err := importer.Import(data, anpcrypto.KeyFormatPEM)
	require.NoError(t, err)

	message := []byte("pem round trip")
	sig, err := imported.Sign(message)
	require.NoError(t, err)
	require.True(t, anpcrypto.Verify(kp, message, sig))
}

func TestPEMExportImportRoundTripSecp256k1(t *testing.T) {
	kp, err := keys.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	exporter := NewPEMExporter()
	data, err := exporter.Export(kp, anpcrypto.KeyFormatPEM)
	require.NoError(t, err)

	importer := NewPEMImporter()
	imported, err := importer.Import(data, anpcrypto.KeyFormatPEM)
	require.NoError(t, err)

	message := []byte("secp256k1 pem round trip")
	sig, err := imported.Sign(message)
	require.NoError(t, err)
	require.True(t, anpcrypto.Verify(kp, message, sig))
}

func TestPEMExportPublicImportRoundTripSecp256k1(t *testing.T) {
	kp, err := keys.GenerateSecp256k1KeyPair()
	require.NoError(t, err)

	exporter := NewPEMExporter()
	data, err := exporter.ExportPublic(kp, anpcrypto.KeyFormatPEM)
	require.NoError(t, err)

	importer := NewPEMImporter()
	pub, err := importer.ImportPublic(data, anpcrypto.KeyFormatPEM)
	require.NoError(t, err)

	message := []byte("secp256k1 public pem")
	sig, err := kp.Sign(message)
	require.NoError(t, err)
	require.True(t, anpcrypto.VerifyWithPublicKey(pub, anpcrypto.KeyTypeSecp256k1, message, sig))
}

func TestPEMImportRejectsGarbageInput(t *testing.T) {
	importer := NewPEMImporter()
	_, err := importer.Import([]byte("not a pem block"), anpcrypto.KeyFormatPEM)
	require.Error(t, err)
}

func TestPEMImportRejectsUnsupportedBlockType(t *testing.T) {
	importer := NewPEMImporter()
	_, err := importer.ImportPublic([]byte(`-----BEGIN CERTIFICATE-----
MA==
-----END CERTIFICATE-----
`), anpcrypto.KeyFormatPEM)
	require.Error(t, err)
}
