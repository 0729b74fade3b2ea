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

// Manager generates key pairs of the three supported kinds and dispatches
// export/import to the format registered for each. Persistence is out of
// scope; a Manager never stores a key pair on the caller's behalf.
type Manager struct {
	generators map[KeyType]func() (KeyPair, error)
	exporter   KeyExporter
	importer   KeyImporter
}

// NewManager builds a Manager. generators must provide one constructor
// per KeyType the caller wants GenerateKeyPair to support; exporter and
// importer may be nil if export/import is not needed.
func NewManager(generators map[KeyType]func() (KeyPair, error), exporter KeyExporter, importer KeyImporter) *Manager {
	return &Manager{generators: generators, exporter: exporter, importer: importer}
}

// GenerateKeyPair generates a new key pair of the given kind.
func (m *Manager) GenerateKeyPair(keyType KeyType) (KeyPair, error) {
	gen, ok := m.generators[keyType]
	if !ok {
		return nil, ErrInvalidKeyType
	}
	return gen()
}

// ExportKeyPair exports a key pair to the given format.
func (m *Manager) ExportKeyPair(keyPair KeyPair, format KeyFormat) ([]byte, error) {
	if m.exporter == nil {
		return nil, ErrInvalidKeyFormat
	}
	return m.exporter.Export(keyPair, format)
}

// ExportPublicKey exports only the public half of a key pair.
func (m *Manager) ExportPublicKey(keyPair KeyPair, format KeyFormat) ([]byte, error) {
	if m.exporter == nil {
		return nil, ErrInvalidKeyFormat
	}
	return m.exporter.ExportPublic(keyPair, format)
}

// ImportKeyPair imports a key pair from the given format.
func (m *Manager) ImportKeyPair(data []byte, format KeyFormat) (KeyPair, error) {
	if m.importer == nil {
		return nil, ErrInvalidKeyFormat
	}
	return m.importer.Import(data, format)
}
