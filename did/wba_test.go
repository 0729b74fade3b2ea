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

package did

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDIDEncodesPortAndPath(t *testing.T) {
	did, err := buildDID("localhost", intPtr(9000), []string{"alice"})
	require.NoError(t, err)
	require.Equal(t, "did:wba:localhost%3A9000:alice", did)
}

func TestBuildDIDEscapesColonInPathSegment(t *testing.T) {
	did, err := buildDID("example.com", nil, []string{"ns:alice"})
	require.NoError(t, err)
	require.Equal(t, "did:wba:example.com:ns%3Aalice", did)

	docURL, err := didToURL(did)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/ns:alice/did.json", docURL)
}

func TestBuildDIDAcceptsEmbeddedPortInDomain(t *testing.T) {
	did, err := buildDID("localhost:9000", nil, []string{"alice"})
	require.NoError(t, err)
	require.Equal(t, "did:wba:localhost%3A9000:alice", did)

	_, err = buildDID("localhost:9000", intPtr(9001), nil)
	require.Error(t, err)

	_, err = buildDID("localhost:notaport", nil, nil)
	require.Error(t, err)
}

func TestBuildDIDOmitsDefaultHTTPSPort(t *testing.T) {
	did, err := buildDID("example.com", intPtr(443), nil)
	require.NoError(t, err)
	require.Equal(t, "did:wba:example.com", did)
}

func TestBuildDIDEncodesMultiplePathSegments(t *testing.T) {
	did, err := buildDID("example.com", nil, []string{"users", "alice smith"})
	require.NoError(t, err)
	require.Equal(t, "did:wba:example.com:users:alice%20smith", did)
}

func TestBuildDIDRejectsInvalidDomain(t *testing.T) {
	_, err := buildDID("not a domain", nil, nil)
	require.Error(t, err)

	_, err = buildDID("", nil, nil)
	require.Error(t, err)
}

func TestBuildDIDRejectsPortOutOfRange(t *testing.T) {
	_, err := buildDID("example.com", intPtr(70000), nil)
	require.Error(t, err)
}

func TestDIDToURLRoundTripsThroughScheme(t *testing.T) {
	did, err := buildDID("localhost", intPtr(9000), []string{"alice"})
	require.NoError(t, err)

	docURL, err := didToURL(did)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/alice/did.json", docURL)
}

func TestDIDToURLUsesWellKnownPathWhenNoSegments(t *testing.T) {
	did, err := buildDID("example.com", nil, nil)
	require.NoError(t, err)

	docURL, err := didToURL(did)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/.well-known/did.json", docURL)
}

func TestDIDToURLRejectsNonWBAIdentifier(t *testing.T) {
	_, err := didToURL("did:key:z6Mk...")
	require.Error(t, err)
}

func TestSchemeForAuthorityHonorsLocalhostAndLoopback(t *testing.T) {
	require.Equal(t, "http", schemeForAuthority("localhost"))
	require.Equal(t, "http", schemeForAuthority("localhost:9000"))
	require.Equal(t, "http", schemeForAuthority("127.0.0.1"))
	require.Equal(t, "http", schemeForAuthority("127.0.0.1:8080"))
	require.Equal(t, "https", schemeForAuthority("example.com"))
	require.Equal(t, "https", schemeForAuthority("example.com:8443"))
}

func intPtr(v int) *int { return &v }
