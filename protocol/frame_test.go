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

package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, pt := range []Type{Meta, Application, NaturalLanguage, Verification} {
		payload := []byte(`{"hello":"world"}`)
		frame := Encode(pt, payload)
		require.Len(t, frame, len(payload)+1)

		got, body, err := Decode(frame)
		require.NoError(t, err)
		require.Equal(t, pt, got)
		require.Equal(t, payload, body)
	}
}

func TestEncodeReservedBitsAreZero(t *testing.T) {
	frame := Encode(Application, nil)
	require.Equal(t, byte(0), frame[0]&0b00111111)
	require.Equal(t, byte(Application)<<6, frame[0]&0b11000000)
}

func TestDecodeIgnoresReservedBits(t *testing.T) {
	header := byte(Verification)<<6 | 0b00101011
	frame := append([]byte{header}, []byte("payload")...)

	pt, body, err := Decode(frame)
	require.NoError(t, err)
	require.Equal(t, Verification, pt)
	require.Equal(t, []byte("payload"), body)
}

func TestDecodeEmptyFrameErrors(t *testing.T) {
	_, _, err := Decode(nil)
	require.Error(t, err)
}

func TestTypeString(t *testing.T) {
	require.Equal(t, "META", Meta.String())
	require.Equal(t, "APPLICATION", Application.String())
	require.Equal(t, "NATURAL_LANGUAGE", NaturalLanguage.String())
	require.Equal(t, "VERIFICATION", Verification.String())
	require.Equal(t, "UNKNOWN", Type(255).String())
}
