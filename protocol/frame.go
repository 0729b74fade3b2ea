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

// Package protocol implements the binary meta-protocol message frame
// and the JSON meta-protocol messages carried inside
// META frames.
package protocol

import (
	"fmt"

	"github.com/anp-x/anp-go/internal/metrics"
)

// Type is the 2-bit protocol type carried in a frame's header byte.
type Type byte

const (
	Meta Type = iota
	Application
	NaturalLanguage
	Verification
)

func (t Type) String() string {
	switch t {
	case Meta:
		return "META"
	case Application:
		return "APPLICATION"
	case NaturalLanguage:
		return "NATURAL_LANGUAGE"
	case Verification:
		return "VERIFICATION"
	default:
		return "UNKNOWN"
	}
}

// Encode prepends a single header byte `(pt&0b11)<<6` to data. The
// reserved low 6 bits are always zero on encode.
func Encode(pt Type, data []byte) []byte {
	header := byte(pt&0b11) << 6
	frame := make([]byte, 0, len(data)+1)
	frame = append(frame, header)
	frame = append(frame, data...)
	metrics.FrameSize.Observe(float64(len(frame)))
	return frame
}

// Decode splits frame into its Type and payload. The reserved low 6
// bits of the header byte are ignored for forward compatibility.
func Decode(frame []byte) (Type, []byte, error) {
	if len(frame) < 1 {
		return 0, nil, newProtocolError("frame must be at least 1 byte", fmt.Errorf("got %d bytes", len(frame)))
	}
	pt := Type((frame[0] >> 6) & 0b11)
	metrics.FramesDecoded.WithLabelValues(pt.String()).Inc()
	return pt, frame[1:], nil
}
