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

package channel

import (
	"crypto/ecdh"

	"github.com/anp-x/anp-go/crypto/keys"
	"github.com/anp-x/anp-go/did"
	"github.com/anp-x/anp-go/internal/metrics"
)

// hpkeExportContext and hpkeInfo are fixed labels binding the exported
// secret to this channel's use, mirroring the fixed hkdfInfo string
// used by the raw ECDHE path.
var (
	hpkeInfo          = []byte("ANP-Channel-HPKE")
	hpkeExportContext = []byte("ANP-Channel-Key")
)

// EstablishHPKESender runs the HPKE sender role against peerDoc's
// key-agreement public key (RFC 9180, via cloudflare/circl), an
// alternative to the raw ECDHE+HKDF path in channel.go. It returns the
// established Channel and the encapsulated key the sender must send to
// the peer so EstablishHPKEReceiver can reproduce the same key.
func EstablishHPKESender(peerDoc *did.Document) (*Channel, []byte, error) {
	peerPubBytes, err := peerKeyAgreementPublicKey(peerDoc)
	if err != nil {
		return nil, nil, err
	}
	peerPub, err := ecdh.X25519().NewPublicKey(peerPubBytes)
	if err != nil {
		return nil, nil, newCryptoError("peer keyAgreement public key is invalid for X25519", err)
	}

	enc, secret, err := keys.HPKEDeriveSharedSecretToPeer(peerPub, hpkeInfo, hpkeExportContext, derivedKeyLen)
	if err != nil {
		return nil, nil, newCryptoError("HPKE sender setup failed", err)
	}

	metrics.ChannelsEstablished.WithLabelValues("hpke").Inc()
	return &Channel{key: secret}, enc, nil
}

// EstablishHPKEReceiver runs the HPKE receiver role using localIdentity's
// key-agreement private key and the enc value received from the sender.
func EstablishHPKEReceiver(localIdentity *did.Identity, enc []byte) (*Channel, error) {
	localEntry, ok := localIdentity.PrivateKeys[localIdentity.KeyAgreementKeyID()]
	if !ok {
		return nil, newAuthenticationError("identity has no key-agreement key", nil)
	}
	localX25519, ok := localEntry.KeyPair.(*keys.X25519KeyPair)
	if !ok {
		return nil, newCryptoError("key-agreement key is not an X25519 key pair", nil)
	}
	localPriv, ok := localX25519.PrivateKey().(*ecdh.PrivateKey)
	if !ok {
		return nil, newCryptoError("key-agreement private key is not an ecdh.PrivateKey", nil)
	}

	secret, err := keys.HPKEOpenSharedSecretWithPriv(localPriv, enc, hpkeInfo, hpkeExportContext, derivedKeyLen)
	if err != nil {
		return nil, newCryptoError("HPKE receiver setup failed", err)
	}

	metrics.ChannelsEstablished.WithLabelValues("hpke").Inc()
	return &Channel{key: secret}, nil
}
