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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	anpcrypto "github.com/anp-x/anp-go/crypto"
	"github.com/anp-x/anp-go/crypto/formats"
	"github.com/anp-x/anp-go/crypto/keys"
	"github.com/anp-x/anp-go/internal/logger"
	"github.com/anp-x/anp-go/internal/metrics"
)

const defaultResolveTimeout = 10 * time.Second

// Config parameterizes a Manager.
type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
}

// ResolveOptions lets a caller bypass the cache for a single resolution.
type ResolveOptions struct {
	SkipCache bool
}

// Manager implements the DID manager's create/resolve/sign/verify
// contract for the did:wba method.
type Manager struct {
	cache      *cache
	httpClient *http.Client
	keys       *anpcrypto.Manager
	jwkExport  anpcrypto.KeyExporter
	jwkImport  anpcrypto.KeyImporter
	log        logger.Logger
}

// NewManager builds a Manager with the given configuration.
func NewManager(cfg Config) *Manager {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultResolveTimeout
	}
	return &Manager{
		cache:      newCache(cfg.CacheTTL),
		httpClient: &http.Client{Timeout: timeout},
		keys: anpcrypto.NewManager(map[anpcrypto.KeyType]func() (anpcrypto.KeyPair, error){
			anpcrypto.KeyTypeEd25519:   keys.GenerateEd25519KeyPair,
			anpcrypto.KeyTypeX25519:    keys.GenerateX25519KeyPair,
			anpcrypto.KeyTypeSecp256k1: keys.GenerateSecp256k1KeyPair,
		}, formats.NewJWKExporter(), formats.NewJWKImporter()),
		jwkExport: formats.NewJWKExporter(),
		jwkImport: formats.NewJWKImporter(),
		log:       logger.GetDefaultLogger(),
	}
}

// Create generates a fresh DID identity for the given domain/port/path:
// an Ed25519 authentication key (fragment auth-key) and an X25519
// key-agreement key (fragment key-agreement).
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (*Identity, error) {
	did, err := buildDID(opts.Domain, opts.Port, opts.Path)
	if err != nil {
		return nil, newResolutionError("failed to build did:wba identifier", err)
	}

	authKeyPair, err := m.keys.GenerateKeyPair(anpcrypto.KeyTypeEd25519)
	if err != nil {
		return nil, logger.NewANPError(logger.ErrCodeCrypto, "failed to generate authentication key", err)
	}
	kemKeyPair, err := m.keys.GenerateKeyPair(anpcrypto.KeyTypeX25519)
	if err != nil {
		return nil, logger.NewANPError(logger.ErrCodeCrypto, "failed to generate key-agreement key", err)
	}

	authID := did + "#" + FragmentAuthKey
	kemID := did + "#" + FragmentKeyAgreement

	authJWK, err := m.publicJWK(authKeyPair)
	if err != nil {
		return nil, err
	}
	kemJWK, err := m.publicJWK(kemKeyPair)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Context: []string{
			"https://www.w3.org/ns/did/v1",
			"https://w3id.org/security/suites/jws-2020/v1",
		},
		ID: did,
		VerificationMethod: []VerificationMethod{
			{ID: authID, Type: TypeEd25519VerificationKey2020, Controller: did, PublicKeyJWK: authJWK},
			{ID: kemID, Type: TypeX25519KeyAgreementKey2019, Controller: did, PublicKeyJWK: kemJWK},
		},
		Authentication: []string{authID},
		KeyAgreement:   []string{kemID},
	}

	m.log.Debug("created did:wba identity", logger.String("did", did))

	identity := &Identity{
		DID:      did,
		Document: doc,
		PrivateKeys: map[string]PrivateKeyEntry{
			authID: {KeyPair: authKeyPair, KeyType: anpcrypto.KeyTypeEd25519},
			kemID:  {KeyPair: kemKeyPair, KeyType: anpcrypto.KeyTypeX25519},
		},
	}
	return identity, nil
}

func (m *Manager) publicJWK(kp anpcrypto.KeyPair) (map[string]interface{}, error) {
	data, err := m.jwkExport.ExportPublic(kp, anpcrypto.KeyFormatJWK)
	if err != nil {
		return nil, logger.NewANPError(logger.ErrCodeCrypto, "failed to export public JWK", err)
	}
	var jwk map[string]interface{}
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, logger.NewANPError(logger.ErrCodeCrypto, "failed to decode exported JWK", err)
	}
	return jwk, nil
}

// Resolve fetches and validates the DID document for did, using the
// cache unless opts.SkipCache is set.
func (m *Manager) Resolve(ctx context.Context, did string, opts ResolveOptions) (*Document, error) {
	if opts.SkipCache {
		return m.fetch(ctx, did)
	}
	return m.cache.resolveOnce(did, func() (*Document, error) {
		return m.fetch(ctx, did)
	})
}

func (m *Manager) fetch(ctx context.Context, did string) (doc *Document, err error) {
	start := time.Now()
	defer func() {
		metrics.DIDResolutionDuration.Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.DIDResolutions.WithLabelValues(status).Inc()
	}()

	url, err := didToURL(did)
	if err != nil {
		return nil, newResolutionError("failed to map did to URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newResolutionError("failed to build resolution request", err)
	}
	req.Header.Set("Accept", "application/json")

	m.log.Debug("resolving DID document", logger.String("did", did), logger.String("url", url))

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, newResolutionError("failed to fetch DID document", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newResolutionError(fmt.Sprintf("unexpected status resolving DID document: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newResolutionError("failed to read DID document body", err)
	}

	var raw struct {
		Context            []string         `json:"@context"`
		ID                 string           `json:"id"`
		VerificationMethod json.RawMessage  `json:"verificationMethod"`
		Authentication     json.RawMessage  `json:"authentication"`
		KeyAgreement       []string         `json:"keyAgreement"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, newResolutionError("failed to parse DID document JSON", err)
	}
	if raw.ID != did {
		return nil, newResolutionError(fmt.Sprintf("DID document id mismatch: requested %q got %q", did, raw.ID), nil)
	}

	var methods []VerificationMethod
	if err := json.Unmarshal(raw.VerificationMethod, &methods); err != nil {
		return nil, newResolutionError("verificationMethod must be an array", err)
	}
	var authentication []string
	if err := json.Unmarshal(raw.Authentication, &authentication); err != nil {
		return nil, newResolutionError("authentication must be an array", err)
	}

	return &Document{
		Context:            raw.Context,
		ID:                 raw.ID,
		VerificationMethod: methods,
		Authentication:     authentication,
		KeyAgreement:       raw.KeyAgreement,
	}, nil
}

// Sign signs bytes with identity's Ed25519 authentication key.
func (m *Manager) Sign(identity *Identity, message []byte) (*Signature, error) {
	authID := identity.AuthKeyID()
	entry, ok := identity.PrivateKeys[authID]
	if !ok {
		return nil, newAuthenticationError(fmt.Sprintf("identity has no key for %q", authID), nil)
	}
	sig, err := entry.KeyPair.Sign(message)
	if err != nil {
		return nil, newAuthenticationError("signing failed", err)
	}
	return &Signature{Value: sig, VerificationMethodID: authID}, nil
}

// Verify checks signature over message against the named verification
// method in doc (or the document resolved for did, if doc is nil). It
// never errors: any failure to resolve, locate the method, or match
// the signature yields false.
func (m *Manager) Verify(ctx context.Context, did string, verificationMethodID string, message, signature []byte, doc *Document) bool {
	if doc == nil {
		resolved, err := m.Resolve(ctx, did, ResolveOptions{})
		if err != nil {
			return false
		}
		doc = resolved
	}

	method := doc.FindVerificationMethod(verificationMethodID)
	if method == nil {
		return false
	}

	keyType, ok := keyTypeForMethodType(method.Type)
	if !ok {
		return false
	}

	jwkBytes, err := json.Marshal(method.PublicKeyJWK)
	if err != nil {
		return false
	}
	pub, err := m.jwkImport.ImportPublic(jwkBytes, anpcrypto.KeyFormatJWK)
	if err != nil {
		return false
	}

	ok = anpcrypto.VerifyWithPublicKey(pub, keyType, message, signature)
	result := "valid"
	if !ok {
		result = "invalid"
	}
	metrics.DIDVerifications.WithLabelValues(result).Inc()
	return ok
}

func keyTypeForMethodType(methodType string) (anpcrypto.KeyType, bool) {
	switch methodType {
	case TypeEd25519VerificationKey2020:
		return anpcrypto.KeyTypeEd25519, true
	case TypeEcdsaSecp256k1VerificationKey:
		return anpcrypto.KeyTypeSecp256k1, true
	case TypeX25519KeyAgreementKey2019:
		return anpcrypto.KeyTypeX25519, true
	default:
		return "", false
	}
}
