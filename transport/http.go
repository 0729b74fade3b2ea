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

// Package transport implements the thin HTTP transport that attaches
// DID-signed authentication headers to outbound requests.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anp-x/anp-go/did"
	"github.com/anp-x/anp-go/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// These are the HTTP header names a Transport attaches when
// signing a request with an identity.
const (
	HeaderDID                = "X-ANP-DID"
	HeaderNonce              = "X-ANP-Nonce"
	HeaderTimestamp          = "X-ANP-Timestamp"
	HeaderVerificationMethod = "X-ANP-Verification-Method"
	HeaderSignature          = "X-ANP-Signature"
)

// Transport issues HTTP GET/POST requests, optionally attaching a DID
// auth header set when an identity is supplied. Identity-less
// calls skip signing.
type Transport struct {
	httpClient *http.Client
	didManager *did.Manager
}

// New builds a Transport. didManager is used to build auth headers;
// a zero or negative timeout falls back to defaultTimeout.
func New(didManager *did.Manager, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Transport{
		httpClient: &http.Client{Timeout: timeout},
		didManager: didManager,
	}
}

// Get issues a GET request, attaching auth headers when identity is non-nil.
func (t *Transport) Get(ctx context.Context, url string, identity *did.Identity) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newNetworkError("failed to build GET request", err, 0)
	}
	return t.do(req, identity, http.MethodGet)
}

// Post issues a POST request with body, attaching auth headers when
// identity is non-nil.
func (t *Transport) Post(ctx context.Context, url string, body []byte, identity *did.Identity) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newNetworkError("failed to build POST request", err, 0)
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req, identity, http.MethodPost)
}

func (t *Transport) do(req *http.Request, identity *did.Identity, method string) (*http.Response, error) {
	if identity != nil {
		if err := t.attachAuthHeaders(req, identity); err != nil {
			metrics.TransportAuthFailures.Inc()
			return nil, err
		}
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	metrics.TransportRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TransportRequests.WithLabelValues(method, "error").Inc()
		return nil, newNetworkError("HTTP request failed", err, 0)
	}

	status := "success"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status = "error"
	}
	metrics.TransportRequests.WithLabelValues(method, status).Inc()
	return resp, nil
}

func (t *Transport) attachAuthHeaders(req *http.Request, identity *did.Identity) error {
	headers, err := did.BuildAuthHeaders(t.didManager, identity)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderDID, headers.DID)
	req.Header.Set(HeaderNonce, headers.Nonce)
	req.Header.Set(HeaderTimestamp, headers.Timestamp)
	req.Header.Set(HeaderVerificationMethod, headers.VerificationMethod)
	req.Header.Set(HeaderSignature, headers.Signature)
	return nil
}

// ReadBody drains and closes resp.Body, surfacing non-2xx status as a
// NetworkError carrying the status code.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newNetworkError("failed to read response body", err, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return body, newNetworkError(fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil, resp.StatusCode)
	}
	return body, nil
}
