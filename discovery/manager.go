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

package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anp-x/anp-go/did"
	"github.com/anp-x/anp-go/internal/metrics"
	"github.com/anp-x/anp-go/transport"
)

const defaultTimeout = 10 * time.Second

// maxPages bounds pagination so a misbehaving peer serving an
// unterminated `next` chain cannot make Discover loop forever.
const maxPages = 1000

// Manager implements the Discovery Manager's discover/register/search
// contract.
type Manager struct {
	transport *transport.Transport
}

// NewManager builds a Manager. didManager is used only to sign outbound
// requests when an identity is supplied; discovery itself never
// requires one.
func NewManager(didManager *did.Manager) *Manager {
	return &Manager{transport: transport.New(didManager, defaultTimeout)}
}

// Discover fetches `<scheme>://<domain>/.well-known/agent-descriptions`
// and every page `next` points to, flattening items into one sequence.
// identity may be nil; discovery pages are public.
func (m *Manager) Discover(ctx context.Context, domain string, identity *did.Identity) ([]Item, error) {
	scheme := did.SchemeForDomain(domain)
	url := fmt.Sprintf("%s://%s/.well-known/agent-descriptions", scheme, domain)

	var items []Item
	for i := 0; i < maxPages && url != ""; i++ {
		p, err := m.fetchPage(ctx, url, identity)
		if err != nil {
			return nil, err
		}
		items = append(items, p.Items...)
		url = p.Next
	}
	metrics.DiscoveryItemsFetched.Add(float64(len(items)))
	return items, nil
}

func (m *Manager) fetchPage(ctx context.Context, url string, identity *did.Identity) (*page, error) {
	resp, err := m.transport.Get(ctx, url, identity)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("discover", "error").Inc()
		return nil, err
	}
	body, err := transport.ReadBody(resp)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("discover", "error").Inc()
		return nil, newNetworkError("failed to read discovery page", err, resp.StatusCode)
	}

	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		metrics.DiscoveryRequests.WithLabelValues("discover", "error").Inc()
		return nil, newValidationError("failed to parse discovery page JSON", err)
	}
	if p.Type != PageType {
		metrics.DiscoveryRequests.WithLabelValues("discover", "error").Inc()
		return nil, newValidationError(fmt.Sprintf("discovery page has unexpected @type: %q", p.Type), nil)
	}
	if p.URL == "" {
		metrics.DiscoveryRequests.WithLabelValues("discover", "error").Inc()
		return nil, newValidationError("discovery page missing url", nil)
	}
	metrics.DiscoveryRequests.WithLabelValues("discover", "success").Inc()
	return &p, nil
}

// Register POSTs {agentDescriptionUrl} to searchURL with DID-signed
// auth headers attached from identity.
func (m *Manager) Register(ctx context.Context, searchURL, agentDescriptionURL string, identity *did.Identity) error {
	body, err := json.Marshal(RegisterRequest{AgentDescriptionURL: agentDescriptionURL})
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("register", "error").Inc()
		return newValidationError("failed to encode register request", err)
	}

	resp, err := m.transport.Post(ctx, searchURL, body, identity)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("register", "error").Inc()
		return err
	}
	if _, err := transport.ReadBody(resp); err != nil {
		metrics.DiscoveryRequests.WithLabelValues("register", "error").Inc()
		return err
	}
	metrics.DiscoveryRequests.WithLabelValues("register", "success").Inc()
	return nil
}

// Search POSTs query to searchURL and returns the resulting items. The
// response may be either {"items":[...]} or a bare array.
func (m *Manager) Search(ctx context.Context, searchURL string, query interface{}, identity *did.Identity) ([]Item, error) {
	body, err := json.Marshal(query)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("search", "error").Inc()
		return nil, newValidationError("failed to encode search query", err)
	}

	resp, err := m.transport.Post(ctx, searchURL, body, identity)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	respBody, err := transport.ReadBody(resp)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("search", "error").Inc()
		return nil, err
	}

	items, err := parseSearchResponse(respBody)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	metrics.DiscoveryRequests.WithLabelValues("search", "success").Inc()
	return items, nil
}

func parseSearchResponse(body []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, newValidationError("failed to parse search response array", err)
		}
		return items, nil
	}
	var envelope searchResponse
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, newValidationError("failed to parse search response object", err)
	}
	return envelope.Items, nil
}
