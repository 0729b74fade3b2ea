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

// Package discovery implements the Discovery Manager: paged
// retrieval of an agent's published `/.well-known/agent-descriptions`
// collection, and registration/search against a search service.
package discovery

// PageType is the wire-constant @type of a discovery document.
const PageType = "CollectionPage"

// Item is one entry of a discovery page's items array.
type Item struct {
	Name string `json:"name"`
	DID  string `json:"did,omitempty"`
	URL  string `json:"url"`
}

// page is one `/.well-known/agent-descriptions` collection page.
type page struct {
	Type  string `json:"@type"`
	URL   string `json:"url"`
	Items []Item `json:"items"`
	Next  string `json:"next,omitempty"`
}

// RegisterRequest is the body Register POSTs to a search service.
type RegisterRequest struct {
	AgentDescriptionURL string `json:"agentDescriptionUrl"`
}

// searchResponse models the {"items": [...]} envelope form of a Search
// response; parseSearchResponse decodes the bare-array form separately.
type searchResponse struct {
	Items []Item `json:"items"`
}
