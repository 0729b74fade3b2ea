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
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var domainLabelRE = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

// validateDomain rejects an empty host, a host carrying a scheme or
// whitespace, or a host whose labels don't match DNS label syntax.
func validateDomain(host string) error {
	if host == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.ContainsAny(host, " \t\n\r") {
		return fmt.Errorf("domain must not contain whitespace: %q", host)
	}
	if strings.Contains(host, "://") {
		return fmt.Errorf("domain must not contain a scheme: %q", host)
	}
	for _, label := range strings.Split(host, ".") {
		if !domainLabelRE.MatchString(label) {
			return fmt.Errorf("invalid domain label: %q", label)
		}
	}
	return nil
}

// buildDID constructs a did:wba identifier: the authority (host,
// optionally with a non-443 port) and each path segment are
// independently percent-encoded; port 443 is omitted. The domain may
// carry an embedded "host:port"; an embedded port and an explicit port
// argument must not disagree.
func buildDID(domain string, port *int, pathSegments []string) (string, error) {
	if host, portStr, ok := strings.Cut(domain, ":"); ok {
		embedded, err := strconv.Atoi(portStr)
		if err != nil {
			return "", fmt.Errorf("invalid port in domain: %q", portStr)
		}
		if port != nil && *port != embedded {
			return "", fmt.Errorf("conflicting ports: domain says %d, option says %d", embedded, *port)
		}
		domain = host
		port = &embedded
	}
	if err := validateDomain(domain); err != nil {
		return "", err
	}

	authority := strings.ToLower(domain)
	if port != nil {
		if *port < 1 || *port > 65535 {
			return "", fmt.Errorf("port out of range: %d", *port)
		}
		if *port != 443 {
			authority = fmt.Sprintf("%s:%d", authority, *port)
		}
	}

	did := "did:wba:" + escapeDIDPart(authority)

	cleaned := make([]string, 0, len(pathSegments))
	for _, segment := range pathSegments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, escapeDIDPart(trimmed))
	}
	if len(cleaned) > 0 {
		did += ":" + strings.Join(cleaned, ":")
	}

	return did, nil
}

// escapeDIDPart percent-encodes one `:`-delimited part of a did:wba
// identifier. url.PathEscape leaves `:` unescaped (RFC 3986 allows it
// in a path segment), but here `:` is the part delimiter, so an
// embedded colon — a non-443 port in the authority — must come out as
// %3A or didToURL's split cannot recover the part boundaries.
func escapeDIDPart(part string) string {
	return strings.ReplaceAll(url.PathEscape(part), ":", "%3A")
}

// didToURL maps a did:wba identifier to the well-known document URL it
// resolves to. localhost and 127.0.0.1 use http, all
// other hosts use https — deliberately non-configurable.
func didToURL(did string) (string, error) {
	const prefix = "did:wba:"
	if !strings.HasPrefix(did, prefix) {
		return "", fmt.Errorf("invalid did:wba identifier: %q", did)
	}
	suffix := strings.TrimPrefix(did, prefix)
	if suffix == "" {
		return "", fmt.Errorf("did:wba identifier missing authority: %q", did)
	}

	parts := strings.Split(suffix, ":")
	authority, err := url.PathUnescape(parts[0])
	if err != nil {
		return "", fmt.Errorf("failed to unescape authority: %w", err)
	}

	pathSegments := make([]string, 0, len(parts)-1)
	for _, seg := range parts[1:] {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return "", fmt.Errorf("failed to unescape path segment: %w", err)
		}
		pathSegments = append(pathSegments, decoded)
	}

	scheme := schemeForAuthority(authority)

	if len(pathSegments) > 0 {
		return fmt.Sprintf("%s://%s/%s/did.json", scheme, authority, strings.Join(pathSegments, "/")), nil
	}
	return fmt.Sprintf("%s://%s/.well-known/did.json", scheme, authority), nil
}

// schemeForAuthority applies the HTTP scheme heuristic: localhost or
// 127.0.0.1 (with or without a port) implies http, every other host
// implies https.
func schemeForAuthority(authority string) string {
	host := authority
	if idx := strings.LastIndex(authority, ":"); idx >= 0 {
		if _, err := strconv.Atoi(authority[idx+1:]); err == nil {
			host = authority[:idx]
		}
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "http"
	}
	return "https"
}
