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

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anp-x/anp-go/did"
)

func TestRunDIDCreateWritesIdentityWithBase58Keys(t *testing.T) {
	didCreateDomain = "example.com"
	didCreatePort = 0
	didCreatePath = []string{"alice"}
	outPath := filepath.Join(t.TempDir(), "identity.json")
	didCreateOutput = outPath
	defer func() { didCreateOutput = "" }()

	require.NoError(t, runDIDCreate(didCreateCmd, nil))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var result struct {
		DID      string            `json:"did"`
		Document *did.Document     `json:"document"`
		Keys     map[string]string `json:"publicKeysBase58"`
	}
	require.NoError(t, json.Unmarshal(data, &result))

	require.Equal(t, "did:wba:example.com:alice", result.DID)
	require.Len(t, result.Keys, 2)
	for _, encoded := range result.Keys {
		require.NotEmpty(t, encoded)
	}
}

func TestRunDIDResolveReadsBackCreatedDocument(t *testing.T) {
	manager := did.NewManager(did.Config{})
	identity, err := manager.Create(context.Background(), did.CreateOptions{Domain: "placeholder", Path: []string{"bob"}})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/bob/did.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(identity.Document)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	targetDID := "did:wba:" + strings.ReplaceAll(host, ":", "%3A") + ":bob"
	identity.Document.ID = targetDID

	didResolveSkipCache = false
	require.NoError(t, runDIDResolve(didResolveCmd, []string{targetDID}))
}

func TestWriteOutputWritesToFileOrStdout(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput(outPath, []byte(`{"ok":true}`)))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(data))

	require.NoError(t, writeOutput("", []byte(`{"ok":true}`)))
}
