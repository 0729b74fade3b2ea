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
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/anp-x/anp-go/crypto/keys"
	"github.com/anp-x/anp-go/did"
)

var didCmd = &cobra.Command{
	Use:   "did",
	Short: "Create and resolve did:wba identities",
}

var (
	didCreateDomain string
	didCreatePort   int
	didCreatePath   []string
	didCreateOutput string

	didResolveSkipCache bool
)

var didCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a fresh did:wba identity",
	Long: `Create generates a new did:wba identity: an Ed25519 authentication key
and an X25519 key-agreement key, bound to the given domain (and optional
path segments). Only the DID document and base58 public keys are printed;
private key material never leaves the process.`,
	RunE: runDIDCreate,
}

var didResolveCmd = &cobra.Command{
	Use:   "resolve [DID]",
	Short: "Resolve a did:wba identifier to its DID document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDIDResolve,
}

func init() {
	rootCmd.AddCommand(didCmd)
	didCmd.AddCommand(didCreateCmd)
	didCmd.AddCommand(didResolveCmd)

	didCreateCmd.Flags().StringVar(&didCreateDomain, "domain", "", "domain the identity is scoped to (required)")
	didCreateCmd.Flags().IntVar(&didCreatePort, "port", 0, "port to encode in the authority (omit for none)")
	didCreateCmd.Flags().StringSliceVar(&didCreatePath, "path", nil, "path segments, in order")
	didCreateCmd.Flags().StringVarP(&didCreateOutput, "output", "o", "", "output file path (default stdout)")
	_ = didCreateCmd.MarkFlagRequired("domain")

	didResolveCmd.Flags().BoolVar(&didResolveSkipCache, "skip-cache", false, "bypass the resolution cache")
}

func runDIDCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	manager := did.NewManager(did.Config{})

	opts := did.CreateOptions{Domain: didCreateDomain, Path: didCreatePath}
	if didCreatePort != 0 {
		opts.Port = &didCreatePort
	}

	identity, err := manager.Create(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	result := struct {
		DID      string       `json:"did"`
		Document *did.Document `json:"document"`
		Keys     map[string]string `json:"publicKeysBase58"`
	}{
		DID:      identity.DID,
		Document: identity.Document,
		Keys:     make(map[string]string, len(identity.PrivateKeys)),
	}
	for id, entry := range identity.PrivateKeys {
		switch kp := entry.KeyPair.(type) {
		case *keys.X25519KeyPair:
			result.Keys[id] = base58.Encode(kp.PublicKeyBytes())
		default:
			if pub, ok := kp.PublicKey().(ed25519.PublicKey); ok {
				result.Keys[id] = base58.Encode(pub)
			}
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(didCreateOutput, data)
}

func runDIDResolve(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	manager := did.NewManager(did.Config{})

	doc, err := manager.Resolve(ctx, args[0], did.ResolveOptions{SkipCache: didResolveSkipCache})
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Written to %s\n", path)
	return nil
}
