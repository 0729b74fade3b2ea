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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anp-x/anp-go/agentdescription"
	"github.com/anp-x/anp-go/did"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Create, sign, and verify Agent Description documents",
}

var (
	agentName        string
	agentOwner       string
	agentDescription string
	agentOutput      string

	agentSignDomain    string
	agentSignPath      []string
	agentSignPort      int
	agentSignChallenge string

	agentVerifyDescriptionFile string
	agentVerifyDocumentFile    string
	agentVerifyChallenge       string
	agentVerifyDomain          string
)

var agentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Build an unsigned Agent Description",
	RunE:  runAgentCreate,
}

var agentSignCmd = &cobra.Command{
	Use:   "sign",
	Short: "Create a fresh did:wba identity and a signed Agent Description bound to it",
	Long: `sign generates a fresh did:wba identity scoped to --domain (identities are
never persisted by this tool), builds an Agent Description from
--name/--owner/--description, and signs it with the identity's
authentication key. Both the signed description and the identity's DID
document are written so a peer can verify independently.`,
	RunE: runAgentSign,
}

var agentVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a signed Agent Description against a DID document",
	RunE:  runAgentVerify,
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.AddCommand(agentCreateCmd)
	agentCmd.AddCommand(agentSignCmd)
	agentCmd.AddCommand(agentVerifyCmd)

	agentCreateCmd.Flags().StringVar(&agentName, "name", "", "agent name (required)")
	agentCreateCmd.Flags().StringVar(&agentOwner, "owner", "", "agent owner")
	agentCreateCmd.Flags().StringVar(&agentDescription, "description", "", "agent description")
	agentCreateCmd.Flags().StringVarP(&agentOutput, "output", "o", "", "output file path (default stdout)")
	_ = agentCreateCmd.MarkFlagRequired("name")

	agentSignCmd.Flags().StringVar(&agentName, "name", "", "agent name (required)")
	agentSignCmd.Flags().StringVar(&agentOwner, "owner", "", "agent owner")
	agentSignCmd.Flags().StringVar(&agentDescription, "description", "", "agent description")
	agentSignCmd.Flags().StringVar(&agentSignDomain, "domain", "", "domain to scope the signing identity to (required)")
	agentSignCmd.Flags().IntVar(&agentSignPort, "port", 0, "port to encode in the authority (omit for none)")
	agentSignCmd.Flags().StringSliceVar(&agentSignPath, "path", nil, "path segments, in order")
	agentSignCmd.Flags().StringVar(&agentSignChallenge, "challenge", "", "proof challenge")
	agentSignCmd.Flags().StringVarP(&agentOutput, "output", "o", "", "output file path (default stdout)")
	_ = agentSignCmd.MarkFlagRequired("name")
	_ = agentSignCmd.MarkFlagRequired("domain")

	agentVerifyCmd.Flags().StringVar(&agentVerifyDescriptionFile, "description", "", "path to the signed Agent Description JSON (required)")
	agentVerifyCmd.Flags().StringVar(&agentVerifyDocumentFile, "document", "", "path to the signer's DID document JSON; omitted means resolve over the network")
	agentVerifyCmd.Flags().StringVar(&agentVerifyChallenge, "challenge", "", "expected proof challenge, if any")
	agentVerifyCmd.Flags().StringVar(&agentVerifyDomain, "domain", "", "expected proof domain, if any")
	_ = agentVerifyCmd.MarkFlagRequired("description")
}

func runAgentCreate(cmd *cobra.Command, args []string) error {
	manager := agentdescription.NewManager(did.NewManager(did.Config{}))
	desc, err := manager.Create(agentdescription.Metadata{
		Name:        agentName,
		Owner:       agentOwner,
		Description: agentDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent description: %w", err)
	}
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(agentOutput, data)
}

func runAgentSign(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	didManager := did.NewManager(did.Config{})

	opts := did.CreateOptions{Domain: agentSignDomain, Path: agentSignPath}
	if agentSignPort != 0 {
		opts.Port = &agentSignPort
	}
	identity, err := didManager.Create(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to create signing identity: %w", err)
	}

	descManager := agentdescription.NewManager(didManager)
	desc, err := descManager.Create(agentdescription.Metadata{
		Name:        agentName,
		DID:         identity.DID,
		Owner:       agentOwner,
		Description: agentDescription,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent description: %w", err)
	}

	signed, err := descManager.Sign(desc, identity, agentSignChallenge, agentSignDomain)
	if err != nil {
		return fmt.Errorf("failed to sign agent description: %w", err)
	}

	result := struct {
		Description *agentdescription.Description `json:"description"`
		Document    *did.Document                  `json:"document"`
	}{Description: signed, Document: identity.Document}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(agentOutput, data)
}

func runAgentVerify(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	descData, err := os.ReadFile(agentVerifyDescriptionFile)
	if err != nil {
		return fmt.Errorf("failed to read description file: %w", err)
	}
	var desc agentdescription.Description
	if err := json.Unmarshal(descData, &desc); err != nil {
		return fmt.Errorf("failed to parse description file: %w", err)
	}

	var doc *did.Document
	if agentVerifyDocumentFile != "" {
		docData, err := os.ReadFile(agentVerifyDocumentFile)
		if err != nil {
			return fmt.Errorf("failed to read document file: %w", err)
		}
		doc = &did.Document{}
		if err := json.Unmarshal(docData, doc); err != nil {
			return fmt.Errorf("failed to parse document file: %w", err)
		}
	}

	manager := agentdescription.NewManager(did.NewManager(did.Config{}))
	var valid bool
	switch {
	case agentVerifyChallenge != "":
		valid = manager.VerifyWithChallenge(ctx, &desc, agentVerifyChallenge, doc)
	case agentVerifyDomain != "":
		valid = manager.VerifyWithDomain(ctx, &desc, agentVerifyDomain, doc)
	default:
		valid = manager.Verify(ctx, &desc, doc)
	}

	if valid {
		fmt.Println("valid")
		return nil
	}
	fmt.Println("invalid")
	os.Exit(1)
	return nil
}
