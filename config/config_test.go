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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaultsWhenNoFileExists(t *testing.T) {
	cfg, err := Load(LoaderOptions{ConfigDir: t.TempDir(), Environment: "test"})
	require.NoError(t, err)
	require.Equal(t, "test", cfg.Environment)
	require.Equal(t, 5*time.Minute, cfg.DID.CacheTTL)
	require.Equal(t, 10*time.Second, cfg.DID.Timeout)
	require.Equal(t, 10, cfg.Negotiation.MaxNegotiationRounds)
	require.Equal(t, 32, cfg.Channel.SaltSize)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadReadsEnvironmentSpecificFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("did:\n  cache_ttl: 1m\n  timeout: 2s\nnegotiation:\n  max_negotiation_rounds: 5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), content, 0o644))

	cfg, err := Load(LoaderOptions{ConfigDir: dir, Environment: "staging"})
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Environment)
	require.Equal(t, time.Minute, cfg.DID.CacheTTL)
	require.Equal(t, 2*time.Second, cfg.DID.Timeout)
	require.Equal(t, 5, cfg.Negotiation.MaxNegotiationRounds)
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("ANP_TEST_VAR", "resolved")
	require.Equal(t, "resolved", SubstituteEnvVars("${ANP_TEST_VAR}"))
	require.Equal(t, "fallback", SubstituteEnvVars("${ANP_TEST_UNSET:fallback}"))
}

func TestGetEnvironmentDefaultsToDevelopment(t *testing.T) {
	require.Equal(t, "development", GetEnvironment())
}

func TestGetEnvironmentHonorsANPEnv(t *testing.T) {
	t.Setenv("ANP_ENV", "production")
	require.Equal(t, "production", GetEnvironment())
	require.True(t, IsProduction())
}
