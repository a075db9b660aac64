/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvGameMode, EnvHandicap, EnvStoreBucket,
		EnvStoreDir, EnvLogLevel, EnvHTTPAddr, EnvAppID, EnvPubKey,
		EnvBotToken} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvStoreDir, t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.GameMode)
	assert.False(t, cfg.WithHandicaps)
	assert.Empty(t, cfg.StoreBucket)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)

	err = cfg.RequireDiscord()
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "TTSWISS_GAME_MODE=2\n" +
		"TTSWISS_HANDICAP=true\n" +
		"TTSWISS_STORE_DIR=" + dir + "\n" +
		"DISCORD_APP_ID=1234567890\n" +
		"DISCORD_PUB_KEY=" +
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef\n" +
		"DISCORD_BOT_TOKEN=secret\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	// the process environment wins over the file
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.GameMode)
	assert.True(t, cfg.WithHandicaps)
	assert.Equal(t, dir, cfg.StoreDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.RequireDiscord())
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvGameMode, "4"},
		{EnvGameMode, "three"},
		{EnvHandicap, "maybe"},
		{EnvLogLevel, "verbose"},
		{EnvHTTPAddr, "not an address"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(EnvStoreDir, t.TempDir())
			t.Setenv(tc.key, tc.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.True(t, errors.Is(err, ErrInvalidConfig), "%v", err)
		})
	}
}
