// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyEnvWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "serpapi-api-key", "from-file")
	t.Setenv("SERPAPI_API_KEY", "  from-env  \n")

	var warnings bytes.Buffer
	got, err := APIKey(dir, &warnings)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)
	assert.Empty(t, warnings.String())
}

func TestAPIKeyFromFile(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T) string
		want         string
		wantWarnings []string
	}{
		{
			name: "reads key file and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "serpapi-api-key", "  sk_abc123  \n")
				return dir
			},
			want: "sk_abc123",
		},
		{
			name: "nonexistent directory yields no key",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: "",
		},
		{
			name: "empty key file yields no key",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "serpapi-api-key", "   \n\t  ")
				return dir
			},
			want: "",
		},
		{
			name: "unknown files warn and are ignored",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "serpapi-api-key", "sk_real")
				writeFile(t, dir, "other-api-key", "sk_other")
				return dir
			},
			want:         "sk_real",
			wantWarnings: []string{"warning: ignoring unknown secret file other-api-key"},
		},
		{
			name: "dotfiles are skipped silently",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, "serpapi-api-key", "sk_real")
				return dir
			},
			want: "sk_real",
		},
		{
			name: "subdirectories are skipped silently",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "serpapi-api-key", "sk_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: "sk_real",
		},
		{
			name: "empty directory yields no key",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SERPAPI_API_KEY", "")
			dir := tt.setup(t)

			var warnings bytes.Buffer
			got, err := APIKey(dir, &warnings)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, want := range tt.wantWarnings {
				assert.Contains(t, warnings.String(), want)
			}
			if len(tt.wantWarnings) == 0 {
				assert.Empty(t, warnings.String())
			}
		})
	}
}

func TestAPIKeyUnreadableFile(t *testing.T) {
	t.Setenv("SERPAPI_API_KEY", "")
	dir := t.TempDir()

	// Create the key file then remove read permission.
	badPath := filepath.Join(dir, "serpapi-api-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	if _, err := os.ReadFile(badPath); err == nil {
		t.Skip("file permissions not enforced for this user")
	}

	var warnings bytes.Buffer
	got, err := APIKey(dir, &warnings)
	require.NoError(t, err)
	assert.Empty(t, got, "unreadable file should not yield a key")
	assert.Contains(t, warnings.String(), "warning: could not read secret serpapi-api-key")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
