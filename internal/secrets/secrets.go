// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves the SerpAPI credential from the environment
// or from a directory of plain-text key files. Each file holds one
// secret: the filename is the key name and the trimmed contents are the
// value.
//
// Supported key files: serpapi-api-key.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDir is where key files live unless configured otherwise.
	DefaultDir = ".secrets"

	envKey  = "SERPAPI_API_KEY"
	keyFile = "serpapi-api-key"
)

// knownFiles lists the secret files the loader understands.
var knownFiles = map[string]bool{
	keyFile: true,
}

// APIKey resolves the SerpAPI key. The SERPAPI_API_KEY environment
// variable wins; otherwise the serpapi-api-key file under dir is used.
// An empty return means no key is configured, which is not an error:
// the key can still arrive by flag or config file. Unknown or
// unreadable files produce a warning on w and are skipped.
func APIKey(dir string, w io.Writer) (string, error) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v, nil
	}
	values, err := load(dir, w)
	if err != nil {
		return "", err
	}
	return values[keyFile], nil
}

// load reads the allowlisted key files from dir. A missing directory is
// not an error; load returns an empty map.
func load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !knownFiles[name] {
			fmt.Fprintf(w, "warning: ignoring unknown secret file %s\n", name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
