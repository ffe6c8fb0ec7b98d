// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files. Each file is one secret: the filename is the key name
// and the trimmed file contents are the value. An environment variable in
// SCREAMING_SNAKE form of the key (e.g. SEMANTIC_SCHOLAR_API_KEY for
// semantic-scholar-api-key) overrides the file.
//
// Supported key files: semantic-scholar-api-key, openalex-email.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents, with environment overrides applied. A missing directory is
// not an error; Load returns an empty map. Unreadable files produce a
// warning on warn but do not abort.
func Load(dir string, warn io.Writer) (map[string]string, error) {
	if warn == nil {
		warn = io.Discard
	}

	secrets := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[entry.Name()] = value
		}
	}

	for key := range secrets {
		if v := os.Getenv(envName(key)); v != "" {
			secrets[key] = v
		}
	}

	return secrets, nil
}

// Get returns the named secret, checking the environment override even
// when no secrets directory existed.
func Get(secrets map[string]string, key string) string {
	if v := os.Getenv(envName(key)); v != "" {
		return v
	}
	return secrets[key]
}

// envName converts a secret file name to its environment variable form.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
