// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/config"
)

// MustWriteFiles writes every path → content pair into fsys, creating parent
// directories. The test fails immediately if a write fails.
func MustWriteFiles(t testing.TB, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, fsys afero.Fs, path string) {
	t.Helper()
	if err := fsys.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// WriteProject scaffolds a wasmforge project in root: the config file
// rendered from cfg and an empty contracts directory. A nil cfg writes the
// defaults. It returns the config file path.
func WriteProject(t testing.TB, fsys afero.Fs, root string, cfg *config.Config) string {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	path := filepath.Join(root, config.ConfigFileName)
	MustWriteFiles(t, fsys, map[string]string{path: config.GenerateCUE(cfg)})
	MustMkdirAll(t, fsys, filepath.Join(root, cfg.Paths.Contracts))
	return path
}

// MapLookup returns an environment lookup backed by env, for code that reads
// variables through an injected os.LookupEnv.
func MapLookup(env map[string]string) func(key string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
