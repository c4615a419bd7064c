// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"maps"
	"os"
	"slices"
	"strings"
)

// EnvToSlice converts env to KEY=VALUE pairs sorted by key.
func EnvToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

// mergeEnviron returns base with every key of overrides replaced or added.
func mergeEnviron(base []string, overrides map[string]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[k]; ok {
			continue
		}
		out = append(out, kv)
	}
	return append(out, EnvToSlice(overrides)...)
}

func processEnviron(overrides map[string]string) []string {
	return mergeEnviron(os.Environ(), overrides)
}
