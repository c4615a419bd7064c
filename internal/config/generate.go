// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// GenerateCUE renders cfg as a wasmforge.config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// wasmforge project configuration.\n")
	sb.WriteString("// Run `wasmforge help` to list the available tasks.\n\n")

	fmt.Fprintf(&sb, "default_network: %q\n", cfg.DefaultNetwork)

	if len(cfg.Networks) > 0 {
		sb.WriteString("\nnetworks: {\n")
		for _, name := range slices.Sorted(maps.Keys(cfg.Networks)) {
			n := cfg.Networks[name]
			fmt.Fprintf(&sb, "\t%q: {\n", name)
			fmt.Fprintf(&sb, "\t\tendpoint: %q\n", n.Endpoint)
			fmt.Fprintf(&sb, "\t\tchain_id: %q\n", n.ChainID)
			if n.GasPrice != "" {
				fmt.Fprintf(&sb, "\t\tgas_price: %q\n", n.GasPrice)
			}
			if n.Timeout > 0 {
				fmt.Fprintf(&sb, "\t\ttimeout: %q\n", n.Timeout.String())
			}
			sb.WriteString("\t}\n")
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\npaths: {\n")
	fmt.Fprintf(&sb, "\tcontracts: %q\n", cfg.Paths.Contracts)
	fmt.Fprintf(&sb, "\tartifacts: %q\n", cfg.Paths.Artifacts)
	fmt.Fprintf(&sb, "\tcache: %q\n", cfg.Paths.Cache)
	fmt.Fprintf(&sb, "\tscripts: %q\n", cfg.Paths.Scripts)
	sb.WriteString("}\n")

	sb.WriteString("\ncompiler: {\n")
	fmt.Fprintf(&sb, "\tcommand: %q\n", cfg.Compiler.Command)
	if len(cfg.Compiler.Args) > 0 {
		quoted := make([]string, len(cfg.Compiler.Args))
		for i, a := range cfg.Compiler.Args {
			quoted[i] = fmt.Sprintf("%q", a)
		}
		fmt.Fprintf(&sb, "\targs: [%s]\n", strings.Join(quoted, ", "))
	}
	fmt.Fprintf(&sb, "\toptimizer_image: %q\n", cfg.Compiler.OptimizerImage)
	fmt.Fprintf(&sb, "\tcontainer_engine: %q\n", cfg.Compiler.ContainerEngine)
	sb.WriteString("}\n")

	if len(cfg.Plugins) > 0 {
		quoted := make([]string, len(cfg.Plugins))
		for i, p := range cfg.Plugins {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		fmt.Fprintf(&sb, "\nplugins: [%s]\n", strings.Join(quoted, ", "))
	}

	return sb.String()
}
