// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/wasmforge/wasmforge/cmd/wasmforge"

func main() {
	cmd.Execute()
}
