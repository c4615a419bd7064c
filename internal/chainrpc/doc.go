// SPDX-License-Identifier: MPL-2.0

// Package chainrpc is a small client for the CometBFT RPC endpoint of a
// configured network.
package chainrpc
