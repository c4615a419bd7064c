// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

func (t *tasks) declareNetworkStatus(s *runtime.Session) runtime.TaskBuilder {
	return s.Task(TaskNetworkStatus, "Prints the chain id and latest block of the selected network", t.networkStatus).
		AddOptionalParam("timeout", "Request timeout in seconds, overriding the network's", nil, paramtype.Float)
}

func (t *tasks) networkStatus(ctx context.Context, args runtime.Arguments, env *runtime.Environment, _ runtime.RunSuper) (any, error) {
	network := env.Network()
	if args.Has("timeout") {
		network.Timeout = time.Duration(args.Float("timeout") * float64(time.Second))
	}

	status, err := t.deps.NewStatusClient(network).Status(ctx)
	if err != nil {
		return nil, err
	}

	out := env.Stdout()
	fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Network:"), network.Name)
	fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Chain ID:"), status.ChainID)
	fmt.Fprintf(out, "%s %d\n", nameStyle.Render("Latest block:"), status.LatestHeight)
	if !status.LatestBlockTime.IsZero() {
		fmt.Fprintf(out, "%s %s\n", nameStyle.Render("Block time:"), status.LatestBlockTime.Format(time.RFC3339))
	}
	if status.CatchingUp {
		fmt.Fprintln(out, mutedStyle.Render("The node is still catching up."))
	}
	if expected := network.ChainID; expected != "" && expected != status.ChainID {
		env.Logger().Warn("chain id mismatch", "network", network.Name, "configured", expected, "reported", status.ChainID)
	}
	return status, nil
}
