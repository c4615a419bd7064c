// SPDX-License-Identifier: MPL-2.0

package container

import (
	"os"
	"os/exec"
	"slices"
	"strings"
)

const selinuxEnforcePath = "/sys/fs/selinux/enforce"

// PodmanEngine runs containers through the podman CLI. Bind mounts get an
// SELinux label when SELinux is enforcing, and runs keep the host user id
// so build outputs stay owned by the caller.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a Podman engine using the podman binary in PATH.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path, _ := exec.LookPath(string(EngineTypePodman))
	selinux := isSELinuxEnabled()
	defaults := []BaseCLIEngineOption{
		WithVolumeFormatter(func(v VolumeMount) string { return addSELinuxLabel(v.String(), selinux) }),
		WithRunArgsTransformer(keepUserID),
	}
	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(string(EngineTypePodman), path, append(defaults, opts...)...),
	}
}

func isSELinuxEnabled() bool {
	data, err := os.ReadFile(selinuxEnforcePath)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}

// addSELinuxLabel appends the shared :z label to a host:container[:opts]
// volume unless it already carries one.
func addSELinuxLabel(volume string, enabled bool) string {
	if !enabled {
		return volume
	}
	parts := strings.Split(volume, ":")
	if len(parts) < 2 {
		return volume
	}
	if len(parts) >= 3 {
		options := strings.Split(parts[len(parts)-1], ",")
		if slices.Contains(options, "z") || slices.Contains(options, "Z") {
			return volume
		}
		return volume + ",z"
	}
	return volume + ":z"
}

// keepUserID inserts --userns=keep-id right after the run subcommand.
func keepUserID(args []string) []string {
	if len(args) == 0 || args[0] != "run" || slices.Contains(args, "--userns=keep-id") {
		return args
	}
	return slices.Insert(args, 1, "--userns=keep-id")
}
