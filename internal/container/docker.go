// SPDX-License-Identifier: MPL-2.0

package container

import "os/exec"

// DockerEngine runs containers through the docker CLI.
type DockerEngine struct {
	*BaseCLIEngine
}

// NewDockerEngine creates a Docker engine using the docker binary in PATH.
func NewDockerEngine(opts ...BaseCLIEngineOption) *DockerEngine {
	path, _ := exec.LookPath(string(EngineTypeDocker))
	return &DockerEngine{BaseCLIEngine: NewBaseCLIEngine(string(EngineTypeDocker), path, opts...)}
}
