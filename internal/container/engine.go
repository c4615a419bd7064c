// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wasmforge/wasmforge/internal/config"
	"github.com/wasmforge/wasmforge/internal/issue"
)

const (
	// EngineTypePodman is the podman CLI.
	EngineTypePodman EngineType = "podman"
	// EngineTypeDocker is the docker CLI.
	EngineTypeDocker EngineType = "docker"
)

// ErrInvalidVolumeMount is the sentinel error wrapped by InvalidVolumeMountError.
var ErrInvalidVolumeMount = errors.New("invalid volume mount")

type (
	// EngineType identifies a container engine CLI.
	EngineType string

	// Engine runs commands in containers.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available reports whether the engine binary exists and answers.
		Available(ctx context.Context) bool
		// Run runs a command in a new container and waits for it.
		Run(ctx context.Context, opts RunOptions) (RunResult, error)
	}

	// RunOptions describes a container run.
	RunOptions struct {
		Image   string
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		Env     map[string]string
		Volumes []VolumeMount
		// Remove deletes the container once it exits.
		Remove bool
		Stdout io.Writer
		Stderr io.Writer
	}

	// RunResult is the outcome of a container run that started.
	RunResult struct {
		ExitCode int
	}

	// VolumeMount binds a host path into the container.
	VolumeMount struct {
		HostPath      string
		ContainerPath string
		ReadOnly      bool
	}

	// InvalidVolumeMountError is returned when a VolumeMount is missing a path.
	InvalidVolumeMountError struct {
		Value VolumeMount
	}
)

// Error implements the error interface.
func (e *InvalidVolumeMountError) Error() string {
	return fmt.Sprintf("invalid volume mount %q: host and container paths are required", e.Value.String())
}

// Unwrap returns ErrInvalidVolumeMount for errors.Is.
func (e *InvalidVolumeMountError) Unwrap() error { return ErrInvalidVolumeMount }

// Validate checks that both paths are set and absolute inside the container.
func (v VolumeMount) Validate() error {
	if v.HostPath == "" || v.ContainerPath == "" || !strings.HasPrefix(v.ContainerPath, "/") {
		return &InvalidVolumeMountError{Value: v}
	}
	return nil
}

// String formats the mount as host:container[:ro].
func (v VolumeMount) String() string {
	s := v.HostPath + ":" + v.ContainerPath
	if v.ReadOnly {
		s += ":ro"
	}
	return s
}

// NewEngine returns the engine selected by the config. "auto" tries podman
// first, then docker; an explicit choice falls back to the other engine.
func NewEngine(ctx context.Context, preferred config.ContainerEngine, opts ...BaseCLIEngineOption) (Engine, error) {
	if preferred == "" {
		preferred = config.ContainerEngineAuto
	}
	if err := preferred.Validate(); err != nil {
		return nil, err
	}

	var candidates []Engine
	switch preferred {
	case config.ContainerEngineDocker:
		candidates = []Engine{NewDockerEngine(opts...), NewPodmanEngine(opts...)}
	default:
		candidates = []Engine{NewPodmanEngine(opts...), NewDockerEngine(opts...)}
	}
	return firstAvailable(ctx, candidates)
}

func firstAvailable(ctx context.Context, candidates []Engine) (Engine, error) {
	names := make([]string, 0, len(candidates))
	for _, e := range candidates {
		if e.Available(ctx) {
			return e, nil
		}
		names = append(names, e.Name())
	}
	return nil, issue.New(issue.ContainerEngineNotFound, map[string]any{"engines": strings.Join(names, ", ")})
}
