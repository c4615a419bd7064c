// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const (
	// ContainerEngineAuto picks podman when installed, docker otherwise.
	ContainerEngineAuto ContainerEngine = "auto"
	// ContainerEngineDocker uses Docker for optimized builds.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman for optimized builds.
	ContainerEnginePodman ContainerEngine = "podman"

	// LocalNetwork is the network every project gets without declaring it.
	LocalNetwork = "local"
)

// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
var ErrInvalidContainerEngine = errors.New("invalid container engine")

type (
	// ContainerEngine selects the container CLI used for optimized builds.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// Config is the resolved configuration of a wasmforge project.
	Config struct {
		DefaultNetwork string                   `mapstructure:"default_network" validate:"required"`
		Networks       map[string]NetworkConfig `mapstructure:"networks" validate:"dive"`
		Paths          PathsConfig              `mapstructure:"paths"`
		Compiler       CompilerConfig           `mapstructure:"compiler"`
		Plugins        []string                 `mapstructure:"plugins" validate:"dive,required"`

		// Root is the project directory, empty outside a project.
		Root string `mapstructure:"-"`
		// Path is the config file the values were read from.
		Path string `mapstructure:"-"`
	}

	// NetworkConfig describes how to reach one chain.
	NetworkConfig struct {
		Endpoint string        `mapstructure:"endpoint" validate:"required,url"`
		ChainID  string        `mapstructure:"chain_id" validate:"required"`
		GasPrice string        `mapstructure:"gas_price"`
		Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
	}

	// PathsConfig holds project directories, relative to the project root.
	PathsConfig struct {
		Contracts string `mapstructure:"contracts" validate:"required"`
		Artifacts string `mapstructure:"artifacts" validate:"required"`
		Cache     string `mapstructure:"cache" validate:"required"`
		Scripts   string `mapstructure:"scripts" validate:"required"`
	}

	// CompilerConfig configures contract compilation.
	CompilerConfig struct {
		// Command is the compiler executable, run once per contract.
		Command string `mapstructure:"command" validate:"required"`
		// Args are passed to Command before the contract's manifest path.
		Args []string `mapstructure:"args"`
		// OptimizerImage is the container image used by compile --optimize.
		OptimizerImage  string          `mapstructure:"optimizer_image" validate:"required"`
		ContainerEngine ContainerEngine `mapstructure:"container_engine"`
	}
)

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: auto, docker, podman)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine so callers can use errors.Is for programmatic detection.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// String returns the string representation of the ContainerEngine.
func (e ContainerEngine) String() string { return string(e) }

// Validate returns nil for a known engine and an InvalidContainerEngineError otherwise.
func (e ContainerEngine) Validate() error {
	switch e {
	case ContainerEngineAuto, ContainerEngineDocker, ContainerEnginePodman:
		return nil
	default:
		return &InvalidContainerEngineError{Value: e}
	}
}

// DefaultLocalNetwork returns the built-in local network.
func DefaultLocalNetwork() NetworkConfig {
	return NetworkConfig{
		Endpoint: "http://127.0.0.1:26657",
		ChainID:  "wasmforge-local",
		GasPrice: "0.025ustake",
		Timeout:  10 * time.Second,
	}
}

// DefaultConfig returns the configuration used when a project sets nothing.
func DefaultConfig() *Config {
	return &Config{
		DefaultNetwork: LocalNetwork,
		Networks:       map[string]NetworkConfig{LocalNetwork: DefaultLocalNetwork()},
		Paths: PathsConfig{
			Contracts: "contracts",
			Artifacts: "artifacts",
			Cache:     "cache",
			Scripts:   "scripts",
		},
		Compiler: CompilerConfig{
			Command:         "cargo",
			Args:            []string{"build", "--release", "--lib", "--target", "wasm32-unknown-unknown", "--manifest-path"},
			OptimizerImage:  "cosmwasm/optimizer:0.16.1",
			ContainerEngine: ContainerEngineAuto,
		},
	}
}

// InProject reports whether the configuration was read from a project file.
func (c *Config) InProject() bool {
	return c.Root != ""
}

// ResolvePath joins a project-relative path with the project root. Absolute
// paths are returned unchanged.
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}
