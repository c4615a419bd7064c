// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"

	"github.com/spf13/afero"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// WorkDir is where the upward project search starts. Defaults to the
	// process working directory.
	WorkDir string
	// Fs is the filesystem to read from. Defaults to the OS filesystem.
	Fs afero.Fs
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source. Outside a project it
// returns the defaults with an empty Root.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}

func (o LoadOptions) fs() afero.Fs {
	if o.Fs != nil {
		return o.Fs
	}
	return afero.NewOsFs()
}

func (o LoadOptions) workDir() string {
	if o.WorkDir != "" {
		return o.WorkDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
