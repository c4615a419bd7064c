// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/wasmforge/wasmforge/internal/issue"
)

const projectConfig = `
default_network: "testnet"

networks: {
	testnet: {
		endpoint: "https://rpc.testnet.example.com"
		chain_id: "forge-testnet-1"
		timeout:  "30s"
	}
	local: {
		chain_id: "my-localnet"
	}
}

paths: artifacts: "build"
plugins: ["optimizer"]
`

func newProjectFs(t *testing.T, content string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/work/project/contracts/counter", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "/work/project/"+ConfigFileName, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return fsys
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.DefaultNetwork != LocalNetwork {
		t.Errorf("DefaultNetwork = %q, want %q", cfg.DefaultNetwork, LocalNetwork)
	}
	if _, ok := cfg.Networks[LocalNetwork]; !ok {
		t.Error("default config has no local network")
	}
	if cfg.Compiler.ContainerEngine != ContainerEngineAuto {
		t.Errorf("ContainerEngine = %q, want auto", cfg.Compiler.ContainerEngine)
	}
	if cfg.InProject() {
		t.Error("default config should not be inside a project")
	}
	if err := validateConfig(cfg); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Parallel()

	fsys := newProjectFs(t, projectConfig)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{
		WorkDir: "/work/project/contracts/counter",
		Fs:      fsys,
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Root != "/work/project" {
		t.Errorf("Root = %q, want /work/project", cfg.Root)
	}
	if cfg.Path != "/work/project/"+ConfigFileName {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.DefaultNetwork != "testnet" {
		t.Errorf("DefaultNetwork = %q, want testnet", cfg.DefaultNetwork)
	}
	testnet := cfg.Networks["testnet"]
	if testnet.ChainID != "forge-testnet-1" || testnet.Timeout != 30*time.Second {
		t.Errorf("testnet = %+v", testnet)
	}
	local := cfg.Networks[LocalNetwork]
	if local.ChainID != "my-localnet" {
		t.Errorf("local chain id = %q, want the project's value", local.ChainID)
	}
	if local.Endpoint != DefaultLocalNetwork().Endpoint {
		t.Errorf("local endpoint = %q, want the built-in default", local.Endpoint)
	}
	if cfg.Paths.Artifacts != "build" || cfg.Paths.Contracts != "contracts" {
		t.Errorf("Paths = %+v", cfg.Paths)
	}
	if len(cfg.Plugins) != 1 || cfg.Plugins[0] != "optimizer" {
		t.Errorf("Plugins = %v", cfg.Plugins)
	}
	if got := cfg.ResolvePath(cfg.Paths.Artifacts); got != "/work/project/build" {
		t.Errorf("ResolvePath() = %q", got)
	}
}

func TestLoadOutsideProject(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/elsewhere", 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{WorkDir: "/elsewhere", Fs: fsys})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InProject() {
		t.Errorf("Root = %q, want empty", cfg.Root)
	}
	if cfg.DefaultNetwork != LocalNetwork {
		t.Errorf("DefaultNetwork = %q", cfg.DefaultNetwork)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: "/nope/" + ConfigFileName,
		Fs:             afero.NewMemMapFs(),
	})
	if !issue.Is(err, issue.ConfigNotFound) {
		t.Fatalf("Load() error = %v, want %s", err, issue.ConfigNotFound.Code())
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax error", `default_network: [`, ConfigFileName},
		{"unknown field", `colour: "blue"`, "colour"},
		{"bad engine", `compiler: container_engine: "rkt"`, "container_engine"},
		{"uppercase network", `networks: Main: endpoint: "https://x.example.com"`, "Main"},
		{"network missing endpoint", `networks: devnet: chain_id: "dev-1"`, "Endpoint"},
		{"network bad url", `networks: devnet: {endpoint: "not a url", chain_id: "dev-1"}`, "not a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := newProjectFs(t, tt.content)
			_, err := NewProvider().Load(context.Background(), LoadOptions{WorkDir: "/work/project", Fs: fsys})
			if !issue.Is(err, issue.InvalidConfig) {
				t.Fatalf("Load() error = %v, want %s", err, issue.InvalidConfig.Code())
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WASMFORGE_PATHS_ARTIFACTS", "out")

	fsys := newProjectFs(t, `default_network: "local"`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{WorkDir: "/work/project", Fs: fsys})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paths.Artifacts != "out" {
		t.Errorf("Paths.Artifacts = %q, want the environment value", cfg.Paths.Artifacts)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProvider().Load(ctx, LoadOptions{Fs: afero.NewMemMapFs()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Plugins = []string{"optimizer"}
	fsys := newProjectFs(t, GenerateCUE(want))

	got, err := NewProvider().Load(context.Background(), LoadOptions{WorkDir: "/work/project", Fs: fsys})
	if err != nil {
		t.Fatalf("Load(GenerateCUE()) error = %v", err)
	}
	if got.DefaultNetwork != want.DefaultNetwork ||
		got.Networks[LocalNetwork] != want.Networks[LocalNetwork] ||
		got.Paths != want.Paths ||
		got.Compiler.OptimizerImage != want.Compiler.OptimizerImage ||
		len(got.Compiler.Args) != len(want.Compiler.Args) ||
		len(got.Plugins) != 1 {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestContainerEngineValidate(t *testing.T) {
	t.Parallel()

	for _, e := range []ContainerEngine{ContainerEngineAuto, ContainerEngineDocker, ContainerEnginePodman} {
		if err := e.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v", e, err)
		}
	}
	err := ContainerEngine("rkt").Validate()
	if !errors.Is(err, ErrInvalidContainerEngine) {
		t.Errorf("Validate(rkt) = %v, want ErrInvalidContainerEngine", err)
	}
}
