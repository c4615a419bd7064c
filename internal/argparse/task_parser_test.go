// SPDX-License-Identifier: MPL-2.0

package argparse

import (
	"reflect"
	"testing"

	"github.com/wasmforge/wasmforge/internal/issue"
	"github.com/wasmforge/wasmforge/internal/runtime"
	"github.com/wasmforge/wasmforge/pkg/paramtype"
)

func deployTask(t *testing.T) runtime.TaskDefinition {
	t.Helper()

	def := runtime.NewTaskDefinition("deploy", false)
	def.AddParam("label", "", nil, paramtype.String, false).
		AddOptionalParam("bleep", "", 1602, paramtype.Int).
		AddOptionalParam("gasPrice", "", nil, paramtype.Float, runtime.WithShortName("g")).
		AddFlag("dryRun", "", runtime.WithShortName("d")).
		AddPositionalParam("contract", "", nil, paramtype.String, false).
		AddOptionalPositionalParam("admin", "", "none", paramtype.String)
	if err := def.Err(); err != nil {
		t.Fatal(err)
	}
	return def
}

func variadicTask(t *testing.T) runtime.TaskDefinition {
	t.Helper()

	def := runtime.NewTaskDefinition("sum", false)
	def.AddPositionalParam("first", "", nil, paramtype.Int, false).
		AddOptionalVariadicPositionalParam("rest", "", []any{}, paramtype.Int)
	if err := def.Err(); err != nil {
		t.Fatal(err)
	}
	return def
}

func TestParseTaskArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   runtime.Arguments
	}{
		{
			name:   "defaults",
			tokens: []string{"--label", "v1", "counter"},
			want:   runtime.Arguments{"label": "v1", "bleep": 1602, "dryRun": false, "contract": "counter", "admin": "none"},
		},
		{
			name:   "every param",
			tokens: []string{"counter", "--bleep", "0x10", "-d", "alice", "--label=v2", "-g", "0.5"},
			want: runtime.Arguments{
				"label": "v2", "bleep": int64(16), "gasPrice": 0.5, "dryRun": true, "contract": "counter", "admin": "alice",
			},
		},
		{
			name:   "inline flag value",
			tokens: []string{"--dry-run=false", "--label", "x", "counter"},
			want:   runtime.Arguments{"label": "x", "bleep": 1602, "dryRun": false, "contract": "counter", "admin": "none"},
		},
		{
			name:   "separator",
			tokens: []string{"--label", "x", "--", "--counter"},
			want:   runtime.Arguments{"label": "x", "bleep": 1602, "dryRun": false, "contract": "--counter", "admin": "none"},
		},
		{
			name:   "negative number and grouped shorts are positionals",
			tokens: []string{"--label", "x", "-1", "-dq"},
			want:   runtime.Arguments{"label": "x", "bleep": 1602, "dryRun": false, "contract": "-1", "admin": "-dq"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewParser().ParseTaskArgs(deployTask(t), tt.tokens)
			if err != nil {
				t.Fatalf("ParseTaskArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTaskArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseTaskArgsDefaultFromBuilder(t *testing.T) {
	t.Parallel()

	def := runtime.NewTaskDefinition("t", false)
	def.AddParam("bleep", "", 1602, paramtype.Int, true)

	got, err := NewParser().ParseTaskArgs(def, nil)
	if err != nil {
		t.Fatalf("ParseTaskArgs() error = %v", err)
	}
	if got["bleep"] != 1602 {
		t.Errorf("bleep = %v, want 1602", got["bleep"])
	}
}

func TestParseTaskArgsVariadic(t *testing.T) {
	t.Parallel()

	for k := range 4 {
		tokens := []string{"1"}
		wantRest := []any{}
		for i := range k {
			tokens = append(tokens, "0x0"+string(rune('1'+i)))
			wantRest = append(wantRest, int64(i+1))
		}

		got, err := NewParser().ParseTaskArgs(variadicTask(t), tokens)
		if err != nil {
			t.Fatalf("ParseTaskArgs(%v) error = %v", tokens, err)
		}
		if got["first"] != int64(1) {
			t.Errorf("first = %v", got["first"])
		}
		if !reflect.DeepEqual(got["rest"], wantRest) {
			t.Errorf("rest = %#v, want %#v", got["rest"], wantRest)
		}
	}
}

func TestParseTaskArgsPositionalOrder(t *testing.T) {
	t.Parallel()

	def := runtime.NewTaskDefinition("t", false)
	def.AddPositionalParam("a", "", nil, paramtype.String, false).
		AddPositionalParam("b", "", nil, paramtype.String, false).
		AddPositionalParam("c", "", nil, paramtype.String, false)

	got, err := NewParser().ParseTaskArgs(def, []string{"x", "y", "z"})
	if err != nil {
		t.Fatalf("ParseTaskArgs() error = %v", err)
	}
	if want := (runtime.Arguments{"a": "x", "b": "y", "c": "z"}); !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTaskArgs() = %v, want %v", got, want)
	}

	if _, err := NewParser().ParseTaskArgs(def, nil); !issue.Is(err, issue.MissingPositionalArg) {
		t.Errorf("empty remainder error = %v", err)
	}
}

func TestParseTaskArgsIdempotent(t *testing.T) {
	t.Parallel()

	tokens := []string{"counter", "--label", "v1", "-d"}
	def := deployTask(t)
	p := NewParser()

	first, err := p.ParseTaskArgs(def, tokens)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.ParseTaskArgs(def, tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parses differ: %v vs %v", first, second)
	}
}

func TestParseTaskArgsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tokens []string
		want   *issue.Descriptor
	}{
		{"missing named", []string{"counter"}, issue.MissingTaskArgument},
		{"missing positional", []string{"--label", "x"}, issue.MissingPositionalArg},
		{"extra positional", []string{"--label", "x", "a", "b", "c"}, issue.UnrecognizedPositionalArg},
		{"unknown name", []string{"--label", "x", "--nope", "counter"}, issue.UnrecognizedParamName},
		{"unknown short", []string{"--label", "x", "-q", "counter"}, issue.UnrecognizedParamName},
		{"bad casing", []string{"--dryRun", "--label", "x", "counter"}, issue.InvalidParamNameCasingCLI},
		{"repeated", []string{"--label", "x", "--label", "y", "counter"}, issue.RepeatedParam},
		{"missing value", []string{"counter", "--label"}, issue.MissingTaskArgument},
		{"bad int", []string{"--label", "x", "--bleep", "ten", "counter"}, issue.InvalidValueForType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewParser().ParseTaskArgs(deployTask(t), tt.tokens)
			if !issue.Is(err, tt.want) {
				t.Fatalf("ParseTaskArgs(%v) error = %v, want %s", tt.tokens, err, tt.want.Code())
			}
		})
	}
}

func TestParseTaskArgsVariadicCoercionError(t *testing.T) {
	t.Parallel()

	_, err := NewParser().ParseTaskArgs(variadicTask(t), []string{"1", "2", "three"})
	if !issue.Is(err, issue.InvalidValueForType) {
		t.Fatalf("ParseTaskArgs() error = %v", err)
	}
}
