// SPDX-License-Identifier: MPL-2.0

package paramtype

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"

	"github.com/wasmforge/wasmforge/internal/issue"
)

var (
	decimalIntRegex   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	hexIntRegex       = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
	decimalFloatRegex = regexp.MustCompile(`^[-+]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?$`)
)

type (
	// Type decodes and validates the values of one parameter kind.
	Type interface {
		// Name is the type name shown in help output and error messages.
		Name() string
		// Parse converts a raw CLI token into a typed value.
		Parse(param, raw string) (any, error)
		// Validate checks a value passed programmatically (e.g. a nested Run
		// call or a default value).
		Validate(param string, value any) error
	}

	stringType  struct{}
	booleanType struct{}
	intType     struct{}
	floatType   struct{}
	bigIntType  struct{}
	jsonType    struct{}
	anyType     struct{}

	inputFileType struct {
		fs afero.Fs
	}
)

var (
	// String accepts any token verbatim.
	String Type = stringType{}
	// Boolean accepts "true" or "false", case-insensitively.
	Boolean Type = booleanType{}
	// Int accepts decimal or 0x-prefixed hexadecimal integers that fit in an int64.
	Int Type = intType{}
	// Float accepts decimal numbers and 0x-prefixed hexadecimal integers.
	Float Type = floatType{}
	// BigInt accepts decimal or hexadecimal integers of arbitrary size.
	BigInt Type = bigIntType{}
	// JSON accepts a valid JSON document and decodes it.
	JSON Type = jsonType{}
	// InputFile accepts the path of an existing readable file on the OS filesystem.
	InputFile Type = NewInputFile(afero.NewOsFs())
	// Any accepts every value but cannot be parsed from the command line.
	Any Type = anyType{}
)

// NewInputFile returns an input file type that checks paths against fsys.
func NewInputFile(fsys afero.Fs) Type {
	return inputFileType{fs: fsys}
}

// IsCLIType reports whether values of t can be read from command-line tokens.
func IsCLIType(t Type) bool {
	_, isAny := t.(anyType)
	return t != nil && !isAny
}

// normalizeInt strips leading zeros from decimal integers so base detection
// never reads them as octal.
func normalizeInt(raw string) string {
	if hexIntRegex.MatchString(raw) {
		return raw
	}
	sign := ""
	digits := raw
	if raw[0] == '-' || raw[0] == '+' {
		sign, digits = raw[:1], raw[1:]
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return sign + digits
}

func invalidValue(param string, value any, t Type) error {
	return issue.New(issue.InvalidValueForType, map[string]any{
		"value": value,
		"name":  param,
		"type":  t.Name(),
	})
}

func (stringType) Name() string { return "string" }

func (t stringType) Parse(_, raw string) (any, error) { return raw, nil }

func (t stringType) Validate(param string, value any) error {
	if _, ok := value.(string); !ok {
		return invalidValue(param, value, t)
	}
	return nil
}

func (booleanType) Name() string { return "boolean" }

func (t booleanType) Parse(param, raw string) (any, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return nil, invalidValue(param, raw, t)
	}
}

func (t booleanType) Validate(param string, value any) error {
	if _, ok := value.(bool); !ok {
		return invalidValue(param, value, t)
	}
	return nil
}

func (intType) Name() string { return "int" }

func (t intType) Parse(param, raw string) (any, error) {
	if !decimalIntRegex.MatchString(raw) && !hexIntRegex.MatchString(raw) {
		return nil, invalidValue(param, raw, t)
	}
	n, err := cast.ToInt64E(normalizeInt(raw))
	if err != nil {
		return nil, issue.Wrap(issue.InvalidValueForType, map[string]any{
			"value": raw, "name": param, "type": t.Name(),
		}, err)
	}
	return n, nil
}

func (t intType) Validate(param string, value any) error {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return nil
	default:
		return invalidValue(param, value, t)
	}
}

func (floatType) Name() string { return "float" }

func (t floatType) Parse(param, raw string) (any, error) {
	if hexIntRegex.MatchString(raw) {
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, invalidValue(param, raw, t)
		}
		return float64(n), nil
	}
	if !decimalFloatRegex.MatchString(raw) {
		return nil, invalidValue(param, raw, t)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, issue.Wrap(issue.InvalidValueForType, map[string]any{
			"value": raw, "name": param, "type": t.Name(),
		}, err)
	}
	return f, nil
}

func (t floatType) Validate(param string, value any) error {
	switch value.(type) {
	case float32, float64, int, int64:
		return nil
	default:
		return invalidValue(param, value, t)
	}
}

func (bigIntType) Name() string { return "bigint" }

func (t bigIntType) Parse(param, raw string) (any, error) {
	if !decimalIntRegex.MatchString(raw) && !hexIntRegex.MatchString(raw) {
		return nil, invalidValue(param, raw, t)
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(normalizeInt(raw), "+"), 0)
	if !ok {
		return nil, invalidValue(param, raw, t)
	}
	return n, nil
}

func (t bigIntType) Validate(param string, value any) error {
	if _, ok := value.(*big.Int); !ok {
		return invalidValue(param, value, t)
	}
	return nil
}

func (jsonType) Name() string { return "json" }

func (t jsonType) Parse(param, raw string) (any, error) {
	if !gjson.Valid(raw) {
		return nil, issue.New(issue.InvalidJSONArgument, map[string]any{
			"param": param,
			"error": fmt.Sprintf("invalid JSON document %q", raw),
		})
	}
	return gjson.Parse(raw).Value(), nil
}

// Validate accepts any value: every Go value decoded from JSON is valid.
func (jsonType) Validate(string, any) error { return nil }

func (inputFileType) Name() string { return "inputFile" }

func (t inputFileType) Parse(param, raw string) (any, error) {
	if err := t.check(param, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (t inputFileType) Validate(param string, value any) error {
	path, ok := value.(string)
	if !ok {
		return invalidValue(param, value, t)
	}
	return t.check(param, path)
}

func (t inputFileType) check(param, path string) error {
	invalid := func(cause error) error {
		return issue.Wrap(issue.InvalidInputFile, map[string]any{"name": param, "value": path}, cause)
	}
	info, err := t.fs.Stat(path)
	if err != nil {
		return invalid(err)
	}
	if info.IsDir() {
		return invalid(fmt.Errorf("%s is a directory", path))
	}
	f, err := t.fs.Open(path)
	if err != nil {
		return invalid(err)
	}
	return f.Close()
}

func (anyType) Name() string { return "any" }

func (t anyType) Parse(param, raw string) (any, error) {
	return nil, invalidValue(param, raw, t)
}

func (anyType) Validate(string, any) error { return nil }
