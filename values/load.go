package values

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/ardnew/skel/log"
	"github.com/ardnew/skel/pkg"
)

// Format identifies a values file encoding.
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatJSON               // json
	FormatHCL                // hcl
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatHCL:
		return "hcl"
	default:
		return "unknown"
	}
}

// FormatOf returns the format implied by the extension of name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, pkg.ErrInvalidFormat.Wrapf(
			"%s: expected one of .yaml, .yml, .json, .hcl", name)
	}
}

// Load reads and decodes each file in order and merges the results, later
// files overriding earlier ones.
func Load(ctx context.Context, logger log.Logger, paths ...string) (Tree, error) {
	var tree Tree

	for _, path := range paths {
		t, err := LoadFile(ctx, path)
		if err != nil {
			return Tree{}, err
		}

		logger.DebugContext(ctx, "load values",
			slog.String("path", path),
			slog.Int("keys", t.Len()))

		tree = tree.Merge(t)
	}

	return tree, nil
}

// LoadFile reads and decodes one values file.
func LoadFile(ctx context.Context, path string) (Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tree{}, pkg.ErrReadInput.Wrap(err)
	}
	defer f.Close()

	return Read(ctx, path, f)
}

// Read decodes a values document from r. name selects the format by its
// extension and appears in error messages.
func Read(ctx context.Context, name string, r io.Reader) (Tree, error) {
	format, err := FormatOf(name)
	if err != nil {
		return Tree{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Tree{}, pkg.ErrReadInput.Wrap(err)
	}

	if err := ctx.Err(); err != nil {
		return Tree{}, err
	}

	return Decode(format, name, data)
}

// Decode decodes a values document in the given format.
func Decode(format Format, name string, data []byte) (Tree, error) {
	var (
		m   map[string]any
		err error
	)

	switch format {
	case FormatYAML, FormatJSON:
		m, err = decodeYAML(data)
	case FormatHCL:
		m, err = decodeHCL(name, data)
	default:
		return Tree{}, pkg.ErrInvalidFormat.Wrapf("%s: %s", name, format)
	}

	if err != nil {
		return Tree{}, pkg.ErrParse.Wrapf("%s: %w", name, err)
	}

	return New(m)
}

func decodeYAML(data []byte) (map[string]any, error) {
	var m map[string]any

	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func decodeHCL(name string, data []byte) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, diags
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	m := make(map[string]any, len(attrs))

	for key, attr := range attrs {
		val, diags := attr.Expr.Value(&hcl.EvalContext{})
		if diags.HasErrors() {
			return nil, diags
		}

		v, err := fromCty(val)
		if err != nil {
			return nil, err
		}

		m[key] = v
	}

	return m, nil
}

// fromCty converts an HCL value to plain Go data. Whole numbers become
// int64; other numbers float64.
func fromCty(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}

	ty := val.Type()

	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Bool:
		return val.True(), nil

	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}

		f, _ := bf.Float64()

		return f, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())

		for it := val.ElementIterator(); it.Next(); {
			k, e := it.Element()

			v, err := fromCty(e)
			if err != nil {
				return nil, err
			}

			out[k.AsString()] = v
		}

		return out, nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())

		for it := val.ElementIterator(); it.Next(); {
			_, e := it.Element()

			v, err := fromCty(e)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil

	default:
		return nil, pkg.ErrUnsupportedValue.Wrapf("cty type %s", ty.FriendlyName())
	}
}
