// Package style provides TOML-defined visual styles for graph rendering.
//
// A style sheet supplies default attributes for the graph, its nodes, and
// its edges, plus per-group overrides keyed on the "group" attribute.
// Sheet attributes never override values an attributor has already set;
// they only fill gaps. Sheets are loaded from TOML files or selected from
// the built-in set by name.
package style

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/mhuels/dagview/pkg/dagview"
	"github.com/mhuels/dagview/pkg/errors"
	"github.com/mhuels/dagview/pkg/ir"
)

// Sheet is a parsed style sheet.
type Sheet struct {
	// Graph holds graph-level attributes (rankdir, graph.label, ...).
	Graph map[string]string `toml:"graph"`

	// Node holds default node attributes.
	Node map[string]string `toml:"node"`

	// Edge holds default edge attributes.
	Edge map[string]string `toml:"edge"`

	// Group holds per-group node overrides, matched against the node's
	// "group" attribute. Group attributes win over Node defaults.
	Group map[string]map[string]string `toml:"group"`
}

// builtins are the style sheets shipped with the binary.
var builtins = map[string]string{
	"default": `
[node]
shape = "box"
fillcolor = "#e8eef7"
color = "#3b5b82"
style = "filled"

[edge]
color = "#5f6368"
`,
	"dark": `
[graph]
bgcolor = "#1e1e2e"

[node]
shape = "box"
fillcolor = "#313244"
color = "#89b4fa"
style = "filled"
fontname = "monospace"

[edge]
color = "#a6adc8"
`,
	"plain": `
[node]
shape = "box"
`,
}

// Names returns the built-in style names, sorted.
func Names() []string {
	out := make([]string, 0, len(builtins))
	for name := range builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Builtin returns a built-in style sheet by name.
func Builtin(name string) (*Sheet, error) {
	src, ok := builtins[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style: %s", name)
	}
	var s Sheet
	if err := toml.Unmarshal([]byte(src), &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "parse built-in style")
	}
	return &s, nil
}

// Load reads a style sheet from a TOML file.
func Load(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, "read style file")
	}
	var s Sheet
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidStyle, "parse style file")
	}
	return &s, nil
}

// Resolve returns the sheet for a built-in name or, when the argument
// looks like a path to a TOML file, loads it from disk.
func Resolve(nameOrPath string) (*Sheet, error) {
	if _, ok := builtins[nameOrPath]; ok {
		return Builtin(nameOrPath)
	}
	if err := errors.ValidateStyleName(nameOrPath); err == nil {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style: %s", nameOrPath)
	}
	return Load(nameOrPath)
}

// GlobalAttrs returns the graph-level attributes of the sheet.
func (s *Sheet) GlobalAttrs() ir.Attrs {
	if len(s.Graph) == 0 {
		return nil
	}
	out := make(ir.Attrs, len(s.Graph))
	for k, v := range s.Graph {
		out[k] = v
	}
	return out
}

// apply fills missing keys of attrs from defaults.
func apply(attrs ir.Attrs, defaults map[string]string) ir.Attrs {
	if len(defaults) == 0 {
		return attrs
	}
	if attrs == nil {
		attrs = ir.Attrs{}
	}
	for k, v := range defaults {
		if _, ok := attrs[k]; !ok {
			attrs[k] = v
		}
	}
	return attrs
}

// NodeAttributor wraps an attributor so that sheet defaults fill any
// attribute the inner attributor leaves unset. A nil inner attributor
// yields style attributes only.
func (s *Sheet) NodeAttributor(inner ir.NodeAttributor) ir.NodeAttributor {
	return func(v dagview.View, h dagview.Handle) (ir.Attrs, error) {
		var attrs ir.Attrs
		if inner != nil {
			var err error
			attrs, err = inner(v, h)
			if err != nil {
				return nil, err
			}
		}
		if group := attrs.Lookup(ir.AttrGroup, ""); group != "" {
			attrs = apply(attrs, s.Group[group])
		}
		return apply(attrs, s.Node), nil
	}
}

// EdgeAttributor wraps an attributor so that sheet defaults fill any
// attribute the inner attributor leaves unset.
func (s *Sheet) EdgeAttributor(inner ir.EdgeAttributor) ir.EdgeAttributor {
	return func(v dagview.View, parent dagview.Handle, e dagview.Edge) (ir.Attrs, error) {
		var attrs ir.Attrs
		if inner != nil {
			var err error
			attrs, err = inner(v, parent, e)
			if err != nil {
				return nil, err
			}
		}
		return apply(attrs, s.Edge), nil
	}
}
