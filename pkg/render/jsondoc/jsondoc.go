// Package jsondoc serializes IR graphs to a stable JSON document with
// top-level nodes, edges and graphAttributes properties.
//
// Attribute values that parse as JSON primitives (null, booleans,
// integers, floats) are emitted as primitives so their type survives a
// round trip; everything else is emitted as a string. Output is
// deterministic: object keys sort lexicographically and arrays preserve
// graph order.
package jsondoc

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mhuels/dagview/pkg/ir"
)

type nodeDoc struct {
	ID         string                     `json:"id"`
	Label      string                     `json:"label,omitempty"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

type edgeDoc struct {
	Source     string                     `json:"source"`
	Target     string                     `json:"target"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

type document struct {
	Nodes           []nodeDoc                  `json:"nodes"`
	Edges           []edgeDoc                  `json:"edges"`
	GraphAttributes map[string]json.RawMessage `json:"graphAttributes,omitempty"`
}

// Emit serializes g to JSON.
func Emit(g *ir.Graph) ([]byte, error) {
	doc := document{
		Nodes: make([]nodeDoc, 0, len(g.Nodes)),
		Edges: make([]edgeDoc, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, nodeDoc{
			ID:         strconv.FormatUint(n.ID, 10),
			Label:      n.Attrs[ir.AttrLabel],
			Attributes: attrValues(n.Attrs),
		})
	}
	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, edgeDoc{
			Source:     strconv.FormatUint(e.Source, 10),
			Target:     strconv.FormatUint(e.Target, 10),
			Attributes: attrValues(e.Attrs),
		})
	}
	doc.GraphAttributes = attrValues(g.GlobalAttrs)

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("jsondoc: %w", err)
	}
	return out, nil
}

func attrValues(attrs ir.Attrs) map[string]json.RawMessage {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]json.RawMessage, len(attrs))
	for k, v := range attrs {
		m[k] = primitive(v)
	}
	return m
}

// primitive interprets s as a JSON primitive when it is exactly null, a
// boolean, an integer or a finite float; otherwise it is quoted as a
// JSON string.
func primitive(s string) json.RawMessage {
	switch s {
	case "null", "true", "false":
		return json.RawMessage(s)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return json.RawMessage(strconv.FormatInt(i, 10))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return json.RawMessage(strconv.FormatFloat(f, 'g', -1, 64))
	}
	quoted, err := json.Marshal(s)
	if err != nil {
		// Strings always marshal; unreachable.
		return json.RawMessage(`""`)
	}
	return json.RawMessage(quoted)
}
