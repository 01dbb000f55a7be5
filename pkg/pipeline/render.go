package pipeline

import (
	"context"
	"time"

	"github.com/mhuels/dagview/pkg/errors"
	"github.com/mhuels/dagview/pkg/ir"
	"github.com/mhuels/dagview/pkg/observability"
	"github.com/mhuels/dagview/pkg/render/dot"
	"github.com/mhuels/dagview/pkg/render/jsondoc"
	"github.com/mhuels/dagview/pkg/render/mermaid"
	"github.com/mhuels/dagview/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, g *ir.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := render(g, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(g *ir.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderOne(g, format, opts)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderOne(g *ir.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		s, err := dot.Emit(g, dot.Options{GraphName: opts.GraphName})
		if err != nil {
			return nil, err
		}
		return []byte(s), nil

	case FormatJSON:
		return jsondoc.Emit(g)

	case FormatMermaid:
		return []byte(mermaid.Emit(g, mermaid.Options{GraphName: opts.GraphName})), nil

	case FormatSVG:
		return svg.Emit(g, svg.Options{
			Title:  opts.Title,
			Layout: opts.LayoutOptions(),
			Canvas: opts.CanvasOptions(),
		}), nil

	case FormatSVGGV:
		s, err := dot.Emit(g, dot.Options{GraphName: opts.GraphName})
		if err != nil {
			return nil, err
		}
		return dot.RenderSVG(s)

	case FormatPNG:
		s, err := dot.Emit(g, dot.Options{GraphName: opts.GraphName})
		if err != nil {
			return nil, err
		}
		return dot.RenderPNG(s)

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}
