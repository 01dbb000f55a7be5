package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/dagview/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output         string  // output file path (or base path for multiple formats)
	formats        []string // output formats: "dot", "json", "mermaid", "svg", "svg-gv", "png"
	style          string  // style sheet name or path to a TOML file
	title          string  // diagram title rendered above the canvas
	graphName      string  // graph identifier used in DOT and Mermaid output
	noCache        bool    // disable the render cache
	refresh        bool    // recompute all stages, overwriting cached entries
	nodeDist       float64 // minimum horizontal distance between nodes
	layerDist      float64 // vertical distance between layers
	medianPasses   int     // up/down sweeps of median crossing reduction
	transposeIters int     // adjacent-swap transposition iterations
	relaxIters     int     // force-directed canvas refinement iterations
}

// renderCommand creates the render command for generating diagram artifacts.
//
// Default settings:
//   - format: svg
//   - style: default
//   - layout knobs: the pipeline defaults (node-dist 24, layer-dist 24,
//     median-passes 8, transpose-iters 6)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		style: pipeline.DefaultStyle,
	}

	cmd := &cobra.Command{
		Use:   "render <expression|file>",
		Short: "Render a boolean expression as a layered diagram",
		Long: `Render parses a boolean expression (or a file containing one), computes a
layered layout, and writes the requested output formats.

The argument is treated as a file path when a file with that name exists,
and as an inline expression otherwise.`,
		Example: `  dagview render "a AND (b OR c)"
  dagview render circuit.bool -f svg,png -o circuit
  dagview render "x XOR NOT y" --style dark --title "Parity"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, mermaid, svg-gv, png (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "style sheet name or path to a TOML file")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title")
	cmd.Flags().StringVar(&opts.graphName, "name", "", "graph identifier for DOT and Mermaid output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute all stages, overwriting cached entries")
	cmd.Flags().Float64Var(&opts.nodeDist, "node-dist", 0, "minimum horizontal distance between nodes")
	cmd.Flags().Float64Var(&opts.layerDist, "layer-dist", 0, "vertical distance between layers")
	cmd.Flags().IntVar(&opts.medianPasses, "median-passes", 0, "crossing reduction sweeps")
	cmd.Flags().IntVar(&opts.transposeIters, "transpose-iters", 0, "transposition iterations")
	cmd.Flags().IntVar(&opts.relaxIters, "relax", 0, "force-directed refinement iterations")

	return cmd
}

// runRender executes the full pipeline and writes the resulting artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		GraphName:      opts.graphName,
		Style:          opts.style,
		Title:          opts.title,
		Refresh:        opts.refresh,
		Formats:        opts.formats,
		NodeDist:       opts.nodeDist,
		LayerDist:      opts.layerDist,
		MedianPasses:   opts.medianPasses,
		TransposeIters: opts.transposeIters,
		RelaxIters:     opts.relaxIters,
		Logger:         c.Logger,
	}
	expressionInput(input, &popts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	sp := newSpinnerWithContext(ctx, "Rendering diagram")
	sp.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		if sp.Cancelled() {
			sp.Stop()
			return ctx.Err()
		}
		sp.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	sp.Stop()

	printSuccess("Rendered %s", StyleHighlight.Render(popts.Source))
	elapsed := result.Stats.BuildTime + result.Stats.LayoutTime + result.Stats.RenderTime
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, elapsed, result.CacheInfo.RenderHit)

	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path, len(result.Artifacts[format]))
	}

	return nil
}

// outputPath derives the file path for a rendered artifact.
// With a single format the output flag is used verbatim when set. With
// multiple formats the output flag (or the input name) becomes a base path
// and each artifact gets its format as the extension.
func outputPath(output, input, format string, multi bool) string {
	ext := extensionFor(format)
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if base == "" || strings.ContainsAny(base, " \t()") {
			base = "graph"
		}
	}
	return base + "." + ext
}

// extensionFor maps a format to its file extension. The Graphviz SVG
// variant keeps a distinct extension so requesting both svg formats at
// once never overwrites one with the other.
func extensionFor(format string) string {
	switch format {
	case pipeline.FormatDOT:
		return "dot"
	case pipeline.FormatMermaid:
		return "mmd"
	case pipeline.FormatSVGGV:
		return "gv.svg"
	default:
		return format
	}
}
