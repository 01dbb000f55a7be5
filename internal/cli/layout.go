package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhuels/dagview/pkg/ir"
	"github.com/mhuels/dagview/pkg/pipeline"
)

// layoutCommand creates the layout command for inspecting layout geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{
		Style: pipeline.DefaultStyle,
	}

	cmd := &cobra.Command{
		Use:   "layout <expression|file>",
		Short: "Compute the layered layout and print it as JSON",
		Long: `Layout runs rank assignment, crossing reduction, and canvas refinement,
and prints the resulting geometry as JSON.

The argument is a boolean expression, a file containing one, or a .json file
holding a previously emitted graph document. The output contains the canvas
dimensions, the per-node coordinates, and the row baselines. It is the same
geometry the SVG emitter draws from.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "style sheet name or path to a TOML file")
	cmd.Flags().Float64Var(&opts.NodeDist, "node-dist", 0, "minimum horizontal distance between nodes")
	cmd.Flags().Float64Var(&opts.LayerDist, "layer-dist", 0, "vertical distance between layers")
	cmd.Flags().IntVar(&opts.MedianPasses, "median-passes", 0, "crossing reduction sweeps")
	cmd.Flags().IntVar(&opts.TransposeIters, "transpose-iters", 0, "transposition iterations")
	cmd.Flags().IntVar(&opts.RelaxIters, "relax", 0, "force-directed refinement iterations")

	return cmd
}

// layoutGraph resolves the input into a graph: a .json file is decoded as a
// graph document, anything else goes through the expression build.
func layoutGraph(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*ir.Graph, error) {
	if strings.HasSuffix(input, ".json") {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		var g ir.Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, err
		}
		return &g, nil
	}
	expressionInput(input, &opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	return runner.Build(ctx, opts)
}

// runLayout builds the graph, computes the layout, and writes the geometry.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	start := time.Now()

	spinner := newSpinnerWithContext(ctx, "Building graph...")
	spinner.Start()

	g, err := layoutGraph(ctx, runner, input, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build graph: %w", err)
	}

	spinner.SetMessage("Computing layout...")
	refined, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(refined, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output, len(data))
	printStats(len(g.Nodes), len(g.Edges), time.Since(start), cacheHit)

	return nil
}
