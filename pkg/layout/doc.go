// Package layout computes a 2-D layered (Sugiyama-style) layout for an IR
// graph: rank assignment, crossing reduction within ranks, and coordinate
// assignment, plus a canvas refinement pass used by the SVG emitter.
//
// # Stages
//
// Layout is a pipeline of three total stages; none has a partial-success
// state:
//
//  1. Hierarchy assignment ([BuildHierarchy]): explicit rank attributes
//     when every node carries one, otherwise BFS layering from the
//     zero-in-degree sources. Nodes unreached by either (possible only for
//     defective inputs) land in a final synthetic rank.
//
//  2. Crossing reduction ([Hierarchy.Reduce]): alternating top-down and
//     bottom-up median sweeps followed by bounded transposition passes
//     that swap adjacent nodes when the swap strictly lowers the crossing
//     count against both neighbor ranks. Both are heuristics with fixed
//     iteration bounds - the result is locally improved, not
//     crossing-minimal (that problem is NP-hard).
//
//  3. Coordinate assignment ([Assign]): fixed horizontal spacing within a
//     rank, each rank centered about a common midpoint, ranks stacked
//     top-to-bottom.
//
// # Refinement
//
// [Refine] maps the simple coordinates onto an explicit drawing canvas for
// vector output: per-rank rows, a minimum center-to-center spacing that
// widens the canvas when necessary, and a bounded force-directed
// relaxation that frees only the horizontal coordinate - the vertical is
// re-anchored to the rank row after every iteration.
//
// # Failure Semantics
//
// Layout stages do not fail. They are pure numeric computations over an
// already-validated IR; near-zero distances in force computations are
// guarded with a small epsilon rather than signaling errors.
//
// # Tuning
//
// Pass counts (median sweeps, transposition iterations, relaxation steps)
// are tunable constants with sensible defaults, not load-bearing
// invariants.
package layout
