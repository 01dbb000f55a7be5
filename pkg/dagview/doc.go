// Package dagview defines the read-only view contract that foreign DAGs
// must satisfy to be traversed, converted to IR, and laid out.
//
// # The View Contract
//
// A [View] exposes a foreign directed acyclic graph through the smallest
// possible surface: entry points ([View.Roots]) and outgoing edges
// ([View.Children]). Nothing in this module depends on a concrete graph
// representation - adapters wrap whatever structure they already have
// (an AST, a decision diagram, an in-memory slice) without copying it.
//
// Nodes are identified by opaque [Handle] values. A handle must expose a
// 64-bit stable key that is unique per logical node for the duration of one
// traversal; the core uses it for memoization and never inspects anything
// else. Two handles denote the same node exactly when their stable keys are
// equal. How an adapter derives the key (arena index, pointer bits, content
// hash) is its own business.
//
// # Guards
//
// Adapters whose backing structure must be pinned while a node is read
// (for example, to suspend internal garbage collection or reordering)
// implement the optional [Guarded] interface. The traversal acquires the
// guard before touching a node and releases it when done with that node.
// Adapters with no such requirement simply don't implement it.
//
// # Failure Semantics
//
// The contract itself raises no errors. An adapter that violates it
// (inconsistent handle identity, children of undeclared nodes) produces
// undefined traversal results, not a defined error - adapter correctness
// is a caller obligation, not a runtime-checked invariant.
package dagview
