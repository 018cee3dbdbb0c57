// Package pipeline orchestrates a recognition run: pattern parsing,
// candidate extraction, matching, hierarchy building, and code generation.
//
// # Run model
//
// A run owns its context exclusively. Stage order is fixed; every stage
// publishes its output into the context and may read anything published
// earlier. Errors are routed through per-stage handlers; an unhandled
// error, a snare-triggered fatal flag, or cancellation aborts the run at
// the next stage boundary.
//
// # Determinism
//
// Same grid, same pattern sources, same options: identical component ids,
// types, properties, and diagnostics. Candidate iteration, rule order, and
// registration order are all deterministic, which the tie-breaking rules
// rely on.
//
// # Incremental runs
//
// When every required stage is incremental-capable, RunIncremental applies
// a change delta instead of recomputing the world: only candidates whose
// bounding box overlaps the delta are re-matched; stages that are not
// incremental-capable re-run in full, transparently.
package pipeline
