// Package pattern lowers parsed HUNT programs into compiled, executable
// patterns and owns the registry they are registered into.
//
// # Lowering
//
// Each alpha block becomes one pattern. The INIT section's parameters
// become the rule list; an optional META section sets the confidence
// threshold, the aggregation mode, and the display name. EXEC modifiers
// select the pattern kind and the registration flags (prohib, req, floop).
//
// # Rules
//
// A rule is a tagged variant: Tag classifies by literal lookup, Pluck
// extracts properties by regex, Trap/Snare/Scent assert predicates with
// soft, fatal, and advisory failure modes, and Boil/Cook attach directives
// consumed by hierarchy building and code generation.
//
// # Registry
//
// The registry is populated once per pipeline run, before matching, and is
// read-only afterwards. Registration order is deterministic and used as a
// match tie-breaker.
package pattern
