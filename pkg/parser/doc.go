// Package parser builds a HUNT program AST from the token stream and
// enforces the Cabin Brackets Hierarchical System: four bracket tiers,
// vertical reachability on the first two, and per-tier naming case.
//
// The parser follows a "continuous code" philosophy: recoverable errors
// (misaligned or missing brackets, wrong naming case, stray tokens) are
// reported to the diagnostics list and parsing continues. Only a
// structurally impossible stream, such as a close bracket with no matching
// open, aborts the file.
package parser
