// Package export provides the generator back-end contract and the built-in
// back-ends: a text tree dump, JSON serialization, and an SVG layout
// preview. Back-ends register by name into a per-run registry; the core
// never inspects the artifacts they produce.
package export
