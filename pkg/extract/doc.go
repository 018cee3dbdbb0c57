// Package extract produces candidate components from a grid using a
// two-phase flood fill: boundary marking followed by 4-connected interior
// fill. Candidates are ordered deterministically and carry the raw interior
// rows needed by pattern matching.
package extract
