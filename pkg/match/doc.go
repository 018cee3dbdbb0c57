// Package match applies compiled patterns to extracted candidates and
// selects the best match per candidate. Rule evaluation is deterministic:
// candidates in extraction order, rules in declaration order with trap and
// snare rules first, ties broken by rule count and registration order.
package match
