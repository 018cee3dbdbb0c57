// Package model holds the classified component graph: components keyed by
// id, typed relationship edges, and the hierarchy builder that turns a flat
// component set into a containment forest with alignment and label edges.
//
// Components reference each other by id, never by pointer, so auxiliary
// edges may form cycles without ownership problems; the contains subgraph
// alone is kept a forest.
package model
