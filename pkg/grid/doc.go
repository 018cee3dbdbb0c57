// Package grid provides the 2-D character buffer that recognition runs on,
// the box-drawing border classification table, and a uniform-cell spatial
// index for region-to-component lookup.
package grid
