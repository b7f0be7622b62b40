// Package records keeps the submitted Records of one session: an ordered
// List addressed by stable ids, and a Table that layers in-place edit
// sessions and column derivation on top of it.
package records
