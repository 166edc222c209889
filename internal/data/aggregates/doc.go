// Package aggregates implements the domain aggregate contracts on top of the
// table repos and owns their transaction boundaries.
package aggregates
