// Package aggregates defines the write boundaries of the quote engine and the
// error codes every layer uses to report failures.
package aggregates
