// Package simulator synthesizes a plausible analysis result when no live
// measurement is available.
//
// Category scores depend only on the URL's hostname, so repeated runs for the
// same site agree. Metrics are drawn from a random source on every call.
// Results always carry Simulated = true.
package simulator
