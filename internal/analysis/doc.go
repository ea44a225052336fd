// Package analysis orchestrates "analyze a URL".
//
// Service.Analyze asks the live audit API when a key is configured and
// otherwise, or whenever the live call fails in any way, returns a simulated
// result. Callers always receive a usable result; the only error is an
// invalid URL rejected by the simulator.
//
// AnalyzeBatch runs several analyses concurrently with errgroup and a
// configurable limit, keeping results in input order.
package analysis
