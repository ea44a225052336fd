// Package model defines the core data structures used throughout SitePulse.
//
// This package contains the following main types:
//   - AnalysisResult: The normalized outcome of analyzing one URL
//   - Audit: A single named check with its qualitative Impact
//   - HistoryEntry: A compact, persisted summary of a past analysis
//   - Comparison: The score differences between two history entries
//
// Multiple packages (pagespeed, simulator, history, report, server) share
// these types, so they live here to avoid import cycles. All types serialize
// to the JSON shape consumed by the dashboard UI.
package model
