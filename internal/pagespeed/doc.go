// Package pagespeed talks to the PageSpeed Insights v5 API and turns its
// Lighthouse payload into a model.AnalysisResult.
//
// Client.Fetch performs exactly one GET per call with the mobile strategy and
// the performance, accessibility, best-practices and seo categories. Failures
// are reported as *TransportError (network or HTTP status) or *ShapeError
// (the body is not the expected document). Parse and ExtractAudits are pure.
package pagespeed
