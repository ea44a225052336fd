// Package export writes saved analyses as CSV or JSON and delivers the
// encoded file to a sink: a local directory or an S3-compatible bucket.
package export
