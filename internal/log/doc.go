// Package log builds the slog loggers used across SitePulse.
//
// Every logger returned by this package wraps its handler in a
// RedactingHandler, which masks credentials before a record is written:
//   - attributes whose key names a secret (api_key, authorization, token, ...)
//   - string values that look like bearer tokens or Google API keys
//   - the key, token and signature query parameters of any URL value
//
// The PageSpeed request URL carries the API key as a query parameter, so
// logging a request URL is safe only through these loggers.
//
//	logger := log.NewSecureLogger(os.Stderr, true)
//	logger.Debug("fetching audit", "url", requestURL) // key=***REDACTED***
package log
