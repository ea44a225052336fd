package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidEndpoint is returned when the audit endpoint is not an http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http or https URL")

	// ErrUnknownStoreDriver is returned for a store driver other than sqlite,
	// postgres or memory.
	ErrUnknownStoreDriver = errors.New("unknown store driver: use sqlite, postgres or memory")

	// ErrMissingDatabaseURL is returned when the postgres driver is selected
	// without a connection string.
	ErrMissingDatabaseURL = errors.New("postgres store requires a database URL")

	// ErrIncompleteExport is returned when an S3 export bucket is configured
	// without an endpoint.
	ErrIncompleteExport = errors.New("s3 export requires both endpoint and bucket")
)
