package export

import "errors"

var (
	// ErrUnknownFormat is returned for an export format other than csv or json.
	ErrUnknownFormat = errors.New("unknown export format: use csv or json")

	// ErrMissingBucket is returned when an S3 sink is created without a bucket.
	ErrMissingBucket = errors.New("s3 sink requires a bucket")

	// ErrMissingEndpoint is returned when an S3 sink is created without an endpoint.
	ErrMissingEndpoint = errors.New("s3 sink requires an endpoint")

	// ErrEmptyName is returned when a sink is asked to store an unnamed object.
	ErrEmptyName = errors.New("export name must not be empty")
)
