// Package fetch resolves parsed locations to their full contents.
//
// Fetcher reads local files, S3 objects, and Azure blobs through injected
// clients so that credentials and SDK configuration stay outside the
// comparison logic and tests can substitute in-memory fakes.
package fetch
