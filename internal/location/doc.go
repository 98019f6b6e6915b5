// Package location parses file location strings into a tagged variant.
//
// A location is either a local filesystem path, an S3 object reference
// (s3://bucket/key), or an Azure Blob Storage reference
// (azure://connection/container/blob). Parse is the single entry point and
// reports malformed cloud references instead of guessing.
package location
