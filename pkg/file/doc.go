// Package file abstracts upload storage behind a Storage interface with
// local filesystem and S3 backends, plus MIME helpers for validating that an
// upload really is an image.
package file
