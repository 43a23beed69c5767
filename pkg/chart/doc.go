// Package chart decodes inline chart payloads and writes them to disk.
//
// A payload is a JSON array of {name, data} records, optionally gzip
// compressed and base64 encoded. Files are written through a go-vfs
// filesystem so tests can run against a temporary root.
package chart
