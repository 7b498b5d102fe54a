// Package archive stores a JSON report of every reconciliation run in object storage.
//
// Reports are written under {prefix}/{UTC timestamp}-{run id}.json so that a
// lexical listing is chronological. The bucket is created on first use.
package archive
