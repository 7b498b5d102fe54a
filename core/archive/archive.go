package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"hesiod53/core/reconcile"
	"hesiod53/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Config controls report archiving.
type Config struct {
	// Enabled turns archiving on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object name prefix of reports.
	Prefix string `mapstructure:"prefix" default:"runs"`
}

// Report describes one reconciliation run.
type Report struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Zone       string            `json:"zone"`
	Domain     string            `json:"domain"`
	DryRun     bool              `json:"dry_run"`
	Result     *reconcile.Result `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// NewReport starts a report with a fresh run ID.
func NewReport(zone, domain string, dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Zone:      zone,
		Domain:    domain,
		DryRun:    dryRun,
	}
}

// Finish records the outcome of the run.
func (r *Report) Finish(result *reconcile.Result, err error) {
	r.FinishedAt = time.Now().UTC()
	r.Result = result
	if err != nil {
		r.Error = err.Error()
	}
}

// Archiver writes reports to a bucket.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
}

// New returns an archiver writing to bucket under prefix.
func New(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// ObjectName returns the object name of report.
func (a *Archiver) ObjectName(report *Report) string {
	return path.Join(a.prefix, fmt.Sprintf("%s-%s.json", report.StartedAt.Format("20060102T150405Z"), report.RunID))
}

// Save uploads report and returns its object name.
func (a *Archiver) Save(ctx context.Context, report *Report) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	name := a.ObjectName(report)
	_, err = a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", name, err)
	}

	return name, nil
}
