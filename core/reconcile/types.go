package reconcile

import (
	"sort"
	"strings"
	"time"
)

// Record is a single published name/value pair.
// It is comparable, so it is used directly as a set key.
type Record struct {
	// FQDN is the lowercase, fully qualified record name with a trailing dot.
	FQDN string `json:"fqdn"`

	// Value is the decoded value, without quoting or segmentation.
	Value string `json:"value"`
}

// NewRecord returns a record with a normalized name.
func NewRecord(fqdn, value string) Record {
	return Record{FQDN: strings.ToLower(fqdn), Value: value}
}

// Less orders records by name, then by value.
func (r Record) Less(other Record) bool {
	if r.FQDN != other.FQDN {
		return r.FQDN < other.FQDN
	}
	return r.Value < other.Value
}

// RecordSet is a set of records with value semantics on both fields.
type RecordSet map[Record]struct{}

// NewRecordSet builds a set from records. Duplicates collapse.
func NewRecordSet(records ...Record) RecordSet {
	s := make(RecordSet, len(records))
	for _, r := range records {
		s.Add(r)
	}
	return s
}

// Add inserts r into the set.
func (s RecordSet) Add(r Record) {
	s[r] = struct{}{}
}

// Has reports whether r is in the set.
func (s RecordSet) Has(r Record) bool {
	_, ok := s[r]
	return ok
}

// Minus returns the records of s that are not in other.
func (s RecordSet) Minus(other RecordSet) RecordSet {
	out := make(RecordSet)
	for r := range s {
		if !other.Has(r) {
			out.Add(r)
		}
	}
	return out
}

// Sorted returns the records in deterministic order.
func (s RecordSet) Sorted() []Record {
	out := make([]Record, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

// ActionType is the kind of change submitted to the store.
type ActionType string

const (
	// ActionDelete removes a record.
	ActionDelete ActionType = "DELETE"
	// ActionCreate adds a record.
	ActionCreate ActionType = "CREATE"
)

// RecordType is the only record kind the directory is published as.
const RecordType = "TXT"

// RecordTTL is the TTL, in seconds, of every published record.
const RecordTTL int64 = 60

// MaxBatchSize is the largest number of changes submitted in one request.
const MaxBatchSize = 50

// Change is one entry of a submitted batch.
type Change struct {
	Action ActionType `json:"action"`
	FQDN   string     `json:"fqdn"`
	Type   string     `json:"type"`
	TTL    int64      `json:"ttl"`

	// Segments holds the value split into TXT character strings.
	Segments []string `json:"segments"`
}

// ChangeStatus is the propagation state of a submitted batch.
type ChangeStatus string

const (
	// StatusPending means the batch was accepted but is not visible everywhere yet.
	StatusPending ChangeStatus = "PENDING"
	// StatusInSync means the batch is visible to all readers.
	StatusInSync ChangeStatus = "INSYNC"
)

// Spec identifies the zone and the part of it that the directory owns.
type Spec struct {
	// Zone is the hosted zone name, e.g. "example.com.".
	Zone string

	// Domain is the directory domain, e.g. "hesiod.example.com.".
	Domain string

	// Suffixes are the record name suffixes, relative to Domain, that the directory manages.
	Suffixes []string
}

// Plan is the difference between the published and the desired records.
type Plan struct {
	// ToRemove holds published records that are no longer desired, sorted.
	ToRemove []Record `json:"to_remove"`

	// ToAdd holds desired records that are not published yet, sorted.
	ToAdd []Record `json:"to_add"`

	// Unchanged counts records present on both sides.
	Unchanged int `json:"unchanged"`
}

// Empty reports whether the plan has nothing to apply.
func (p *Plan) Empty() bool {
	return len(p.ToRemove) == 0 && len(p.ToAdd) == 0
}

// Options controls a reconciliation run.
type Options struct {
	// DryRun computes and reports the plan without any mutation.
	DryRun bool

	// OnPlan, when set, receives the plan before anything is committed.
	OnPlan func(*Plan)
}

// CommitConfig holds the pacing of the batch committer.
type CommitConfig struct {
	// PollIntervalSeconds is the wait between two status polls.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" default:"10"`
	// MaxPolls bounds how long a batch may stay pending.
	MaxPolls int `mapstructure:"max_polls" default:"180"`
	// RetryAttempts is the number of submission attempts for transient failures.
	RetryAttempts int `mapstructure:"retry_attempts" default:"5"`
	// RetryDelayMillis is the fixed backoff between submission attempts.
	RetryDelayMillis int `mapstructure:"retry_delay_ms" default:"2000"`
}

// PollInterval returns the status poll interval.
func (c CommitConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RetryDelay returns the backoff between submission attempts.
func (c CommitConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMillis) * time.Millisecond
}

// BatchResult describes one committed batch.
type BatchResult struct {
	// Index is the position of the batch in submission order, starting at 0.
	Index int `json:"index"`

	// Action is the change kind shared by every record in the batch.
	Action ActionType `json:"action"`

	// Size is the number of changes in the batch.
	Size int `json:"size"`

	// ChangeID is the store handle of the submitted batch.
	ChangeID string `json:"change_id"`
}

// Result is the outcome of a reconciliation run.
type Result struct {
	// ZoneID is the resolved store identifier of the zone.
	ZoneID string `json:"zone_id"`

	// Plan is the computed difference.
	Plan *Plan `json:"plan"`

	// Applied is true when the plan was committed to the store.
	Applied bool `json:"applied"`

	// Batches lists the committed batches in order.
	Batches []BatchResult `json:"batches"`
}
