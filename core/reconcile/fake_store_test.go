package reconcile

import (
	"context"
	"fmt"
)

// fakeStore is an in-memory Store recording every call.
type fakeStore struct {
	zones   map[string]string
	records []Record

	resolveErrs []error
	listErrs    []error
	submitErrs  []error
	statusErrs  []error

	// pendingPolls is the number of PENDING answers before INSYNC, per change.
	pendingPolls int

	submitted [][]Change
	polls     map[string]int
	calls     []string
}

func newFakeStore(records ...Record) *fakeStore {
	return &fakeStore{
		zones:   map[string]string{"example.com.": "Z123"},
		records: records,
		polls:   map[string]int{},
	}
}

func pop(errs *[]error) error {
	if len(*errs) == 0 {
		return nil
	}
	err := (*errs)[0]
	*errs = (*errs)[1:]
	return err
}

func (f *fakeStore) ResolveZone(ctx context.Context, zoneName string) (string, error) {
	f.calls = append(f.calls, "resolve")
	if err := pop(&f.resolveErrs); err != nil {
		return "", err
	}
	id, ok := f.zones[zoneName]
	if !ok {
		return "", fmt.Errorf("%s: %w", zoneName, ErrZoneNotFound)
	}
	return id, nil
}

func (f *fakeStore) ListRecords(ctx context.Context, zoneID string) ([]Record, error) {
	f.calls = append(f.calls, "list")
	if err := pop(&f.listErrs); err != nil {
		return nil, err
	}
	return f.records, nil
}

func (f *fakeStore) Submit(ctx context.Context, zoneID string, changes []Change) (string, error) {
	f.calls = append(f.calls, "submit")
	if err := pop(&f.submitErrs); err != nil {
		return "", err
	}
	f.submitted = append(f.submitted, changes)
	return fmt.Sprintf("C%d", len(f.submitted)), nil
}

func (f *fakeStore) Status(ctx context.Context, changeID string) (ChangeStatus, error) {
	f.calls = append(f.calls, "status")
	if err := pop(&f.statusErrs); err != nil {
		return "", err
	}
	f.polls[changeID]++
	if f.polls[changeID] <= f.pendingPolls {
		return StatusPending, nil
	}
	return StatusInSync, nil
}

func (f *fakeStore) mutations() int {
	n := 0
	for _, c := range f.calls {
		if c == "submit" {
			n++
		}
	}
	return n
}

// testConfig retries and polls without waiting.
func testConfig() CommitConfig {
	return CommitConfig{
		PollIntervalSeconds: 0,
		MaxPolls:            5,
		RetryAttempts:       3,
		RetryDelayMillis:    0,
	}
}
