package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"hesiod53/core/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int, kind string) []Record {
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewRecord(fmt.Sprintf("user%03d.%s.hesiod.example.com.", i, kind), fmt.Sprintf("value %d", i)))
	}
	return out
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  []int
	}{
		{"Empty", 0, nil},
		{"Single", 1, []int{1}},
		{"ExactlyOneBatch", 50, []int{50}},
		{"OneOver", 51, []int{50, 1}},
		{"Many", 120, []int{50, 50, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sizes []int
			for _, c := range Chunk(records(tt.count, "passwd"), MaxBatchSize) {
				sizes = append(sizes, len(c))
			}
			assert.Equal(t, tt.want, sizes)
		})
	}
}

func TestChunk_PreservesOrder(t *testing.T) {
	in := records(7, "uid")
	var out []Record
	for _, c := range Chunk(in, 3) {
		out = append(out, c...)
	}
	assert.Equal(t, in, out)
}

func TestBuildChanges_SplitsLongValues(t *testing.T) {
	long := strings.Repeat("k", 600)
	changes := BuildChanges(ActionCreate, []Record{NewRecord("alice.0.ssh.hesiod.example.com.", long)})

	require.Len(t, changes, 1)
	assert.Equal(t, []int{255, 255, 90}, []int{
		len(changes[0].Segments[0]), len(changes[0].Segments[1]), len(changes[0].Segments[2]),
	})
	assert.Equal(t, long, strings.Join(changes[0].Segments, ""))
}

func TestCommitter_Apply_BatchesInOrder(t *testing.T) {
	store := newFakeStore()
	plan := &Plan{ToRemove: records(60, "uid"), ToAdd: records(101, "passwd")}

	batches, err := NewCommitter(store, testConfig(), nil).Apply(context.Background(), "Z123", plan)
	require.NoError(t, err)

	require.Len(t, store.submitted, 5)
	wantSizes := []int{50, 10, 50, 50, 1}
	wantActions := []ActionType{ActionDelete, ActionDelete, ActionCreate, ActionCreate, ActionCreate}
	for i, changes := range store.submitted {
		assert.Len(t, changes, wantSizes[i])
		for _, c := range changes {
			assert.Equal(t, wantActions[i], c.Action)
		}
		assert.Equal(t, i, batches[i].Index)
		assert.Equal(t, fmt.Sprintf("C%d", i+1), batches[i].ChangeID)
	}

	// Every batch is polled to INSYNC before the next submission.
	assert.Equal(t, []string{
		"submit", "status", "submit", "status", "submit", "status", "submit", "status", "submit", "status",
	}, store.calls)
}

func TestCommitter_Apply_RetriesTransientSubmission(t *testing.T) {
	store := newFakeStore()
	store.submitErrs = []error{retry.Transient(errors.New("PriorRequestNotComplete"))}
	plan := &Plan{ToAdd: records(1, "passwd")}

	batches, err := NewCommitter(store, testConfig(), nil).Apply(context.Background(), "Z123", plan)
	require.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Equal(t, []string{"submit", "submit", "status"}, store.calls)
}

func TestCommitter_Apply_FatalFirstBatchLeavesZoneUntouched(t *testing.T) {
	store := newFakeStore()
	cause := errors.New("InvalidChangeBatch")
	store.submitErrs = []error{cause}
	plan := &Plan{ToRemove: records(1, "uid"), ToAdd: records(1, "passwd")}

	batches, err := NewCommitter(store, testConfig(), nil).Apply(context.Background(), "Z123", plan)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, batches)

	var partial *PartialApplyError
	assert.False(t, errors.As(err, &partial))
	assert.Equal(t, []string{"submit"}, store.calls)
}

func TestCommitter_Apply_LaterBatchFailureIsPartial(t *testing.T) {
	store := newFakeStore()
	cause := errors.New("InvalidChangeBatch")
	store.submitErrs = []error{nil, cause}
	plan := &Plan{ToRemove: records(1, "uid"), ToAdd: records(2, "passwd")}

	batches, err := NewCommitter(store, testConfig(), nil).Apply(context.Background(), "Z123", plan)

	var partial *PartialApplyError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, partial.Batch)
	assert.Equal(t, []BatchResult{{Index: 0, Action: ActionDelete, Size: 1, ChangeID: "C1"}}, partial.Committed)
	assert.Equal(t, partial.Committed, batches)
	assert.Contains(t, err.Error(), "0:C1")

	// No CREATE was attempted after the failure.
	assert.Equal(t, []string{"submit", "status", "submit"}, store.calls)
}

func TestCommitter_Apply_SubmissionExhaustsRetries(t *testing.T) {
	store := newFakeStore()
	throttled := retry.Transient(errors.New("Throttling"))
	store.submitErrs = []error{throttled, throttled, throttled}
	plan := &Plan{ToAdd: records(1, "passwd")}

	_, err := NewCommitter(store, testConfig(), nil).Apply(context.Background(), "Z123", plan)

	var exhausted *retry.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Empty(t, store.submitted)
}

func TestCommitter_Apply_NeverInSyncIsPartial(t *testing.T) {
	store := newFakeStore()
	store.pendingPolls = 100
	plan := &Plan{ToAdd: records(2, "passwd")}
	cfg := testConfig()
	cfg.MaxPolls = 3

	batches, err := NewCommitter(store, cfg, nil).Apply(context.Background(), "Z123", plan)

	var partial *PartialApplyError
	require.ErrorAs(t, err, &partial)
	assert.ErrorIs(t, err, ErrNotPropagated)
	assert.Equal(t, 0, partial.Batch)
	assert.Empty(t, partial.Committed)
	assert.Empty(t, batches)
	assert.Equal(t, 3, store.polls["C1"])
}

func TestCommitter_Apply_RetriesTransientStatus(t *testing.T) {
	store := newFakeStore()
	store.statusErrs = []error{retry.Transient(errors.New("timeout"))}
	plan := &Plan{ToAdd: records(1, "passwd")}

	batches, err := NewCommitter(store, testConfig(), nil).Apply(context.Background(), "Z123", plan)
	require.NoError(t, err)
	assert.Len(t, batches, 1)
	assert.Equal(t, []string{"submit", "status", "status"}, store.calls)
}
