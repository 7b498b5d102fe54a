package reconcile

import (
	"context"
	"errors"
	"fmt"

	"hesiod53/core/retry"
	"hesiod53/core/txt"

	"go.uber.org/zap"
)

// errPending keeps the poll loop going while a batch is not in sync.
var errPending = errors.New("change pending")

// Committer applies a plan to the store in bounded, sequential batches.
type Committer struct {
	store  Store
	submit retry.Policy
	poll   retry.Policy
	log    *zap.Logger
}

// NewCommitter returns a committer pacing submissions and polls according to cfg.
func NewCommitter(store Store, cfg CommitConfig, log *zap.Logger) *Committer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Committer{
		store: store,
		submit: retry.Policy{
			Attempts: cfg.RetryAttempts,
			Delay:    cfg.RetryDelay(),
			OnRetry: func(n int, err error) {
				log.Warn("Batch submission failed, retrying", zap.Int("attempt", n+1), zap.Error(err))
			},
		},
		poll: retry.Policy{
			Attempts: cfg.MaxPolls,
			Delay:    cfg.PollInterval(),
			OnRetry: func(n int, err error) {
				if errors.Is(err, errPending) {
					log.Info("Waiting for changes to propagate", zap.Int("poll", n+1))
					return
				}
				log.Warn("Status poll failed, retrying", zap.Int("poll", n+1), zap.Error(err))
			},
		},
		log: log,
	}
}

// Apply removes plan.ToRemove and then adds plan.ToAdd, one batch at a time.
// Each batch is INSYNC before the next one is submitted. The first failure stops
// the run; the batches committed so far are always returned.
func (c *Committer) Apply(ctx context.Context, zoneID string, plan *Plan) ([]BatchResult, error) {
	var committed []BatchResult
	index := 0

	steps := []struct {
		action  ActionType
		records []Record
	}{
		{ActionDelete, plan.ToRemove},
		{ActionCreate, plan.ToAdd},
	}

	for _, step := range steps {
		for _, batch := range Chunk(step.records, MaxBatchSize) {
			result, err := c.commitBatch(ctx, zoneID, index, step.action, batch)
			if err != nil {
				return committed, c.failure(committed, index, err)
			}
			committed = append(committed, result)
			index++
		}
	}

	return committed, nil
}

// commitBatch submits one batch and waits for it to be in sync.
func (c *Committer) commitBatch(ctx context.Context, zoneID string, index int, action ActionType, records []Record) (BatchResult, error) {
	changes := BuildChanges(action, records)

	c.log.Info("Committing changes",
		zap.Int("batch", index),
		zap.String("action", string(action)),
		zap.Int("size", len(changes)),
	)

	var changeID string
	err := c.submit.Do(ctx, func() error {
		id, err := c.store.Submit(ctx, zoneID, changes)
		changeID = id
		return err
	})
	if err != nil {
		return BatchResult{}, &submitError{err: err}
	}

	err = c.poll.Do(ctx, func() error {
		status, err := c.store.Status(ctx, changeID)
		if err != nil {
			return err
		}
		if status != StatusInSync {
			return retry.Transient(errPending)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errPending) {
			return BatchResult{}, fmt.Errorf("change %s: %w", changeID, ErrNotPropagated)
		}
		return BatchResult{}, fmt.Errorf("failed to poll change %s: %w", changeID, err)
	}

	c.log.Info("Batch in sync", zap.Int("batch", index), zap.String("change_id", changeID))

	return BatchResult{
		Index:    index,
		Action:   action,
		Size:     len(changes),
		ChangeID: changeID,
	}, nil
}

// failure classifies a batch error. A rejected first submission left the zone
// untouched and is reported as is; anything else means the zone was mutated.
func (c *Committer) failure(committed []BatchResult, index int, err error) error {
	var se *submitError
	if errors.As(err, &se) && len(committed) == 0 {
		return fmt.Errorf("failed to submit batch %d: %w", index, se.err)
	}
	if errors.As(err, &se) {
		err = fmt.Errorf("failed to submit batch %d: %w", index, se.err)
	}
	return &PartialApplyError{Committed: committed, Batch: index, Err: err}
}

// submitError marks a batch the store never accepted.
type submitError struct {
	err error
}

func (e *submitError) Error() string { return e.err.Error() }

func (e *submitError) Unwrap() error { return e.err }

// BuildChanges turns records into changes of a single action.
func BuildChanges(action ActionType, records []Record) []Change {
	changes := make([]Change, 0, len(records))
	for _, r := range records {
		changes = append(changes, Change{
			Action:   action,
			FQDN:     r.FQDN,
			Type:     RecordType,
			TTL:      RecordTTL,
			Segments: txt.Split(r.Value),
		})
	}
	return changes
}

// Chunk splits records into contiguous slices of at most size elements.
func Chunk(records []Record, size int) [][]Record {
	if size < 1 {
		size = 1
	}
	var chunks [][]Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		chunks = append(chunks, records[start:end])
	}
	return chunks
}
