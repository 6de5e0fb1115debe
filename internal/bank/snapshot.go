package bank

import (
	"context"
	"fmt"
	"slices"

	"github.com/abhisek/quizbank/internal/store"
)

// KeepSnapshots is how many snapshots Save leaves in the store.
const KeepSnapshots = 20

// Snapshot captures the bank for persistence.
func (b *Bank) Snapshot() store.ProgressSnapshotData {
	b.mu.Lock()
	defer b.mu.Unlock()

	return store.ProgressSnapshotData{
		ImportID:   b.importID,
		Source:     b.source,
		Profile:    b.builder.Profile().Name,
		Questions:  slices.Clone(b.questions),
		Unanswered: slices.Clone(b.unanswered),
		Answered:   slices.Clone(b.answered),
	}
}

// Restore replaces the bank with data. Pools may only name questions that
// are present, each at most once across both pools.
func (b *Bank) Restore(data store.ProgressSnapshotData) error {
	known := make(map[int]bool, len(data.Questions))
	for _, q := range data.Questions {
		if known[q.SequenceIndex] {
			return fmt.Errorf("restore: duplicate question %d", q.SequenceIndex)
		}
		known[q.SequenceIndex] = true
	}
	pooled := make(map[int]bool, len(data.Unanswered)+len(data.Answered))
	for _, idx := range slices.Concat(data.Unanswered, data.Answered) {
		if !known[idx] {
			return fmt.Errorf("restore: %w: %d", ErrNotFound, idx)
		}
		if pooled[idx] {
			return fmt.Errorf("restore: question %d pooled twice", idx)
		}
		pooled[idx] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.importID = data.ImportID
	b.source = data.Source
	b.setQuestions(data.Questions)
	b.unanswered = slices.Clone(data.Unanswered)
	b.answered = slices.Clone(data.Answered)
	return nil
}

// Save writes a snapshot of b and prunes old ones.
func Save(ctx context.Context, repo store.SnapshotRepo, b *Bank) error {
	progress := b.Snapshot()
	err := repo.Save(ctx, &store.Snapshot{
		Data: store.SnapshotData{Version: store.SnapshotVersion, Progress: &progress},
	})
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	if err := repo.Prune(ctx, KeepSnapshots); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// Load restores b from the latest snapshot. It reports false when there is
// no saved bank.
func Load(ctx context.Context, repo store.SnapshotRepo, b *Bank) (bool, error) {
	snap, err := repo.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load bank: %w", err)
	}
	if snap == nil || snap.Data.Progress == nil {
		return false, nil
	}
	if err := b.Restore(*snap.Data.Progress); err != nil {
		return false, err
	}
	return true, nil
}
