package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Save stores snap. A zero Sequence is filled from the global counter.
func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		snap.Sequence = seq
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = now()
	}

	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(snapshotsTable.Name).
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp, string(data)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		snap.ID = int(id)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "data").
		From(entsql.Table(snapshotsTable.Name)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Query()

	var (
		s    Snapshot
		data string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Sequence, &s.Timestamp, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("id").
		From(entsql.Table(snapshotsTable.Name)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(keep).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	kept, err := scanIDs(rows)
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	del := entsql.Dialect(dialect.SQLite).Delete(snapshotsTable.Name)
	if len(kept) > 0 {
		del = del.Where(entsql.NotIn("id", kept...))
	}
	query, args = del.Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

// scanIDs reads a single integer column and closes rows. Rows must be
// closed before the next statement: the store runs on one connection.
func scanIDs(rows *sql.Rows) ([]any, error) {
	defer rows.Close()
	var ids []any
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
