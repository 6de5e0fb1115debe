package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the ent SQL builder and the
// global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// insert appends one event row with the next global sequence.
func (r *eventRepo) insert(ctx context.Context, table string, columns []string, values []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seqNum, now()}, values...)...).
		Query()
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *eventRepo) AppendImport(ctx context.Context, data ImportEventData) error {
	err := r.insert(ctx, importEventsTable.Name,
		[]string{"import_id", "source", "format", "profile", "questions", "dropped", "discarded"},
		[]any{data.ImportID, data.Source, data.Format, data.Profile, data.Questions, data.Dropped, data.Discarded},
	)
	if err != nil {
		return fmt.Errorf("save import event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryImports(ctx context.Context, opts QueryOpts) ([]ImportEvent, error) {
	query, args := selectEvents(importEventsTable.Name, opts,
		"import_id", "source", "format", "profile", "questions", "dropped", "discarded",
	).Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query import events: %w", err)
	}
	defer rows.Close()

	var events []ImportEvent
	for rows.Next() {
		var e ImportEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.ImportID, &e.Source, &e.Format, &e.Profile, &e.Questions, &e.Dropped, &e.Discarded,
		); err != nil {
			return nil, fmt.Errorf("scan import event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
