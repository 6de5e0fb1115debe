package store

import (
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// selectEvents starts a newest-first query over an event table with the
// filters of opts applied.
func selectEvents(table string, opts QueryOpts, columns ...string) *entsql.Selector {
	sel := entsql.Dialect(dialect.SQLite).
		Select(append([]string{"id", "sequence", "timestamp"}, columns...)...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("sequence"))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func now() time.Time {
	return time.Now().UTC()
}
