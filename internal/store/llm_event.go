package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, llmRequestEventsTable.Name, llmEventColumns, []any{
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	})
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func scanLLMEvent(row interface{ Scan(...any) error }) (LLMEvent, error) {
	var e LLMEvent
	err := row.Scan(&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, purpose string, opts QueryOpts) ([]LLMEvent, error) {
	sel := selectEvents(llmRequestEventsTable.Name, opts, llmEventColumns...)
	if purpose != "" {
		sel.Where(entsql.EQ("purpose", purpose))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := selectEvents(llmRequestEventsTable.Name, QueryOpts{}, llmEventColumns...).
		Where(entsql.EQ("id", id)).
		Query()
	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model")
}

func (r *eventRepo) llmUsage(ctx context.Context, by string) ([]LLMUsage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(by, "COUNT(*)", "COALESCE(SUM(input_tokens), 0)", "COALESCE(SUM(output_tokens), 0)", "COALESCE(SUM(latency_ms), 0)").
		From(entsql.Table(llmRequestEventsTable.Name)).
		GroupBy(by).
		OrderBy(by).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", by, err)
	}
	defer rows.Close()

	var usage []LLMUsage
	for rows.Next() {
		var (
			u       LLMUsage
			key     string
			latency int64
		)
		if err := rows.Scan(&key, &u.Calls, &u.InputTokens, &u.OutputTokens, &latency); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		if by == "model" {
			u.Model = key
		} else {
			u.Purpose = key
		}
		if u.Calls > 0 {
			u.AvgLatencyMs = latency / int64(u.Calls)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
