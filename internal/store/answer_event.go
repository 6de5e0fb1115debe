package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, answerEventsTable.Name,
		[]string{"import_id", "session_id", "question_index", "question_type", "question_text", "expected", "given", "correct", "time_ms"},
		[]any{data.ImportID, data.SessionID, data.QuestionIndex, data.QuestionType, data.QuestionText, data.Expected, data.Given, data.Correct, data.TimeMs},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	query, args := selectEvents(answerEventsTable.Name, opts,
		"import_id", "session_id", "question_index", "question_type", "question_text", "expected", "given", "correct", "time_ms",
	).Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var events []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.ImportID, &e.SessionID, &e.QuestionIndex, &e.QuestionType, &e.QuestionText,
			&e.Expected, &e.Given, &e.Correct, &e.TimeMs,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) AnswerStats(ctx context.Context, importID string) ([]AnswerStats, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("question_type", "COUNT(*)", "COALESCE(SUM(correct), 0)").
		From(entsql.Table(answerEventsTable.Name)).
		GroupBy("question_type").
		OrderBy("question_type")
	if importID != "" {
		sel.Where(entsql.EQ("import_id", importID))
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var stats []AnswerStats
	for rows.Next() {
		var s AnswerStats
		if err := rows.Scan(&s.QuestionType, &s.Attempts, &s.Correct); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
