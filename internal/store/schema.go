package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions applied by auto-migration. Every event table starts with
// the same id, sequence and timestamp columns.

func eventColumns(extra ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}, extra...)
}

func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, c := range cols {
		for _, name := range indexed {
			if c.Name == name {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    t.Name + "_" + c.Name,
					Columns: []*schema.Column{c},
				})
			}
		}
	}
	return t
}

var (
	snapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	snapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    snapshotsColumns,
		PrimaryKey: []*schema.Column{snapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshots_timestamp", Columns: []*schema.Column{snapshotsColumns[2]}},
		},
	}

	importEventsTable = eventTable("import_events", eventColumns(
		&schema.Column{Name: "import_id", Type: field.TypeString},
		&schema.Column{Name: "source", Type: field.TypeString},
		&schema.Column{Name: "format", Type: field.TypeString},
		&schema.Column{Name: "profile", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "questions", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "dropped", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "discarded", Type: field.TypeInt, Default: 0},
	), "import_id")

	answerEventsTable = eventTable("answer_events", eventColumns(
		&schema.Column{Name: "import_id", Type: field.TypeString},
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "question_index", Type: field.TypeInt},
		&schema.Column{Name: "question_type", Type: field.TypeString},
		&schema.Column{Name: "question_text", Type: field.TypeString, Size: 2048},
		&schema.Column{Name: "expected", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "given", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "time_ms", Type: field.TypeInt64, Default: 0},
	), "import_id", "session_id", "question_type")

	llmRequestEventsTable = eventTable("llm_request_events", eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	), "provider", "purpose", "success")

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       "global_sequence",
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{
		snapshotsTable,
		importEventsTable,
		answerEventsTable,
		llmRequestEventsTable,
		sequenceTable,
	}
)
