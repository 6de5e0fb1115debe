package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/quizbank/internal/profile"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/store"
)

// ExportVersion is the version field of the export format.
const ExportVersion = 1

// ErrInvalidExport is returned by ReadExport for documents that do not match
// the export schema.
var ErrInvalidExport = errors.New("invalid bank export")

// Export is the portable JSON form of a bank.
type Export struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	store.ProgressSnapshotData
}

// WriteExport writes the bank as indented JSON.
func (b *Bank) WriteExport(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	data := b.Snapshot()
	if data.Questions == nil {
		data.Questions = []question.Question{}
	}
	if data.Unanswered == nil {
		data.Unanswered = []int{}
	}
	if data.Answered == nil {
		data.Answered = []int{}
	}
	return enc.Encode(Export{
		Version:              ExportVersion,
		ExportedAt:           time.Now().UTC(),
		ProgressSnapshotData: data,
	})
}

// ReadExport validates an export document and returns its bank data, ready
// for Restore.
func ReadExport(r io.Reader) (store.ProgressSnapshotData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return store.ProgressSnapshotData{}, fmt.Errorf("read export: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return store.ProgressSnapshotData{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	sch, err := exportSchema()
	if err != nil {
		return store.ProgressSnapshotData{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return store.ProgressSnapshotData{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}

	var exp Export
	if err := json.Unmarshal(raw, &exp); err != nil {
		return store.ProgressSnapshotData{}, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	return exp.ProgressSnapshotData, nil
}

var exportSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	b, err := json.Marshal(exportDefinition)
	if err != nil {
		return nil, fmt.Errorf("marshal export schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse export schema: %w", err)
	}
	const url = "mem://bank-export.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add export schema: %w", err)
	}
	return c.Compile(url)
})

var indexList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "integer", "minimum": 0},
}

var exportDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version":     map[string]any{"const": ExportVersion},
		"exported_at": map[string]any{"type": "string"},
		"import_id":   map[string]any{"type": "string"},
		"source":      map[string]any{"type": "string"},
		"profile":     map[string]any{"type": "string"},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type":           map[string]any{"enum": questionTypes()},
					"display_number": map[string]any{"type": "string"},
					"body":           map[string]any{"type": "string"},
					"options": map[string]any{
						"type":                 "object",
						"additionalProperties": map[string]any{"type": "string"},
					},
					"answer": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"raw_answer":     map[string]any{"type": "string"},
					"sequence_index": map[string]any{"type": "integer", "minimum": 0},
				},
				"required": []any{"type", "body", "sequence_index"},
			},
		},
		"unanswered": indexList,
		"answered":   indexList,
	},
	"required": []any{"version", "questions", "unanswered", "answered"},
}

func questionTypes() []any {
	out := make([]any, len(profile.KnownTypes))
	for i, t := range profile.KnownTypes {
		out[i] = t
	}
	return out
}
