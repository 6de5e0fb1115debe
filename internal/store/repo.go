package store

import (
	"context"
	"time"

	"github.com/abhisek/quizbank/internal/question"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SnapshotVersion is written into every new snapshot.
const SnapshotVersion = 1

// SnapshotData captures the persisted practice state at a point in time.
type SnapshotData struct {
	Version  int                   `json:"version"`
	Progress *ProgressSnapshotData `json:"progress,omitempty"`
}

// ProgressSnapshotData is the question bank and both practice pools.
// Pools hold question sequence indexes.
type ProgressSnapshotData struct {
	ImportID   string              `json:"import_id"`
	Source     string              `json:"source"`
	Profile    string              `json:"profile"`
	Questions  []question.Question `json:"questions"`
	Unanswered []int               `json:"unanswered"`
	Answered   []int               `json:"answered"`
}

// Snapshot represents a point-in-time capture of practice state.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages practice state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}

// ImportEventData records one bank import.
type ImportEventData struct {
	ImportID  string
	Source    string
	Format    string
	Profile   string
	Questions int
	Dropped   int
	Discarded int
}

// ImportEvent is a stored ImportEventData.
type ImportEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ImportEventData
}

// AnswerEventData records one graded response.
type AnswerEventData struct {
	ImportID      string
	SessionID     string
	QuestionIndex int
	QuestionType  string
	QuestionText  string
	Expected      string
	Given         string
	Correct       bool
	TimeMs        int64
}

// AnswerEvent is a stored AnswerEventData.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// AnswerStats aggregates answer events for one question type.
type AnswerStats struct {
	QuestionType string
	Attempts     int
	Correct      int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendImport records a bank import.
	AppendImport(ctx context.Context, data ImportEventData) error

	// AppendAnswer records a graded response.
	AppendAnswer(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryImports returns import events, newest first.
	QueryImports(ctx context.Context, opts QueryOpts) ([]ImportEvent, error)

	// QueryAnswers returns answer events, newest first.
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)

	// AnswerStats returns per-type accuracy, optionally limited to one import.
	AnswerStats(ctx context.Context, importID string) ([]AnswerStats, error)

	// QueryLLMEvents returns LLM events, newest first. An empty purpose
	// matches every event.
	QueryLLMEvents(ctx context.Context, purpose string, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
