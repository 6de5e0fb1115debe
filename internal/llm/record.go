package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbank/internal/store"
)

// EventAppender is the part of store.EventRepo the recorder needs.
type EventAppender interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type recorder struct {
	inner    Provider
	provider string
	events   EventAppender
	log      logrus.FieldLogger
}

// WithRecording appends every request made through p to events and logs it.
// Either sink may be nil. A failure to record never fails the request.
func WithRecording(p Provider, provider string, events EventAppender, log logrus.FieldLogger) Provider {
	return &recorder{inner: p, provider: provider, events: events, log: log}
}

func (r *recorder) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if r.log != nil {
		entry := r.log.WithFields(logrus.Fields{
			"provider":   data.Provider,
			"model":      data.Model,
			"purpose":    data.Purpose,
			"latency_ms": data.LatencyMs,
			"tokens":     data.InputTokens + data.OutputTokens,
		})
		if err != nil {
			entry.WithError(err).Warn("llm request failed")
		} else {
			entry.Debug("llm request")
		}
	}

	if r.events != nil {
		// Record with a context that survives the caller's cancellation.
		if rerr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), data); rerr != nil && r.log != nil {
			r.log.WithError(rerr).Warn("record llm request")
		}
	}
	return resp, err
}

func (r *recorder) ModelID() string { return r.inner.ModelID() }

// renderRequest formats a request for the event log.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
