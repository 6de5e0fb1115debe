package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/llm"
	"github.com/abhisek/quizbank/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrEmpty):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoQuestions),
		errors.Is(err, docreader.ErrUnsupportedFormat),
		errors.Is(err, docreader.ErrNoDocumentPart),
		errors.Is(err, docreader.ErrMalformed),
		errors.Is(err, bank.ErrInvalidExport):
		return http.StatusUnprocessableEntity
	case errors.Is(err, explain.ErrThrottled), errors.Is(err, llm.ErrRateLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, llm.ErrUnavailable), errors.Is(err, llm.ErrInvalidResponse), errors.Is(err, llm.ErrTruncated):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
