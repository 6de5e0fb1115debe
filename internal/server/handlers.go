package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/docreader"
	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/question"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/session"
)

var zipMagic = []byte("PK\x03\x04")

type parseResponse struct {
	Questions   []question.Question `json:"questions"`
	Diagnostics segment.Diagnostics `json:"diagnostics"`
}

// readDocument reads the request body and resolves format and encoding from
// the query. Without ?format the body is sniffed: a zip is DOCX, anything
// else text.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, docreader.Format, docreader.Options, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, "", docreader.Options{}, err
	}

	format := docreader.FormatText
	if name := r.URL.Query().Get("format"); name != "" {
		if format, err = docreader.ParseFormat(name); err != nil {
			return nil, "", docreader.Options{}, err
		}
	} else if bytes.HasPrefix(data, zipMagic) {
		format = docreader.FormatDOCX
	}

	var opts docreader.Options
	if enc := r.URL.Query().Get("encoding"); enc != "" {
		if opts.Encoding, err = docreader.ParseEncoding(enc); err != nil {
			return nil, "", docreader.Options{}, err
		}
	}
	return data, format, opts, nil
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	data, format, opts, err := s.readDocument(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	sum := sha256.Sum256(data)
	key := string(format) + ":" + string(opts.Encoding) + ":" + hex.EncodeToString(sum[:])
	if v, ok := s.parseCache.Get(key); ok {
		w.Header().Set("X-Cache", "hit")
		writeJSON(w, http.StatusOK, v)
		return
	}

	res, err := s.svc.Parse(data, format, opts)
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := parseResponse{Questions: res.Questions, Diagnostics: res.Diagnostics}
	if resp.Questions == nil {
		resp.Questions = []question.Question{}
	}
	s.parseCache.Set(key, resp, cache.DefaultExpiration)
	w.Header().Set("X-Cache", "miss")
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, format, opts, err := s.readDocument(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}
	source := r.URL.Query().Get("source")
	if source == "" {
		source = "upload"
	}
	report, err := s.svc.Import(r.Context(), data, format, source, opts)
	if errors.Is(err, session.ErrNoQuestions) {
		writeJSON(w, http.StatusUnprocessableEntity, struct {
			Error string `json:"error"`
			session.ImportReport
		}{err.Error(), report})
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

type statsResponse struct {
	ImportID string          `json:"import_id"`
	Source   string          `json:"source"`
	Bank     bank.Stats      `json:"bank"`
	Session  session.Summary `json:"session"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	b := s.svc.Bank()
	writeJSON(w, http.StatusOK, statsResponse{
		ImportID: b.ImportID(),
		Source:   b.Source(),
		Bank:     b.Stats(),
		Session:  s.svc.Summary(),
	})
}

// questionView is a preview without the answer, for practice.
type questionView struct {
	Index   int           `json:"index"`
	Type    question.Type `json:"type"`
	Label   string        `json:"label"`
	Order   int           `json:"order"`
	Text    string        `json:"text"`
	Choices []bank.Choice `json:"choices,omitempty"`
	Blanks  int           `json:"blanks,omitempty"`
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	b := s.svc.Bank()
	q, err := b.Draw()
	if err != nil {
		s.fail(w, err)
		return
	}
	p, err := b.Preview(q.SequenceIndex)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionView{
		Index:   p.Index,
		Type:    p.Type,
		Label:   p.Label,
		Order:   p.Order,
		Text:    p.Text,
		Choices: p.Choices,
		Blanks:  p.Blanks,
	})
}

type answerRequest struct {
	Index    int               `json:"index"`
	Response question.Response `json:"response"`
	TimeMs   int64             `json:"time_ms,omitempty"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	res, err := s.svc.Answer(r.Context(), req.Index, req.Response, time.Duration(req.TimeMs)*time.Millisecond)
	if err != nil && !isPersistErr(err) {
		s.fail(w, err)
		return
	}
	if err != nil {
		s.log.WithError(err).Warn("answer graded but not persisted")
	}
	writeJSON(w, http.StatusOK, res)
}

// isPersistErr reports whether err came after grading, from the store.
func isPersistErr(err error) bool {
	return !errors.Is(err, bank.ErrNotFound)
}

type indexesRequest struct {
	Indexes []int `json:"indexes"`
}

func (s *Server) handleMoveBack(w http.ResponseWriter, r *http.Request) {
	var req indexesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	n, err := s.svc.MoveBack(r.Context(), req.Indexes...)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"moved": n})
}

func (s *Server) handleAnswered(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Bank().AnsweredPreviews())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="quizbank.json"`)
	if err := s.svc.Bank().WriteExport(w); err != nil {
		s.log.WithError(err).Warn("export failed")
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 {
		writeErr(w, http.StatusBadRequest, "index must be a non-negative integer")
		return 0, false
	}
	return idx, true
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	p, err := s.svc.Bank().Preview(idx)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	n, err := s.svc.Delete(r.Context(), idx)
	if err != nil {
		s.fail(w, err)
		return
	}
	if n == 0 {
		writeErr(w, http.StatusNotFound, bank.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

type explainRequest struct {
	Given string `json:"given,omitempty"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	idx, ok := indexParam(w, r)
	if !ok {
		return
	}
	if s.explainer == nil {
		writeErr(w, http.StatusServiceUnavailable, "no LLM provider configured")
		return
	}
	var req explainRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeErr(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}
	q, err := s.svc.Bank().Question(idx)
	if err != nil {
		s.fail(w, err)
		return
	}
	exp, err := s.explainer.Explain(r.Context(), explain.Input{Question: q, Given: req.Given})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.log.WithError(err).Error("request failed")
	}
	writeErr(w, status, err.Error())
}
