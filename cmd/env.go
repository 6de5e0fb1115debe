package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbank/internal/bank"
	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/llm"
	"github.com/abhisek/quizbank/internal/logging"
	"github.com/abhisek/quizbank/internal/profile"
	"github.com/abhisek/quizbank/internal/segment"
	"github.com/abhisek/quizbank/internal/session"
	"github.com/abhisek/quizbank/internal/store"
)

// env is everything a command needs to work on the saved bank.
type env struct {
	log   *logrus.Logger
	store *store.Store
	svc   *session.Service

	closers []io.Closer
}

// newLogger builds the command logger. With discard set, lines are dropped
// unless --log-file names a destination.
func newLogger(cmd *cobra.Command, defaultLevel string, discard bool) (*logrus.Logger, io.Closer, error) {
	level := flagOrEnv(cmd, "log-level", "QUIZBANK_LOG_LEVEL")
	if level == "" {
		level = defaultLevel
	}

	var out io.Writer = cmd.ErrOrStderr()
	var closer io.Closer
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := logging.OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
	} else if discard {
		out = io.Discard
	}

	log, err := logging.New(logging.Options{Level: level, Out: out})
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return log, closer, nil
}

func loadProfile(cmd *cobra.Command) (profile.Profile, error) {
	p, err := profile.Load(flagOrEnv(cmd, "profile", "QUIZBANK_PROFILE"))
	if err != nil {
		return profile.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func newSegmenter(cmd *cobra.Command, log logrus.FieldLogger) (*segment.Segmenter, error) {
	p, err := loadProfile(cmd)
	if err != nil {
		return nil, err
	}
	return segment.New(segment.WithProfile(p), segment.WithLogger(log))
}

// openEnv opens the database and restores the saved bank into a session.
func openEnv(cmd *cobra.Command, defaultLevel string, discardLogs bool) (*env, error) {
	log, logCloser, err := newLogger(cmd, defaultLevel, discardLogs)
	if err != nil {
		return nil, err
	}
	e := &env{log: log}
	if logCloser != nil {
		e.closers = append(e.closers, logCloser)
	}

	seg, err := newSegmenter(cmd, log)
	if err != nil {
		e.Close()
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	e.store = st
	e.closers = append([]io.Closer{st}, e.closers...)

	e.svc = session.New(session.Options{
		Bank:         bank.New(seg.Builder()),
		Segmenter:    seg,
		SnapshotRepo: st.SnapshotRepo(),
		EventRepo:    st.EventRepo(),
		Logger:       log,
	})
	if _, err := e.svc.Load(cmd.Context()); err != nil {
		e.Close()
		return nil, fmt.Errorf("load bank: %w", err)
	}
	log.WithField("db", dbPath).Debug("store opened")
	return e, nil
}

// explainer returns nil, nil when no LLM provider is configured.
func (e *env) explainer(cmd *cobra.Command) (*explain.Service, error) {
	provider, _, err := llm.NewProviderFromEnv(cmd.Context(), e.store.EventRepo(), e.log)
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return explain.NewService(provider, e.svc.Builder(), explain.DefaultConfig()), nil
}

func (e *env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
