package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"lguportal/portal/internal/config"
	"lguportal/portal/internal/storage"
)

const jobTimeout = 2 * time.Minute

type SessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type DocumentReferences interface {
	DocumentReferenced(ctx context.Context, relPath string) (bool, error)
}

// Scheduler runs housekeeping: expired login sessions are purged, and
// identity documents left behind by failed registrations are swept once
// they outlive the grace period.
type Scheduler struct {
	cron      *cron.Cron
	sessions  SessionPurger
	documents storage.DocumentStore
	refs      DocumentReferences
	cfg       config.JobsConfig
	log       zerolog.Logger
	now       func() time.Time
}

func NewScheduler(
	sessions SessionPurger,
	documents storage.DocumentStore,
	refs DocumentReferences,
	cfg config.JobsConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		sessions:  sessions,
		documents: documents,
		refs:      refs,
		cfg:       cfg,
		log:       log.With().Str("component", "jobs").Logger(),
		now:       time.Now,
	}
}

// Start registers the jobs with a non-empty schedule and starts the cron.
func (s *Scheduler) Start() error {
	if s.cfg.SessionPurgeSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.SessionPurgeSchedule, s.run("purge sessions", s.PurgeSessions)); err != nil {
			return err
		}
	}
	if s.cfg.DocumentSweepSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.DocumentSweepSchedule, s.run("sweep documents", s.SweepDocuments)); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("jobs still running at shutdown")
	}
}

func (s *Scheduler) run(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Msg("job failed")
		}
	}
}

func (s *Scheduler) PurgeSessions(ctx context.Context) error {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("expired sessions purged")
	}
	return nil
}

// SweepDocuments removes stored documents that no user references and that
// are older than the grace period.
func (s *Scheduler) SweepDocuments(ctx context.Context) error {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return err
	}

	cutoff := s.now().Add(-s.cfg.OrphanGracePeriod)
	removed := 0
	for _, doc := range docs {
		if doc.ModTime.After(cutoff) {
			continue
		}
		referenced, err := s.refs.DocumentReferenced(ctx, doc.Path)
		if err != nil {
			return err
		}
		if referenced {
			continue
		}
		if err := s.documents.Remove(ctx, doc.Path); err != nil {
			s.log.Warn().Err(err).Str("path", doc.Path).Msg("remove orphaned document failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info().Int("count", removed).Msg("orphaned documents removed")
	}
	return nil
}
