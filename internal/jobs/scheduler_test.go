package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"lguportal/portal/internal/config"
	"lguportal/portal/internal/models"
	"lguportal/portal/internal/service/servicetest"
)

func TestSweepDocuments(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	docs := servicetest.NewDocumentStore("uploads/ids")
	docs.Add("uploads/ids/orphan_old.pdf", now.Add(-48*time.Hour))
	docs.Add("uploads/ids/orphan_new.pdf", now.Add(-time.Hour))
	docs.Add("uploads/ids/kept_old.png", now.Add(-72*time.Hour))

	users := servicetest.NewUserStore()
	kept := "uploads/ids/kept_old.png"
	users.Put(models.User{ID: "u1", Email: "a@b.com", IDDocumentPath: &kept})

	s := NewScheduler(servicetest.NewSessionStore(), docs, users, config.JobsConfig{OrphanGracePeriod: 24 * time.Hour}, zerolog.Nop())
	s.now = func() time.Time { return now }

	require.NoError(t, s.SweepDocuments(ctx))

	left, err := docs.List(ctx)
	require.NoError(t, err)
	paths := make([]string, 0, len(left))
	for _, d := range left {
		paths = append(paths, d.Path)
	}
	require.ElementsMatch(t, []string{"uploads/ids/orphan_new.pdf", "uploads/ids/kept_old.png"}, paths)
}

func TestPurgeSessions(t *testing.T) {
	ctx := context.Background()
	sessions := servicetest.NewSessionStore()
	require.NoError(t, sessions.Create(ctx, models.Session{ID: "s1", TokenHash: []byte("a"), ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, sessions.Create(ctx, models.Session{ID: "s2", TokenHash: []byte("b"), ExpiresAt: time.Now().Add(time.Hour)}))

	s := NewScheduler(sessions, servicetest.NewDocumentStore("uploads/ids"), servicetest.NewUserStore(), config.JobsConfig{}, zerolog.Nop())
	require.NoError(t, s.PurgeSessions(ctx))
	require.Equal(t, 1, sessions.Len())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(servicetest.NewSessionStore(), servicetest.NewDocumentStore("uploads/ids"), servicetest.NewUserStore(),
		config.JobsConfig{SessionPurgeSchedule: "not a schedule"}, zerolog.Nop())
	require.Error(t, s.Start())
}
