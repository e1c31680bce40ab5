package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"polibest/api/internal/repository"
	"polibest/api/internal/service"
)

// Scheduler runs the periodic maintenance jobs: purging expired session
// rows and logging the funnel snapshot. Session validity is decided at
// read time, so the purge only reclaims dead rows.
type Scheduler struct {
	cron      *cron.Cron
	sessions  *repository.SessionRepository
	proposals *service.ProposalService
	log       zerolog.Logger
}

func NewScheduler(sessions *repository.SessionRepository, proposals *service.ProposalService, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		sessions:  sessions,
		proposals: proposals,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeExpiredSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.logFunnelSnapshot); err != nil { // hourly
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	s.log.Info().Int64("purged", purged).Msg("expired sessions purged")
}

func (s *Scheduler) logFunnelSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := s.proposals.Funnel(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("funnel snapshot failed")
		return
	}
	s.log.Info().
		Int("total_count", report.TotalCount).
		Float64("total_sum", report.TotalSum).
		Int("cancelled", report.Cancelled.Count).
		Msg("funnel snapshot")
}
