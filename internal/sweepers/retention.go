package sweepers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/salonhub/visits-service/internal/database"
)

// LogRetentionSweeper periodically deletes webhook log rows older than the
// retention window. Old rows only slow the projection down; every group they
// could contribute to has long since stopped changing.
type LogRetentionSweeper struct {
	pool      *pgxpool.Pool
	logger    *zerolog.Logger
	retention time.Duration
	interval  time.Duration
	stopChan  chan struct{}
}

// NewLogRetentionSweeper creates a new sweeper for webhook log cleanup
func NewLogRetentionSweeper(pool *pgxpool.Pool, logger *zerolog.Logger, retention, interval time.Duration) *LogRetentionSweeper {
	return &LogRetentionSweeper{
		pool:      pool,
		logger:    logger,
		retention: retention,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic retention sweep
func (s *LogRetentionSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("retention", s.retention).
		Dur("interval", s.interval).
		Msg("Starting log retention sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Log retention sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Log retention sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.SweepExpiredLogs(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep expired logs")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *LogRetentionSweeper) Stop() {
	close(s.stopChan)
}

// SweepExpiredLogs deletes log rows that fell out of the retention window
func (s *LogRetentionSweeper) SweepExpiredLogs(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	deleted, err := database.DeleteLogsBefore(ctx, s.pool, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Swept expired webhook logs")
	}

	return nil
}
