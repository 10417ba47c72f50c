package di

import (
	"context"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/infrastructure/worker"
	historycmd "github.com/Hiro-mackay/pdfops/internal/usecase/history/command"
)

// NewWorkers はバックグラウンドジョブを登録したManagerを作成します
func NewWorkers(c *Container) *worker.Manager {
	m := worker.NewManager()
	cfg := c.config.History

	if cfg.RetentionDays > 0 {
		m.Register(worker.NewHistoryRetentionJob(
			c.purgeHistory,
			worker.RetentionJobConfig{
				RetentionDays: cfg.RetentionDays,
				Interval:      cfg.RetentionEvery,
				Archive:       cfg.ArchiveEnabled,
			},
			nil,
		))
	}

	if c.AsyncTracker != nil {
		m.Register(worker.NewTrackerBacklogJob(c.AsyncTracker.Pending, cfg.BufferSize))
	}

	m.Register(worker.NewHealthCheckJob(c.checkHealth))

	return m
}

func (c *Container) purgeHistory(ctx context.Context, before time.Time, archive bool) (worker.RetentionResult, error) {
	out, err := c.History.Purge.Execute(ctx, historycmd.PurgeHistoryInput{
		Before:  before,
		Archive: archive,
	})
	if err != nil {
		return worker.RetentionResult{}, err
	}
	return worker.RetentionResult{
		Archived:   out.Archived,
		ArchiveKey: out.ArchiveKey,
		Deleted:    out.Deleted,
	}, nil
}

// checkHealth はデータベースとRedisの疎通を確認します
func (c *Container) checkHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if c.PgClient != nil {
		if err := c.PgClient.Health(ctx); err != nil {
			return err
		}
	}
	if c.SQLiteDB != nil {
		if err := c.SQLiteDB.Health(ctx); err != nil {
			return err
		}
	}
	if c.RedisClient != nil {
		return c.RedisClient.Health(ctx)
	}
	return nil
}
