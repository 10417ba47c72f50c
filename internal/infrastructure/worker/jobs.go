package worker

import (
	"context"
	"log/slog"
	"time"
)

// RetentionJobConfig は履歴保持ジョブの設定です
type RetentionJobConfig struct {
	// RetentionDays は履歴の保持日数です
	RetentionDays int
	Interval      time.Duration
	// Archive が true の場合、削除前にアーカイブします
	Archive bool
}

// RetentionResult は1回分の保持処理の結果です
type RetentionResult struct {
	Archived   int
	ArchiveKey string
	Deleted    int64
}

// NewHistoryRetentionJob は保持期間を過ぎた履歴を削除するジョブを作成します
// purgeFn は実際の削除(とアーカイブ)を実行する関数です
func NewHistoryRetentionJob(
	purgeFn func(ctx context.Context, before time.Time, archive bool) (RetentionResult, error),
	cfg RetentionJobConfig,
	now func() time.Time,
) Job {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}

	return Job{
		Name:     "history_retention",
		Interval: cfg.Interval,
		Fn: func(ctx context.Context) error {
			before := now().UTC().AddDate(0, 0, -cfg.RetentionDays)
			res, err := purgeFn(ctx, before, cfg.Archive)
			if err != nil {
				return err
			}
			if res.Deleted > 0 || res.Archived > 0 {
				slog.Info("history retention completed",
					"deleted", res.Deleted,
					"archived", res.Archived,
					"archive_key", res.ArchiveKey,
				)
			}
			return nil
		},
	}
}

// NewTrackerBacklogJob は非同期記録キューの滞留を監視するジョブを作成します
func NewTrackerBacklogJob(pendingFn func() int, capacity int) Job {
	return Job{
		Name:           "tracker_backlog",
		Interval:       time.Minute,
		SkipInitialRun: true,
		Fn: func(ctx context.Context) error {
			pending := pendingFn()
			if capacity > 0 && pending*4 >= capacity*3 {
				slog.Warn("history tracker backlog is high", "pending", pending, "capacity", capacity)
			}
			return nil
		},
	}
}

// NewHealthCheckJob はヘルスチェックジョブを作成します（データベース接続確認など）
func NewHealthCheckJob(checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     "health_check",
		Interval: 5 * time.Minute,
		Fn: func(ctx context.Context) error {
			if err := checkFn(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				return err
			}
			return nil
		},
	}
}
