package command

import (
	"context"
	"time"

	"github.com/Hiro-mackay/pdfops/internal/domain/entity"
	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	"github.com/Hiro-mackay/pdfops/internal/domain/service"
	"github.com/Hiro-mackay/pdfops/internal/domain/valueobject"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

// TrackOperationCommand はPDF操作を履歴に記録するコマンドです
// 記録の失敗はログに出力し、呼び出し元には返しません
type TrackOperationCommand struct {
	historyRepo repository.OperationHistoryRepository
	geoResolver service.GeoResolver
	clock       func() time.Time
}

// NewTrackOperationCommand は新しいTrackOperationCommandを作成します
func NewTrackOperationCommand(
	historyRepo repository.OperationHistoryRepository,
	geoResolver service.GeoResolver,
) *TrackOperationCommand {
	return &TrackOperationCommand{
		historyRepo: historyRepo,
		geoResolver: geoResolver,
		clock:       time.Now,
	}
}

// WithClock は記録時刻の取得元を差し替えます
func (c *TrackOperationCommand) WithClock(clock func() time.Time) *TrackOperationCommand {
	c.clock = clock
	return c
}

// Execute は操作を記録します
func (c *TrackOperationCommand) Execute(ctx context.Context, entry service.TrackEntry) {
	principal := entry.Origin.Principal
	if principal == nil {
		logger.Warn(ctx, "no authenticated principal, skipping history tracking",
			"operation_type", entry.OperationType.String(),
		)
		return
	}

	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = c.clock()
	}

	ip := entry.Origin.ClientIP()
	loc := c.geoResolver.Resolve(ctx, ip)

	record := &entity.OperationRecord{
		UserID:         principal.UserID,
		UserName:       principal.Name,
		UserEmail:      principal.Email,
		OperationType:  entry.OperationType.String(),
		Timestamp:      entity.NormalizeTimestamp(occurredAt),
		SourceType:     string(valueobject.ParseSourceType(entry.Origin.SourceType)),
		IPAddress:      ip,
		Country:        loc.Country,
		State:          loc.State,
		UserAgent:      entry.Origin.UserAgent,
		RequestDetails: entity.TruncateDetails(entry.RequestDetails),
	}

	id, err := c.historyRepo.Create(ctx, record)
	if err != nil {
		logger.WithError(ctx, err).Error("failed to track operation",
			"operation_type", record.OperationType,
			"user_id", record.UserID,
		)
		return
	}

	logger.Debug(ctx, "operation tracked",
		"history_id", id,
		"operation_type", record.OperationType,
	)
}

// Track は service.HistoryTracker を実装し、同期的に記録します
func (c *TrackOperationCommand) Track(ctx context.Context, entry service.TrackEntry) {
	c.Execute(ctx, entry)
}

// インターフェースの実装を保証
var _ service.HistoryTracker = (*TrackOperationCommand)(nil)
