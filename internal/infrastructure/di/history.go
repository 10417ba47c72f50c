package di

import (
	historycmd "github.com/Hiro-mackay/pdfops/internal/usecase/history/command"
	historyqry "github.com/Hiro-mackay/pdfops/internal/usecase/history/query"
)

// HistoryUseCases は操作履歴のUseCaseを保持します
type HistoryUseCases struct {
	// Commands
	Track       *historycmd.TrackOperationCommand
	DeleteEntry *historycmd.DeleteHistoryEntryCommand
	DeleteAll   *historycmd.DeleteAllHistoryCommand
	Purge       *historycmd.PurgeHistoryCommand

	// Queries
	GetHistory    *historyqry.GetOperationHistoryQuery
	Search        *historyqry.SearchOperationHistoryQuery
	UserHistory   *historyqry.GetUserHistoryQuery
	ExportCSV     *historyqry.ExportHistoryCSVQuery
	FilterOptions *historyqry.ListFilterOptionsQuery
}

// NewHistoryUseCases は新しいHistoryUseCasesを作成します
func NewHistoryUseCases(c *Container) *HistoryUseCases {
	return &HistoryUseCases{
		Track:       historycmd.NewTrackOperationCommand(c.HistoryRepo, c.GeoResolver),
		DeleteEntry: historycmd.NewDeleteHistoryEntryCommand(c.HistoryRepo),
		DeleteAll:   historycmd.NewDeleteAllHistoryCommand(c.HistoryRepo),
		Purge:       historycmd.NewPurgeHistoryCommand(c.HistoryRepo, c.Archive),

		GetHistory:    historyqry.NewGetOperationHistoryQuery(c.HistoryRepo),
		Search:        historyqry.NewSearchOperationHistoryQuery(c.HistoryRepo),
		UserHistory:   historyqry.NewGetUserHistoryQuery(c.HistoryRepo),
		ExportCSV:     historyqry.NewExportHistoryCSVQuery(c.HistoryRepo),
		FilterOptions: historyqry.NewListFilterOptionsQuery(c.HistoryRepo),
	}
}
