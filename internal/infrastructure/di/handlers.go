package di

import (
	"github.com/Hiro-mackay/pdfops/internal/interface/handler"
)

// Handlers はアプリケーションのハンドラーを保持します
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	History *handler.HistoryHandler
	PDF     *handler.PDFHandler
}

// NewHandlers はContainerから全てのハンドラーを初期化します
func NewHandlers(c *Container) *Handlers {
	// Health Handler
	healthHandler := handler.NewHealthHandler()
	if c.PgClient != nil {
		healthHandler.RegisterChecker("postgres", c.PgClient)
	}
	if c.SQLiteDB != nil {
		healthHandler.RegisterChecker("sqlite", c.SQLiteDB)
	}
	if c.RedisClient != nil {
		healthHandler.RegisterChecker("redis", c.RedisClient)
	}
	if c.MinIOClient != nil {
		healthHandler.RegisterChecker("minio", c.MinIOClient)
	}

	handlers := NewHandlersForTest(c)
	handlers.Health = healthHandler
	return handlers
}

// NewHandlersForTest はテスト用にハンドラーを初期化します（HealthHandlerなし）
func NewHandlersForTest(c *Container) *Handlers {
	// Auth Handler
	authHandler := handler.NewAuthHandler(
		c.Auth.Register,
		c.Auth.Login,
		c.Auth.RefreshToken,
		c.Auth.Logout,
		c.Auth.GetUser,
	)

	// History Handler
	historyHandler := handler.NewHistoryHandler(
		c.History.DeleteEntry,
		c.History.DeleteAll,
		c.History.GetHistory,
		c.History.Search,
		c.History.UserHistory,
		c.History.ExportCSV,
		c.History.FilterOptions,
	)

	// PDF Handler
	pdfHandler := handler.NewPDFHandler(handler.PDFCommands{
		Merge:          c.PDF.Merge,
		Extract:        c.PDF.Extract,
		Split:          c.PDF.Split,
		RemovePage:     c.PDF.RemovePage,
		Reorder:        c.PDF.Reorder,
		AddPassword:    c.PDF.AddPassword,
		RemovePassword: c.PDF.RemovePassword,
		ToImages:       c.PDF.ToImages,
		Rotate:         c.PDF.Rotate,
		AddWatermark:   c.PDF.AddWatermark,
	}, handler.DefaultMaxUploadSize)

	return &Handlers{
		Health:  nil, // テストではHealthHandlerは不要
		Auth:    authHandler,
		History: historyHandler,
		PDF:     pdfHandler,
	}
}
