// Package cli は運用者向けの管理コマンドを提供します
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hiro-mackay/pdfops/internal/infrastructure/di"
	"github.com/Hiro-mackay/pdfops/pkg/config"
	"github.com/Hiro-mackay/pdfops/pkg/logger"
)

var configPath string

// cmdContext はコマンド共通のリソースを保持します
type cmdContext struct {
	Ctx       context.Context
	Config    *config.Config
	Container *di.Container
}

// Close は保持しているリソースを解放します
func (c *cmdContext) Close() {
	if c.Container != nil {
		c.Container.Close()
	}
}

// loadConfig は設定を読み込み、ロガーを標準エラーに向けます
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitError("%v", err)
	}
	if _, err := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: "text", Output: "stderr"}); err != nil {
		exitError("failed to setup logger: %v", err)
	}
	return cfg
}

// initContext は設定とDIコンテナを初期化します
func initContext() *cmdContext {
	cfg := loadConfig()
	ctx := context.Background()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		exitError("failed to initialize container: %v", err)
	}
	container.InitUseCases()

	return &cmdContext{Ctx: ctx, Config: cfg, Container: container}
}

var rootCmd = &cobra.Command{
	Use:   "pdfops-admin",
	Short: "PDF operations service administration",
	Long: `pdfops-admin manages the PDF operations service: database migrations,
operation history export and retention, and user roles.`,
}

// Execute はルートコマンドを実行します
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default: $CONFIG_PATH)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(userCmd)
}

// exitError はエラーを表示して終了します
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
