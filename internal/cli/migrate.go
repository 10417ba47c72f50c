package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Hiro-mackay/pdfops/internal/infrastructure/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage PostgreSQL schema migrations",
	Long: `Apply or roll back the PostgreSQL schema. The SQLite driver creates its
schema on open and does not need migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Run:   runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Run:   runMigrateDown,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	Run:   runMigrateVersion,
}

var migrateSteps int

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "Number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func newMigrator() *database.Migrator {
	cfg := loadConfig()
	if cfg.Database.Driver != "postgres" {
		exitError("migrations are only used with the postgres driver (current: %s)", cfg.Database.Driver)
	}
	m, err := database.NewMigrator(cfg.Database.MigrationsDir, cfg.Database.URL)
	if err != nil {
		exitError("%v", err)
	}
	return m
}

func runMigrateUp(cmd *cobra.Command, args []string) {
	m := newMigrator()
	defer m.Close()

	applied, err := m.Up()
	if err != nil {
		exitError("%v", err)
	}
	if !applied {
		fmt.Println("Schema is up to date")
		return
	}
	color.New(color.FgGreen).Println("Migrations applied")
}

func runMigrateDown(cmd *cobra.Command, args []string) {
	if migrateSteps < 1 {
		exitError("--steps must be at least 1")
	}
	m := newMigrator()
	defer m.Close()

	if err := m.Down(migrateSteps); err != nil {
		exitError("%v", err)
	}
	color.New(color.FgYellow).Printf("Rolled back %d migration(s)\n", migrateSteps)
}

func runMigrateVersion(cmd *cobra.Command, args []string) {
	m := newMigrator()
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("version %d", version)
	if dirty {
		color.New(color.FgRed).Print(" (dirty)")
	}
	fmt.Println()
}
