package cli

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Hiro-mackay/pdfops/internal/domain/repository"
	historycmd "github.com/Hiro-mackay/pdfops/internal/usecase/history/command"
	historyqry "github.com/Hiro-mackay/pdfops/internal/usecase/history/query"
)

const dateLayout = "2006-01-02"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Export or purge the operation history",
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the operation history as CSV",
	Long: `Write operation history records, newest first, in the same CSV format as
GET /api/history/export. Without --out the CSV is written to stdout.`,
	Run: runHistoryExport,
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete history records older than a cutoff",
	Run:   runHistoryPurge,
}

var (
	exportOut     string
	exportType    string
	exportFrom    string
	exportTo      string
	exportCountry string

	purgeBefore  string
	purgeDays    int
	purgeArchive bool
	purgeLinkTTL time.Duration
)

// archiveLinker はアーカイブのダウンロードURLを発行できるストレージです
type archiveLinker interface {
	DownloadURL(ctx context.Context, objectKey, filename string, expiry time.Duration) (string, error)
}

func init() {
	historyExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: stdout)")
	historyExportCmd.Flags().StringVar(&exportType, "type", "", "Only export this operation type")
	historyExportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	historyExportCmd.Flags().StringVar(&exportTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
	historyExportCmd.Flags().StringVar(&exportCountry, "country", "", "Only export this country")

	historyPurgeCmd.Flags().StringVar(&purgeBefore, "before", "", "Delete records before this date (YYYY-MM-DD)")
	historyPurgeCmd.Flags().IntVar(&purgeDays, "older-than-days", 0, "Delete records older than N days")
	historyPurgeCmd.Flags().BoolVar(&purgeArchive, "archive", false, "Archive deleted records to object storage first")
	historyPurgeCmd.Flags().DurationVar(&purgeLinkTTL, "link-expiry", 0, "Print a download link for the archive valid for this long (e.g. 24h)")

	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPurgeCmd)
}

func runHistoryExport(cmd *cobra.Command, args []string) {
	filter := repository.HistoryFilter{
		OperationType: exportType,
		Country:       exportCountry,
	}
	if exportFrom != "" {
		from := parseDate("--from", exportFrom)
		filter.StartDate = &from
	}
	if exportTo != "" {
		// 終了日はその日の終わりまで含める
		to := parseDate("--to", exportTo).Add(24*time.Hour - time.Microsecond)
		filter.EndDate = &to
	}

	c := initContext()
	defer c.Close()

	w := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			exitError("failed to create %s: %v", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	out, err := c.Container.History.ExportCSV.Execute(c.Ctx, w, historyqry.ExportHistoryCSVInput{Filter: filter})
	if err != nil {
		exitError("%v", err)
	}
	if exportOut != "" {
		color.New(color.FgGreen).Fprintf(os.Stderr, "Exported %d record(s) to %s\n", out.Rows, exportOut)
	}
}

func runHistoryPurge(cmd *cobra.Command, args []string) {
	var before time.Time
	switch {
	case purgeBefore != "" && purgeDays > 0:
		exitError("use either --before or --older-than-days, not both")
	case purgeBefore != "":
		before = parseDate("--before", purgeBefore)
	case purgeDays > 0:
		before = time.Now().UTC().AddDate(0, 0, -purgeDays)
	default:
		exitError("--before or --older-than-days is required")
	}

	c := initContext()
	defer c.Close()

	if purgeArchive && c.Container.Archive == nil {
		exitError("--archive requires history.archive_enabled and storage settings")
	}

	out, err := c.Container.History.Purge.Execute(c.Ctx, historycmd.PurgeHistoryInput{
		Before:  before,
		Archive: purgeArchive,
	})
	if err != nil {
		exitError("%v", err)
	}

	red := color.New(color.FgRed)
	red.Printf("Deleted %d record(s)", out.Deleted)
	fmt.Printf(" before %s\n", before.Format(time.RFC3339))
	if out.ArchiveKey != "" {
		color.New(color.FgCyan).Printf("Archived %d record(s) to %s\n", out.Archived, out.ArchiveKey)
		if linker, ok := c.Container.Archive.(archiveLinker); ok && purgeLinkTTL > 0 {
			link, err := linker.DownloadURL(c.Ctx, out.ArchiveKey, path.Base(out.ArchiveKey), purgeLinkTTL)
			if err != nil {
				exitError("archive stored but link generation failed: %v", err)
			}
			fmt.Println(link)
		}
	}
}

func parseDate(flag, value string) time.Time {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		exitError("invalid %s %q: expected YYYY-MM-DD", flag, value)
	}
	return t
}
