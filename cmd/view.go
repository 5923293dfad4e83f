package cmd

import (
	"fmt"
	"time"

	"sheet-diff/core/config"
	"sheet-diff/core/export"
	"sheet-diff/core/logger"
	"sheet-diff/core/report"
	"sheet-diff/core/snapshot"
	"sheet-diff/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	viewRemote     bool
	viewShowMoved  bool
	viewExportPath string
	viewRows       string
	viewDetails    int
)

// viewCmd prints a saved snapshot.
var viewCmd = &cobra.Command{
	Use:   "view SNAPSHOT",
	Short: "Show a saved comparison",
	Long: `Print the report of a snapshot file, or with --remote of a snapshot stored
in object storage. The snapshot's show-moved preference applies unless
--show-moved is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		var snap *snapshot.Snapshot
		if viewRemote {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to connect to storage: %w", err)
			}
			store := snapshot.NewStore(client, cfg.Storage.Bucket, cfg.Compare.SnapshotPrefix, 0, l)
			if snap, err = store.Load(cmd.Context(), args[0]); err != nil {
				return err
			}
		} else if snap, err = snapshot.ReadFile(args[0]); err != nil {
			return err
		}

		showMoved := snap.ShowMovedRows()
		if cmd.Flags().Changed("show-moved") {
			showMoved = viewShowMoved
		}

		if err := report.Render(cmd.OutOrStdout(), snap.Result, report.Options{ShowMoved: showMoved, Details: viewDetails}); err != nil {
			return err
		}

		if viewExportPath == "" {
			return nil
		}
		rows, err := export.ParseRowSet(viewRows)
		if err != nil {
			return err
		}
		format, err := export.FormatFromPath(viewExportPath)
		if err != nil {
			return err
		}
		rep := export.Report{Result: snap.Result, Rows: rows, ShowMoved: showMoved, Generated: time.Now()}
		if err := writeExport(viewExportPath, format, rep); err != nil {
			return err
		}
		l.Info("Report exported", zap.String("path", viewExportPath))
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewRemote, "remote", false, "Load the snapshot from object storage by name")
	viewCmd.Flags().BoolVar(&viewShowMoved, "show-moved", false, "List moved rows separately")
	viewCmd.Flags().StringVar(&viewExportPath, "export", "", "Export rows to a .csv or .xlsx file")
	viewCmd.Flags().StringVar(&viewRows, "rows", string(export.RowsChanged), "Rows to export: changed, all or unchanged")
	viewCmd.Flags().IntVar(&viewDetails, "details", 20, "Number of changed cells to print (0 hides them)")

	RootCmd.AddCommand(viewCmd)
}
