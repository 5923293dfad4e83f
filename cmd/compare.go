package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"sheet-diff/core/config"
	"sheet-diff/core/database"
	"sheet-diff/core/dataset"
	"sheet-diff/core/diff"
	"sheet-diff/core/export"
	"sheet-diff/core/logger"
	"sheet-diff/core/report"
	"sheet-diff/core/snapshot"
	"sheet-diff/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareFlags holds the flags of the compare command.
type compareFlags struct {
	keys             []string
	autoKey          bool
	ignoreCase       bool
	ignoreWhitespace bool
	reorderAsSame    bool
	typeAware        bool
	strictKeys       bool
	sheet            string
	tables           bool
	snapshotPath     string
	upload           string
	exportPath       string
	rows             string
	showMoved        bool
	details          int
}

var compareOpts compareFlags

// compareCmd compares two datasets.
var compareCmd = &cobra.Command{
	Use:   "compare ORIGINAL UPDATED",
	Short: "Compare two datasets",
	Long: `Compare two CSV, TSV or XLSX files (optionally .gz, .bz2, .xz or .zst
compressed) or, with --tables, two database tables.

Examples:
  # Compare by the id column
  compare before.csv after.csv --key id

  # Composite key, detect numbers and dates, save and export
  compare q1.xlsx q2.xlsx --key region --key sku --type-aware \
      --snapshot q2.json --export changes.xlsx --rows all

  # Compare two tables using their primary key
  compare products products_staging --tables`,
	Args: cobra.ExactArgs(2),
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

		opts := cfg.Compare.Options()
		overrideOptions(cmd, &opts, compareOpts)

		showMoved := cfg.Compare.ShowMoved
		if cmd.Flags().Changed("show-moved") {
			showMoved = compareOpts.showMoved
		}

		return runCompare(cmd.Context(), cfg, l, args[0], args[1], compareOpts, opts, showMoved, cmd.OutOrStdout())
	},
}

func init() {
	f := compareCmd.Flags()
	f.StringSliceVarP(&compareOpts.keys, "key", "k", nil, "Primary key column (repeatable, order matters)")
	f.BoolVar(&compareOpts.autoKey, "auto-key", false, "Detect the primary key when --key is not given")
	f.BoolVar(&compareOpts.ignoreCase, "ignore-case", false, "Compare values case-insensitively")
	f.BoolVar(&compareOpts.ignoreWhitespace, "ignore-whitespace", false, "Ignore leading and trailing whitespace")
	f.BoolVar(&compareOpts.reorderAsSame, "reorder-as-same", true, "Report reordered rows as moved instead of modified")
	f.BoolVar(&compareOpts.typeAware, "type-aware", false, "Compare numbers with a tolerance and dates by instant")
	f.BoolVar(&compareOpts.strictKeys, "strict-keys", false, "Fail on duplicate primary keys instead of keeping the last row")
	f.StringVar(&compareOpts.sheet, "sheet", "", "Workbook sheet to read (default first sheet)")
	f.BoolVar(&compareOpts.tables, "tables", false, "Treat arguments as database table names")
	f.StringVar(&compareOpts.snapshotPath, "snapshot", "", "Write the result to this snapshot file")
	f.StringVar(&compareOpts.upload, "upload", "", "Save the result to object storage under this name")
	f.StringVar(&compareOpts.exportPath, "export", "", "Export rows to a .csv or .xlsx file")
	f.StringVar(&compareOpts.rows, "rows", string(export.RowsChanged), "Rows to export: changed, all or unchanged")
	f.BoolVar(&compareOpts.showMoved, "show-moved", false, "List moved rows separately in reports and exports")
	f.IntVar(&compareOpts.details, "details", 20, "Number of changed cells to print (0 hides them)")

	RootCmd.AddCommand(compareCmd)
}

// overrideOptions applies the option flags the user set explicitly.
func overrideOptions(cmd *cobra.Command, opts *diff.Options, f compareFlags) {
	flags := cmd.Flags()
	for name, pair := range map[string]struct {
		target *bool
		value  bool
	}{
		"ignore-case":       {&opts.IgnoreCase, f.ignoreCase},
		"ignore-whitespace": {&opts.IgnoreWhitespace, f.ignoreWhitespace},
		"reorder-as-same":   {&opts.TreatReorderAsSame, f.reorderAsSame},
		"type-aware":        {&opts.TypeAware, f.typeAware},
		"strict-keys":       {&opts.StrictKeys, f.strictKeys},
	} {
		if flags.Changed(name) {
			*pair.target = pair.value
		}
	}
}

func runCompare(ctx context.Context, cfg *config.Config, l *zap.Logger, originalArg, updatedArg string, f compareFlags, opts diff.Options, showMoved bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var rows export.RowSet
	var format export.Format
	if f.exportPath != "" {
		var err error
		if rows, err = export.ParseRowSet(f.rows); err != nil {
			return err
		}
		if format, err = export.FormatFromPath(f.exportPath); err != nil {
			return err
		}
	}

	var original, updated dataset.Source
	keys := f.keys
	if f.tables {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		origTable := dataset.NewTableSource(db, originalArg)
		original, updated = origTable, dataset.NewTableSource(db, updatedArg)

		if len(keys) == 0 && !f.autoKey {
			if keys, err = origTable.PrimaryKeys(ctx); err != nil {
				return err
			}
		}
	} else {
		original = dataset.NewFileSource(originalArg, f.sheet)
		updated = dataset.NewFileSource(updatedArg, f.sheet)
	}

	orig, upd, err := dataset.LoadPair(ctx, original, updated)
	if err != nil {
		return err
	}

	result, err := diff.NewEngine(l).Run(diff.Request{
		Original:      orig,
		Updated:       upd,
		PrimaryKeys:   keys,
		AutoDetectKey: f.autoKey,
		Options:       opts,
	})
	if err != nil {
		return err
	}

	if err := report.Render(out, result, report.Options{ShowMoved: showMoved, Details: f.details}); err != nil {
		return err
	}

	snap := snapshot.New(result, showMoved)
	if f.snapshotPath != "" {
		if err := snapshot.WriteFile(f.snapshotPath, snap); err != nil {
			return err
		}
		l.Info("Snapshot written", zap.String("path", f.snapshotPath))
	}

	if f.upload != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		store := snapshot.NewStore(client, cfg.Storage.Bucket, cfg.Compare.SnapshotPrefix, 0, l)
		if err := store.EnsureBucket(ctx); err != nil {
			return err
		}
		if err := store.Save(ctx, f.upload, snap); err != nil {
			return err
		}
		l.Info("Snapshot uploaded", zap.String("name", f.upload), zap.String("bucket", cfg.Storage.Bucket))
	}

	if f.exportPath != "" {
		rep := export.Report{Result: result, Rows: rows, ShowMoved: showMoved, Generated: time.Now()}
		if err := writeExport(f.exportPath, format, rep); err != nil {
			return err
		}
		l.Info("Report exported", zap.String("path", f.exportPath), zap.String("rows", string(rows)))
	}

	return nil
}

func writeExport(path string, format export.Format, rep export.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(file, format, rep); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
