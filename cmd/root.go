package cmd

import (
	"fmt"
	"os"

	"sheet-diff/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sheet-diff",
	Short: "Tabular dataset comparison",
	Long: `sheet-diff compares two tabular datasets by primary key and reports
unchanged, modified, added, removed and moved records.
Datasets can be CSV, TSV or XLSX files or database tables; results can be
saved as snapshots and exported as CSV or XLSX reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the development config gives readable timestamps for CLI users.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
