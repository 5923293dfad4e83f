package cmd

import (
	"fmt"
	"time"

	"sheet-diff/core/config"
	"sheet-diff/core/logger"
	"sheet-diff/core/report"
	"sheet-diff/core/snapshot"
	"sheet-diff/core/storage"

	"github.com/spf13/cobra"
)

var pruneOlderThan time.Duration

// snapshotsCmd groups the stored snapshot commands.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage snapshots in object storage",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}

		infos, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		table := report.NewTable(cmd.OutOrStdout(), "Name", "Size", "Last Modified")
		for _, info := range infos {
			if err := table.Append([]string{info.Name, fmt.Sprintf("%d", info.Size), info.LastModified.UTC().Format(time.RFC3339)}); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

var snapshotsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete snapshots older than a duration",
	Long: `Delete every stored snapshot whose last modification is older than
--older-than (for example 720h for thirty days).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		names, err := store.Prune(cmd.Context(), time.Now().Add(-pruneOlderThan))
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d snapshot(s) pruned\n", len(names))
		return nil
	},
}

// openStore builds the snapshot store from the configuration.
func openStore() (*snapshot.Store, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return snapshot.NewStore(client, cfg.Storage.Bucket, cfg.Compare.SnapshotPrefix, 0, l), nil
}

func init() {
	snapshotsPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 30*24*time.Hour, "Minimum age of snapshots to delete")

	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsDeleteCmd, snapshotsPruneCmd)
	RootCmd.AddCommand(snapshotsCmd)
}
