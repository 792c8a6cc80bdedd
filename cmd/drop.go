package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/storage"
)

var (
	dropForce bool
	dropMatch int64
)

// dropCmd deletes the metrics database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the metrics database or one stored match",
	Long:  "Permanently delete the SQLite metrics database. All stored match data will be lost. Re-run ingest afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().Int64Var(&dropMatch, "match", 0, "delete only this match's outputs instead of the whole database")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropMatch != 0 {
		return dropOneMatch(dropMatch)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL sidecar files are left behind by an unclean shutdown.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", dbPath+suffix, err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropOneMatch(matchID int64) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	exists, err := db.MatchExists(matchID)
	if err != nil {
		return fmt.Errorf("check match %d: %w", matchID, err)
	}
	if !exists {
		fmt.Fprintf(os.Stdout, "Match %d is not stored, nothing to drop.\n", matchID)
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete every stored output of match %d.\n", matchID)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := db.DeleteMatch(matchID); err != nil {
		return fmt.Errorf("delete match %d: %w", matchID, err)
	}
	fmt.Fprintf(os.Stdout, "Deleted match %d. Re-run ingest with --force to rebuild it.\n", matchID)
	return nil
}
