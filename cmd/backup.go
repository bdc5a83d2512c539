/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup <destination-dir>",
	Short: "Copy every record into a backup directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if err := s.Backup(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Backed up store to %s\n", args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <source-dir>",
	Short: "Replace the store contents from a backup directory",
	Long: `Restore is a bulk import: it runs under an admission slot and verifies
every backup record parses cleanly and the restored dependency graph is
acyclic before any live record is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Opening through the guard installs the graph validator, so a
		// cyclic backup is rejected instead of adopted.
		_, s, err := GetGuard()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		gate := GetGate()
		if err := gate.Do(cmd.Context(), func(ctx context.Context) error {
			return s.Restore(ctx, args[0])
		}); err != nil {
			return err
		}
		fmt.Printf("Restored store from %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}
