/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task permanently",
	Long: `Delete removes the record for good. Tasks that depended on it keep
their reference; the guard treats such dangling dependencies as unmet, so
dependents cannot reach done until the reference is removed or forced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		dependents, err := s.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted task %s\n", args[0])
		if len(dependents) > 0 {
			fmt.Printf("Warning: %d task(s) still reference it and now hold a dangling dependency: %s\n",
				len(dependents), strings.Join(dependents, ", "))
		}
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a task (keeps the record resolvable for dependency checks)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		task, err := s.Archive(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Archived task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(archiveCmd)
}
