/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskGraph/models"
	"github.com/josephgoksu/TaskGraph/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		priority, _ := cmd.Flags().GetString("priority")
		label, _ := cmd.Flags().GetString("label")
		all, _ := cmd.Flags().GetBool("all")

		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		tasks, err := s.List(cmd.Context(), store.ListFilter{
			Status:          models.TaskStatus(status),
			Priority:        models.TaskPriority(priority),
			Label:           label,
			IncludeArchived: all,
		})
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		for _, t := range tasks {
			flags := ""
			if t.Archived {
				flags = " [archived]"
			}
			deps := ""
			if len(t.Dependencies) > 0 {
				deps = fmt.Sprintf("  deps: %s", strings.Join(t.Dependencies, ", "))
			}
			fmt.Printf("%-36s  %-11s  %-8s  %s%s%s\n", t.ID, t.Status, t.Priority, t.Title, flags, deps)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "filter by status: todo, in_progress, done, blocked")
	listCmd.Flags().StringP("priority", "p", "", "filter by priority: critical, high, medium, low")
	listCmd.Flags().StringP("label", "l", "", "filter by label")
	listCmd.Flags().BoolP("all", "a", false, "include archived tasks")
	rootCmd.AddCommand(listCmd)
}
