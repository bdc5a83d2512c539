/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/TaskGraph/models"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")
		labels, _ := cmd.Flags().GetStringArray("label")
		deps, _ := cmd.Flags().GetStringArray("depends")
		effort, _ := cmd.Flags().GetFloat64("effort")
		parent, _ := cmd.Flags().GetString("parent")
		source, _ := cmd.Flags().GetString("source")

		input := models.CreateTaskInput{
			Title:        args[0],
			Description:  description,
			Priority:     models.TaskPriority(priority),
			Labels:       labels,
			Dependencies: deps,
			Effort:       effort,
			Source:       source,
		}
		if parent != "" {
			input.ParentID = &parent
		}

		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		task, err := s.Create(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Printf("Created task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("description", "d", "", "long-form description")
	addCmd.Flags().StringP("priority", "p", "", "priority: critical, high, medium, low (default medium)")
	addCmd.Flags().StringArrayP("label", "l", nil, "label (repeatable)")
	addCmd.Flags().StringArray("depends", nil, "dependency task id (repeatable)")
	addCmd.Flags().Float64P("effort", "e", 0, "effort estimate in story points")
	addCmd.Flags().String("parent", "", "id of the task this one was expanded from")
	addCmd.Flags().String("source", "", "provenance tag (e.g. manual, generated, sync)")
	rootCmd.AddCommand(addCmd)
}
