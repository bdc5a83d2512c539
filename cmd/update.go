/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updates := map[string]interface{}{}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			updates["title"] = v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			updates["description"] = v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			updates["priority"] = v
		}
		if cmd.Flags().Changed("effort") {
			v, _ := cmd.Flags().GetFloat64("effort")
			updates["effort"] = v
		}
		if cmd.Flags().Changed("label") {
			v, _ := cmd.Flags().GetStringArray("label")
			updates["labels"] = v
		}
		if cmd.Flags().Changed("source") {
			v, _ := cmd.Flags().GetString("source")
			updates["source"] = v
		}
		if len(updates) == 0 {
			return fmt.Errorf("nothing to update; pass at least one field flag")
		}

		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		task, err := s.Update(cmd.Context(), args[0], updates)
		if err != nil {
			return err
		}
		fmt.Printf("Updated task %s: %s\n", task.ID, task.Title)
		return nil
	},
}

func init() {
	updateCmd.Flags().String("title", "", "new title")
	updateCmd.Flags().StringP("description", "d", "", "new description")
	updateCmd.Flags().StringP("priority", "p", "", "new priority")
	updateCmd.Flags().Float64P("effort", "e", 0, "new effort estimate")
	updateCmd.Flags().StringArrayP("label", "l", nil, "replace labels (repeatable)")
	updateCmd.Flags().String("source", "", "new provenance tag")
	rootCmd.AddCommand(updateCmd)
}
