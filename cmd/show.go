/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one task in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		t, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:          %s\n", t.ID)
		fmt.Printf("Title:       %s\n", t.Title)
		fmt.Printf("Status:      %s\n", t.Status)
		fmt.Printf("Priority:    %s\n", t.Priority)
		if t.Description != "" {
			fmt.Printf("Description: %s\n", t.Description)
		}
		if len(t.Dependencies) > 0 {
			fmt.Printf("Depends on:  %s\n", strings.Join(t.Dependencies, ", "))
		}
		if len(t.Labels) > 0 {
			fmt.Printf("Labels:      %s\n", strings.Join(t.Labels, ", "))
		}
		if t.ParentID != nil {
			fmt.Printf("Parent:      %s\n", *t.ParentID)
		}
		if t.Effort > 0 {
			fmt.Printf("Effort:      %g\n", t.Effort)
		}
		if t.Source != "" {
			fmt.Printf("Source:      %s\n", t.Source)
		}
		fmt.Printf("Archived:    %v\n", t.Archived)
		fmt.Printf("Created:     %s\n", t.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Updated:     %s\n", t.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
		if t.CompletedAt != nil {
			fmt.Printf("Completed:   %s\n", t.CompletedAt.Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
