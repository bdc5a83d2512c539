/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream record changes made by other processes",
	Long: `Watch reports every committed record change in the store, including
writes by other processes such as external sync collaborators. In-flight
temp files are filtered; only completed writes surface.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		events, err := s.Watch(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("Watching for record changes (Ctrl-C to stop)...")
		for ev := range events {
			fmt.Printf("%-8s %s\n", ev.Op, ev.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
