/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/TaskGraph/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a task store in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteStarterConfig(afero.NewOsFs(), ".")
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)

		// Opening the store creates the directory layout.
		s, err := GetStore()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		fmt.Printf("Initialized task store at %s\n", StoreRoot())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
