/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Manage task dependencies",
}

var depsSetCmd = &cobra.Command{
	Use:   "set <id> [dep-id...]",
	Short: "Replace the dependency list of a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, s, err := GetGuard()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		task, err := g.SetDependencies(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}
		if len(task.Dependencies) == 0 {
			fmt.Printf("Task %s now has no dependencies\n", task.ID)
		} else {
			fmt.Printf("Task %s now depends on: %s\n", task.ID, strings.Join(task.Dependencies, ", "))
		}
		return nil
	},
}

var depsAddCmd = &cobra.Command{
	Use:   "add <id> <dep-id...>",
	Short: "Add dependencies to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, s, err := GetGuard()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		task, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		deps := task.Dependencies
		for _, dep := range args[1:] {
			if !task.DependsOn(dep) {
				deps = append(deps, dep)
			}
		}

		task, err = g.SetDependencies(cmd.Context(), args[0], deps)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s now depends on: %s\n", task.ID, strings.Join(task.Dependencies, ", "))
		return nil
	},
}

var depsRemoveCmd = &cobra.Command{
	Use:   "remove <id> <dep-id...>",
	Short: "Remove dependencies from a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, s, err := GetGuard()
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		task, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		remove := make(map[string]bool, len(args)-1)
		for _, dep := range args[1:] {
			remove[dep] = true
		}
		deps := make([]string, 0, len(task.Dependencies))
		for _, dep := range task.Dependencies {
			if !remove[dep] {
				deps = append(deps, dep)
			}
		}

		task, err = g.SetDependencies(cmd.Context(), args[0], deps)
		if err != nil {
			return err
		}
		if len(task.Dependencies) == 0 {
			fmt.Printf("Task %s now has no dependencies\n", task.ID)
		} else {
			fmt.Printf("Task %s now depends on: %s\n", task.ID, strings.Join(task.Dependencies, ", "))
		}
		return nil
	},
}

func init() {
	depsCmd.AddCommand(depsSetCmd)
	depsCmd.AddCommand(depsAddCmd)
	depsCmd.AddCommand(depsRemoveCmd)
	rootCmd.AddCommand(depsCmd)
}
