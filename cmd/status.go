/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/TaskGraph/models"
	"github.com/spf13/cobra"
)

// transition runs a guarded status change and reports forced-bypass
// warnings to the user.
func transition(cmd *cobra.Command, id string, status models.TaskStatus, force bool) error {
	g, s, err := GetGuard()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	task, warnings, err := g.RequestTransition(cmd.Context(), id, status, force)
	if err != nil {
		return err
	}
	fmt.Printf("Task %s is now %s: %s\n", task.ID, task.Status, task.Title)
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w.Message)
	}
	return nil
}

var startCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Mark a task in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], models.StatusInProgress, false)
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task done (requires all dependencies done)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return transition(cmd, args[0], models.StatusDone, force)
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Mark a task blocked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], models.StatusBlocked, false)
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock <id>",
	Short: "Return a blocked task to todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], models.StatusTodo, false)
	},
}

func init() {
	doneCmd.Flags().BoolP("force", "f", false, "bypass the dependency check; the violation is recorded as a warning")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(unblockCmd)
}
