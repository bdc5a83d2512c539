/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/TaskGraph/internal/graph"
	"github.com/josephgoksu/TaskGraph/store"
	"github.com/spf13/cobra"
)

// withGraph loads a whole-store snapshot under an admission slot, builds
// the dependency graph and hands it to fn with a deadline-bounded ctx.
// Whole-store analysis is one of the expensive operations the admission
// gate exists for.
func withGraph(cmd *cobra.Command, fn func(ctx context.Context, g *graph.Graph) error) error {
	s, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	cfg := GetConfig()
	gate := GetGate()
	return gate.Do(cmd.Context(), func(ctx context.Context) error {
		tasks, err := s.List(ctx, store.ListFilter{IncludeArchived: true})
		if err != nil {
			return err
		}
		analysisCtx, cancel := context.WithTimeout(ctx,
			time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
		defer cancel()
		return fn(analysisCtx, graph.Build(tasks))
	})
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the dependency graph",
}

var analyzeCyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Report dependency cycles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGraph(cmd, func(ctx context.Context, g *graph.Graph) error {
			findings, err := g.DetectCycles(ctx)
			if err != nil {
				return err
			}
			if len(findings) == 0 {
				fmt.Println("No cycles detected.")
				return nil
			}
			for _, f := range findings {
				fmt.Printf("Cycle: %s\n", strings.Join(f.Cycle, " -> "))
			}
			return nil
		})
	},
}

var analyzeCriticalPathCmd = &cobra.Command{
	Use:   "critical-path",
	Short: "Show the maximum-effort chain of dependent tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGraph(cmd, func(ctx context.Context, g *graph.Graph) error {
			cp, err := g.FindCriticalPath(ctx)
			if err != nil {
				return err
			}
			if len(cp.TaskIDs) == 0 {
				fmt.Println("No critical path: no task is ready to start.")
				return nil
			}
			fmt.Printf("Critical path (%g points):\n", cp.TotalEffort)
			for i, id := range cp.TaskIDs {
				t, _ := g.Task(id)
				fmt.Printf("  %d. %s  %s (%g)\n", i+1, id, t.Title, t.Effort)
			}
			return nil
		})
	},
}

var analyzeBottlenecksCmd = &cobra.Command{
	Use:   "bottlenecks",
	Short: "Report tasks blocking many dependents",
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetInt("threshold")
		if !cmd.Flags().Changed("threshold") {
			threshold = GetConfig().Analysis.BottleneckThreshold
		}
		return withGraph(cmd, func(ctx context.Context, g *graph.Graph) error {
			bottlenecks := g.Bottlenecks(threshold)
			if len(bottlenecks) == 0 {
				fmt.Printf("No task blocks more than %d others.\n", threshold)
				return nil
			}
			for _, b := range bottlenecks {
				fmt.Printf("%s  %s  blocks %d task(s): %s\n",
					b.ID, b.Title, len(b.Blocked), strings.Join(b.Blocked, ", "))
			}
			return nil
		})
	},
}

var analyzeReadyCmd = &cobra.Command{
	Use:   "ready",
	Short: "List tasks that can be started right now, in parallel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGraph(cmd, func(ctx context.Context, g *graph.Graph) error {
			ready := g.Parallelizable()
			if len(ready) == 0 {
				fmt.Println("Nothing is ready to start.")
				return nil
			}
			for _, t := range ready {
				fmt.Printf("%s  %-8s  %s\n", t.ID, t.Priority, t.Title)
			}
			return nil
		})
	},
}

var analyzeOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print tasks in dependency order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGraph(cmd, func(ctx context.Context, g *graph.Graph) error {
			sorted, err := g.TopologicalSort(ctx)
			if err != nil {
				return err
			}
			for i, t := range sorted {
				fmt.Printf("%d. %s  %s\n", i+1, t.ID, t.Title)
			}
			return nil
		})
	},
}

func init() {
	analyzeBottlenecksCmd.Flags().Int("threshold", 0, "minimum number of blocked dependents")
	analyzeCmd.AddCommand(analyzeCyclesCmd)
	analyzeCmd.AddCommand(analyzeCriticalPathCmd)
	analyzeCmd.AddCommand(analyzeBottlenecksCmd)
	analyzeCmd.AddCommand(analyzeReadyCmd)
	analyzeCmd.AddCommand(analyzeOrderCmd)
	rootCmd.AddCommand(analyzeCmd)
}
