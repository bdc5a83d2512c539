/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josephgoksu/TaskGraph/internal/admission"
	"github.com/josephgoksu/TaskGraph/internal/guard"
	"github.com/josephgoksu/TaskGraph/store"
	"github.com/josephgoksu/TaskGraph/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "taskgraph",
	Version: version,
	Short:   "TaskGraph tracks work items whose status is constrained by dependencies.",
	Long: `TaskGraph persists a graph of tasks whose status transitions are guarded
by dependency edges. It stores one record per task, survives concurrent
writers and abrupt termination, and answers structural questions about
the graph: cycles, critical path, bottlenecks, what can start now.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printEngineError(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.taskgraph.yaml or $HOME/.taskgraph.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// StoreRoot returns the directory holding the record store.
func StoreRoot() string {
	cfg := GetConfig()
	return filepath.Join(cfg.Project.RootDir, cfg.Project.TasksDir)
}

// GetStore opens the record store using the loaded configuration.
func GetStore() (*store.FileRecordStore, error) {
	cfg := GetConfig()
	s, err := store.Open(store.Options{
		Root:          StoreRoot(),
		Format:        cfg.Data.Format,
		LockTimeout:   time.Duration(cfg.Locking.TimeoutSeconds) * time.Second,
		RetryInterval: time.Duration(cfg.Locking.RetryIntervalMillis) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", StoreRoot(), err)
	}
	return s, nil
}

// GetGuard opens the store and wraps it in a transition guard.
func GetGuard() (*guard.Guard, *store.FileRecordStore, error) {
	s, err := GetStore()
	if err != nil {
		return nil, nil, err
	}
	cfg := GetConfig()
	g := guard.New(s, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
	return g, s, nil
}

// GetGate returns the admission gate for expensive operations.
func GetGate() *admission.Gate {
	cfg := GetConfig()
	return admission.New(cfg.Admission.MaxConcurrent,
		time.Duration(cfg.Admission.WaitTimeoutSeconds)*time.Second)
}

// printEngineError renders engine failures as user-facing messages.
// Every documented error code reaches the user as an explanation of the
// violated invariant, never as a crash.
func printEngineError(err error) {
	var ee *types.EngineError
	if errors.As(err, &ee) {
		fmt.Fprintf(os.Stderr, "Error [%s]: %s\n", ee.Code, ee.Message)
		if types.IsRetryable(err) {
			fmt.Fprintln(os.Stderr, "This failure is transient; retrying may succeed.")
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
