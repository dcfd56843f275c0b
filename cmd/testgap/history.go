package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/testgap"
	"github.com/jward/testgap/internal/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded audit runs",
		Long:  "Lists runs recorded with --history, newest first. With a run ID, shows that run's modules and missing test cases.",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.History == "" {
				return &usageError{cmd: cmd, err: errors.New("--history is required")}
			}

			s, err := store.Open(cfg.History)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			defer s.Close()

			if len(args) == 1 {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return &usageError{cmd: cmd, err: fmt.Errorf("invalid run id %q", args[0])}
				}
				run, err := s.RunByID(id)
				if err != nil {
					return fmt.Errorf("history: %w", err)
				}
				if run == nil {
					return fmt.Errorf("history: run %d not found", id)
				}
				return a.output(cfg.Format, CLIResult{Command: "history", Results: toCLIRun(run)})
			}

			runs, err := s.Runs(limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			cliRuns := make([]CLIRun, 0, len(runs))
			for _, r := range runs {
				cliRuns = append(cliRuns, toCLIRun(r))
			}
			return a.output(cfg.Format, CLIResult{Command: "history", Results: cliRuns})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0 for all)")
	return cmd
}

// toStoreRun converts an audit summary into a history record.
func toStoreRun(start time.Time, s *testgap.RunSummary) *store.Run {
	run := &store.Run{
		StartedAt:          start.UTC(),
		ModuleFolder:       s.ModuleFolder,
		TestsFolder:        s.TestsFolder,
		ModulesMissingFile: s.ModulesMissingFile,
		MissingTests:       s.MissingTests,
		TotalFunctions:     s.TotalFunctions,
	}
	for _, m := range s.Modules {
		run.Modules = append(run.Modules, store.ModuleRecord{
			Module:        m.Name,
			MissingFile:   m.MissingFile,
			MissingTests:  m.MissingTests,
			FunctionCount: len(m.Functions),
			Missing:       m.Missing,
		})
	}
	return run
}
