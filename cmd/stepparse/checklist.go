// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-plugin-airdrops/config"
	"github.com/mattermost/mattermost-plugin-airdrops/progress"
)

type checklistResult struct {
	progress.Checklist
	Drift []progress.Drift `json:"drift"`
}

func newChecklistCmd(a *app) *cobra.Command {
	var progressPath string

	cmd := &cobra.Command{
		Use:   "checklist [file]",
		Short: "Overlay stored progress records onto the parsed steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			records, err := loadRecords(progressPath)
			if err != nil {
				return err
			}

			stepList := a.parser.Parse(input)
			checklist := progress.BuildChecklist(stepList, records)
			drift := progress.DetectDrift(stepList, records)
			if len(drift) > 0 {
				a.log.Warn("Progress records no longer match participation steps", "drifted", len(drift))
			}

			out := cmd.OutOrStdout()
			if a.cfg.OutputFormat == config.OutputFormatJSON {
				if drift == nil {
					drift = []progress.Drift{}
				}
				return writeJSON(out, checklistResult{Checklist: checklist, Drift: drift})
			}

			if !checklist.Structured() {
				_, err := fmt.Fprintln(out, input)
				return err
			}
			for _, item := range checklist.Steps {
				mark := " "
				if item.Completed {
					mark = "x"
				}
				if _, err := fmt.Fprintf(out, "[%s] %d. %s\n", mark, item.Index+1, item.Title); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "%d/%d completed\n", checklist.CompletedSteps, checklist.TotalSteps); err != nil {
				return err
			}
			for _, d := range drift {
				if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "warning: step %d %s (recorded as %q)\n", d.StepIndex+1, d.Kind, d.RecordTitle); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&progressPath, "progress", "p", "", "Path to a JSON array of progress records")

	return cmd
}
