// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-plugin-airdrops/config"
	"github.com/mattermost/mattermost-plugin-airdrops/progress"
)

type markResult struct {
	Record         progress.Record   `json:"record"`
	Records        []progress.Record `json:"records"`
	Status         progress.Status   `json:"status"`
	CompletedSteps int               `json:"completedSteps"`
	TotalSteps     int               `json:"totalSteps"`
}

func newMarkCmd(a *app) *cobra.Command {
	var (
		progressPath string
		stepNumber   int
		undo         bool
		notes        string
		status       string
	)

	cmd := &cobra.Command{
		Use:   "mark [file]",
		Short: "Mark a step complete and print the updated progress records",
		Long: `Marks a step complete (or incomplete with --undo) against the steps parsed
from the HTML input. The updated record list is printed; the progress file is
never written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := progress.ParseStatus(status)
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			records, err := loadRecords(progressPath)
			if err != nil {
				return err
			}

			stepList := a.parser.Parse(input)
			update := progress.Update{
				StepIndex: stepNumber - 1,
				Completed: !undo,
				Notes:     notes,
			}
			records, record, err := progress.Apply(stepList, records, update, time.Now().UTC())
			if err != nil {
				return err
			}

			completed := progress.CountCompleted(records)
			next := progress.NextStatus(current, completed, len(stepList))
			a.log.Info("Updated step progress", "step", stepNumber, "completed", record.Completed, "status", string(next))

			out := cmd.OutOrStdout()
			if a.cfg.OutputFormat == config.OutputFormatJSON {
				return writeJSON(out, markResult{
					Record:         record,
					Records:        records,
					Status:         next,
					CompletedSteps: completed,
					TotalSteps:     len(stepList),
				})
			}

			state := "complete"
			if !record.Completed {
				state = "incomplete"
			}
			_, err = fmt.Fprintf(out, "Step %d (%s) marked %s; status %s (%d/%d)\n",
				stepNumber, record.StepTitle, state, next, completed, len(stepList))
			return err
		},
	}

	cmd.Flags().StringVarP(&progressPath, "progress", "p", "", "Path to a JSON array of progress records")
	cmd.Flags().IntVarP(&stepNumber, "step", "s", 0, "Step number to mark, starting at 1")
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the step incomplete instead")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes to store with the step")
	cmd.Flags().StringVar(&status, "status", string(progress.StatusTracking), "Current tracking status: tracking, in_progress or completed")
	_ = cmd.MarkFlagRequired("step")

	return cmd
}
