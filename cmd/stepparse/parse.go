// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-plugin-airdrops/config"
	"github.com/mattermost/mattermost-plugin-airdrops/steps"
)

type parseResult struct {
	Tier        string       `json:"tier"`
	Fingerprint string       `json:"fingerprint"`
	Steps       []steps.Step `json:"steps"`
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the participation steps found in an HTML file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			stepList, tier := a.parser.ParseWithTier(input)
			a.log.Info("Parsed participation steps", "tier", tier.String(), "steps", len(stepList))

			out := cmd.OutOrStdout()
			if a.cfg.OutputFormat == config.OutputFormatJSON {
				return writeJSON(out, parseResult{
					Tier:        tier.String(),
					Fingerprint: steps.Fingerprint(stepList),
					Steps:       stepList,
				})
			}

			// Without structured steps the raw HTML is the only faithful rendering.
			if len(stepList) == 0 {
				_, err := fmt.Fprintln(out, input)
				return err
			}
			for _, s := range stepList {
				if _, err := fmt.Fprintf(out, "%d. %s\n", s.Index+1, s.Title); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
