// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package progress

import (
	"sort"

	"github.com/mattermost/mattermost-plugin-airdrops/steps"
)

type DriftKind string

const (
	// DriftMissingStep means the record's index no longer exists in the parsed steps
	DriftMissingStep DriftKind = "missing_step"
	// DriftTitleChanged means the step at the record's index now has a different title
	DriftTitleChanged DriftKind = "title_changed"
	// DriftContentChanged means the title still matches but the step's content or
	// markup differs from when the record was created
	DriftContentChanged DriftKind = "content_changed"
)

// Drift describes a record that no longer lines up with the current steps,
// typically because the participation HTML was edited after progress was recorded.
type Drift struct {
	Kind         DriftKind `json:"kind"`
	StepIndex    int       `json:"stepIndex"`
	RecordTitle  string    `json:"recordTitle"`
	CurrentTitle string    `json:"currentTitle,omitempty"`
}

// DetectDrift compares the snapshots in records with stepList. A title change
// takes precedence over a content change; records without a fingerprint are
// only checked by title. Results are ordered by step index.
func DetectDrift(stepList []steps.Step, records []Record) []Drift {
	var drift []Drift
	for _, r := range records {
		if r.StepIndex < 0 || r.StepIndex >= len(stepList) {
			drift = append(drift, Drift{
				Kind:        DriftMissingStep,
				StepIndex:   r.StepIndex,
				RecordTitle: r.StepTitle,
			})
			continue
		}

		current := stepList[r.StepIndex]
		switch {
		case r.StepTitle != current.Title:
			drift = append(drift, Drift{
				Kind:         DriftTitleChanged,
				StepIndex:    r.StepIndex,
				RecordTitle:  r.StepTitle,
				CurrentTitle: current.Title,
			})
		case r.StepFingerprint != "" && r.StepFingerprint != current.Fingerprint:
			drift = append(drift, Drift{
				Kind:         DriftContentChanged,
				StepIndex:    r.StepIndex,
				RecordTitle:  r.StepTitle,
				CurrentTitle: current.Title,
			})
		}
	}

	sort.SliceStable(drift, func(i, j int) bool {
		return drift[i].StepIndex < drift[j].StepIndex
	})

	return drift
}
