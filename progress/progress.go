// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

// Package progress overlays index-keyed completion records onto parsed
// participation steps. Storage of the records is owned by the caller.
package progress

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mattermost/mattermost-plugin-airdrops/steps"
)

var (
	ErrInvalidStepIndex = errors.New("invalid step index")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Status is the lifecycle of a user's tracked airdrop
type Status string

const (
	StatusTracking   Status = "tracking"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus accepts the exact lowercase status names.
func ParseStatus(s string) (Status, error) {
	switch status := Status(s); status {
	case StatusTracking, StatusInProgress, StatusCompleted:
		return status, nil
	default:
		return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
	}
}

// Record is a persisted completion entry. StepTitle and StepFingerprint are
// snapshots taken when the record was created so history keeps its label, and
// edits to the source HTML can be detected.
type Record struct {
	ID              string     `json:"id"`
	StepIndex       int        `json:"stepIndex"`
	StepTitle       string     `json:"stepTitle"`
	StepFingerprint string     `json:"stepFingerprint,omitempty"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completedAt"`
	Notes           string     `json:"notes,omitempty"`
}

// StepProgress is a parsed step with its completion state
type StepProgress struct {
	steps.Step
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Notes       string     `json:"notes,omitempty"`
}

type Checklist struct {
	Steps          []StepProgress `json:"steps"`
	TotalSteps     int            `json:"totalSteps"`
	CompletedSteps int            `json:"completedSteps"`
}

// Structured reports whether any steps were extracted. When false the caller
// should render the raw participation HTML instead of a checklist.
func (c Checklist) Structured() bool {
	return len(c.Steps) > 0
}

// BuildChecklist overlays records onto stepList by index. Records pointing past the
// end of stepList are not shown but still count towards CompletedSteps.
func BuildChecklist(stepList []steps.Step, records []Record) Checklist {
	byIndex := make(map[int]Record, len(records))
	completed := 0
	for _, r := range records {
		byIndex[r.StepIndex] = r
		if r.Completed {
			completed++
		}
	}

	items := make([]StepProgress, 0, len(stepList))
	for _, s := range stepList {
		item := StepProgress{Step: s}
		if r, ok := byIndex[s.Index]; ok {
			item.Completed = r.Completed
			item.CompletedAt = r.CompletedAt
			item.Notes = r.Notes
		}
		items = append(items, item)
	}

	return Checklist{
		Steps:          items,
		TotalSteps:     len(stepList),
		CompletedSteps: completed,
	}
}

// Update is a request to mark a step complete or incomplete
type Update struct {
	StepIndex int    `json:"stepIndex"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// Apply upserts the record for update.StepIndex and returns the new record list
// along with the affected record. records is not modified. A new record snapshots
// the step's current title; an existing record keeps its original snapshot.
func Apply(stepList []steps.Step, records []Record, update Update, now time.Time) ([]Record, Record, error) {
	if update.StepIndex < 0 || update.StepIndex >= len(stepList) {
		return nil, Record{}, errors.Wrapf(ErrInvalidStepIndex, "step %d of %d", update.StepIndex, len(stepList))
	}

	var completedAt *time.Time
	if update.Completed {
		at := now
		completedAt = &at
	}

	out := make([]Record, len(records), len(records)+1)
	copy(out, records)

	for i := range out {
		if out[i].StepIndex != update.StepIndex {
			continue
		}
		out[i].Completed = update.Completed
		out[i].CompletedAt = completedAt
		out[i].Notes = update.Notes
		return out, out[i], nil
	}

	step := stepList[update.StepIndex]
	record := Record{
		ID:              uuid.NewString(),
		StepIndex:       update.StepIndex,
		StepTitle:       step.Title,
		StepFingerprint: step.Fingerprint,
		Completed:       update.Completed,
		CompletedAt:     completedAt,
		Notes:           update.Notes,
	}
	out = append(out, record)

	return out, record, nil
}

// CountCompleted returns the number of completed records
func CountCompleted(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Completed {
			n++
		}
	}
	return n
}

// NextStatus derives the tracked airdrop status after a progress change.
// Once completed, a status is not downgraded by unchecking a step.
func NextStatus(current Status, completedSteps, totalSteps int) Status {
	next := current
	if completedSteps > 0 && next == StatusTracking {
		next = StatusInProgress
	}
	if completedSteps == totalSteps && totalSteps > 0 {
		next = StatusCompleted
	}
	return next
}
