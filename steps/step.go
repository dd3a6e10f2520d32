// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

// Package steps turns admin-authored participation instructions (rich-text HTML)
// into an ordered list of discrete steps that per-user progress can be tracked against.
package steps

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

const (
	// maxTitleLength is the number of characters of plain text kept in a step title
	maxTitleLength = 50
	titleEllipsis  = "..."

	// minLineLength is the exclusive lower bound on line length for the line-splitting tier
	minLineLength = 10
)

// Step is a single participation step extracted from HTML.
// Index is the durable identity external progress records are keyed by.
type Step struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	HTML        string `json:"html"`
	Fingerprint string `json:"fingerprint"`
}

// Tier identifies which extraction strategy produced a step list.
type Tier int

const (
	TierNone Tier = iota
	TierOrderedList
	TierUnorderedList
	TierNumberedParagraphs
	TierListItems
	TierLines
)

func (t Tier) String() string {
	switch t {
	case TierOrderedList:
		return "ordered_list"
	case TierUnorderedList:
		return "unordered_list"
	case TierNumberedParagraphs:
		return "numbered_paragraphs"
	case TierListItems:
		return "list_items"
	case TierLines:
		return "lines"
	default:
		return "none"
	}
}

// newStep builds a step at the given index. When fallbackTitle is set an empty
// derived title is replaced by "Step <index+1>".
func newStep(index int, content, rawHTML string, fallbackTitle bool) Step {
	title := deriveTitle(content)
	if title == "" && fallbackTitle {
		title = "Step " + strconv.Itoa(index+1)
	}

	return Step{
		Index:       index,
		Title:       title,
		Content:     content,
		HTML:        rawHTML,
		Fingerprint: fingerprint(content, rawHTML),
	}
}

// deriveTitle takes the first line of text clipped to maxTitleLength characters.
// The ellipsis is decided on the length of the whole text, not just the first line.
func deriveTitle(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	title := clip(line, maxTitleLength)
	if utf8.RuneCountInString(text) > maxTitleLength {
		title += titleEllipsis
	}
	return title
}

// clip returns at most n runes of s
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func fingerprint(content, rawHTML string) string {
	d := xxhash.New()
	_, _ = d.WriteString(content)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(rawHTML)
	return fmt.Sprintf("%016x", d.Sum64())
}

// Fingerprint returns an order-sensitive digest of a whole step list. Two parses
// that would line up identically with index-keyed progress records share a fingerprint.
func Fingerprint(steps []Step) string {
	d := xxhash.New()
	for _, s := range steps {
		_, _ = d.WriteString(s.Fingerprint)
		_, _ = d.WriteString("\n")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
