// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ordinalPrefix    = regexp.MustCompile(`^\d+[.)]\s`)
	stepNumberPrefix = regexp.MustCompile(`(?i)^step\s+\d+`)
)

// strategy is one extraction tier. ok reports whether the tier matched at all.
type strategy struct {
	tier    Tier
	extract func(f *fragment) (steps []Step, ok bool)
}

// strategies run in priority order; the first match wins and later tiers are never merged in.
var strategies = []strategy{
	{tier: TierOrderedList, extract: firstListItems("ol")},
	{tier: TierUnorderedList, extract: firstListItems("ul")},
	{tier: TierNumberedParagraphs, extract: numberedParagraphs},
	{tier: TierListItems, extract: allListItems},
	{tier: TierLines, extract: lines},
}

// Parse extracts participation steps from rich-text HTML. It never fails: input
// with no recognizable structure yields an empty list, and callers should then
// display the raw HTML instead.
func Parse(src string) []Step {
	steps, _ := ParseWithTier(src)
	return steps
}

// ParseWithTier is Parse that also reports which extraction tier produced the steps.
func ParseWithTier(src string) ([]Step, Tier) {
	if strings.TrimSpace(src) == "" {
		return []Step{}, TierNone
	}

	f := scan(src)
	for _, s := range strategies {
		if steps, ok := s.extract(f); ok {
			return steps, s.tier
		}
	}
	return []Step{}, TierNone
}

// firstListItems extracts the items of the first name list container.
func firstListItems(name string) func(f *fragment) ([]Step, bool) {
	return func(f *fragment) ([]Step, bool) {
		lists := f.elements(name, 0, len(f.tokens))
		if len(lists) == 0 {
			return nil, false
		}
		return listItems(f, lists[0].open+1, lists[0].end)
	}
}

// allListItems extracts every <li> in the input regardless of container
func allListItems(f *fragment) ([]Step, bool) {
	return listItems(f, 0, len(f.tokens))
}

func listItems(f *fragment, from, to int) ([]Step, bool) {
	var steps []Step
	for _, li := range f.elements("li", from, to) {
		rawHTML := strings.TrimSpace(f.innerHTML(li))
		content := strings.TrimSpace(f.innerText(li))
		// Items with markup but no text, e.g. a lone image, are still steps.
		if content == "" && rawHTML == "" {
			continue
		}
		steps = append(steps, newStep(len(steps), content, rawHTML, true))
	}
	return steps, len(steps) > 0
}

// numberedParagraphs keeps <p> blocks whose text starts with "1. ", "2) " or "Step 3".
// Titles here get no "Step <n>" fallback.
func numberedParagraphs(f *fragment) ([]Step, bool) {
	var steps []Step
	for _, p := range f.elements("p", 0, len(f.tokens)) {
		content := strings.TrimSpace(f.innerText(p))
		if content == "" {
			continue
		}
		if !ordinalPrefix.MatchString(content) && !stepNumberPrefix.MatchString(content) {
			continue
		}
		steps = append(steps, newStep(len(steps), content, strings.TrimSpace(f.innerHTML(p)), false))
	}
	return steps, len(steps) > 0
}

// lines is the last resort: every tag becomes a line break and each
// sufficiently long line is a step with no formatting preserved.
func lines(f *fragment) ([]Step, bool) {
	var steps []Step
	for _, line := range strings.Split(f.lineText(), "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minLineLength {
			continue
		}
		steps = append(steps, newStep(len(steps), line, line, false))
	}
	return steps, len(steps) > 0
}
