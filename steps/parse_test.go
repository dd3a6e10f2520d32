// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(steps []Step) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Title)
	}
	return out
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		steps, tier := ParseWithTier(input)
		assert.Empty(t, steps)
		assert.NotNil(t, steps)
		assert.Equal(t, TierNone, tier)
	}
}

func TestParse_OrderedList(t *testing.T) {
	steps, tier := ParseWithTier("<ol><li>Follow on Twitter</li><li>Join Discord</li></ol>")

	require.Len(t, steps, 2)
	assert.Equal(t, TierOrderedList, tier)

	assert.Equal(t, 0, steps[0].Index)
	assert.Equal(t, "Follow on Twitter", steps[0].Title)
	assert.Equal(t, "Follow on Twitter", steps[0].Content)
	assert.Equal(t, "Follow on Twitter", steps[0].HTML)

	assert.Equal(t, 1, steps[1].Index)
	assert.Equal(t, "Join Discord", steps[1].Title)
	assert.Equal(t, "Join Discord", steps[1].Content)
	assert.Equal(t, "Join Discord", steps[1].HTML)
}

func TestParse_OrderedListWinsOverUnordered(t *testing.T) {
	input := `<ul><li>Bookmark the site</li></ul><ol class="steps"><li>Bridge ETH</li><li>Swap on the DEX</li></ol>`

	steps, tier := ParseWithTier(input)

	assert.Equal(t, TierOrderedList, tier)
	assert.Equal(t, []string{"Bridge ETH", "Swap on the DEX"}, titles(steps))
	for _, s := range steps {
		assert.NotContains(t, s.HTML, "Bookmark")
	}
}

func TestParse_UnorderedListWhenOrderedListEmpty(t *testing.T) {
	steps, tier := ParseWithTier("<ol></ol><ul><li>Claim faucet</li></ul>")

	assert.Equal(t, TierUnorderedList, tier)
	assert.Equal(t, []string{"Claim faucet"}, titles(steps))
}

func TestParse_TitleTruncation(t *testing.T) {
	text := strings.Repeat("a", 80)

	steps := Parse("<ol><li>" + text + "</li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, strings.Repeat("a", 50)+"...", steps[0].Title)
	assert.Equal(t, text, steps[0].Content)
}

func TestParse_ImageOnlyItemRetained(t *testing.T) {
	steps := Parse("<ol><li><img src='x.png'/></li></ol>")

	require.Len(t, steps, 1)
	assert.Empty(t, strings.TrimSpace(steps[0].Content))
	assert.Contains(t, steps[0].HTML, "<img src='x.png'/>")
	assert.Equal(t, "Step 1", steps[0].Title)
}

func TestParse_FallbackTitleUsesPosition(t *testing.T) {
	steps := Parse(`<ol><li>Connect wallet</li><li><img src="qr.png"></li></ol>`)

	require.Len(t, steps, 2)
	assert.Equal(t, "Step 2", steps[1].Title)
	assert.Equal(t, 1, steps[1].Index)
}

func TestParse_BlankItemsDropped(t *testing.T) {
	steps := Parse("<ol><li>   </li><li></li><li>Real step</li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, 0, steps[0].Index)
	assert.Equal(t, "Real step", steps[0].Title)
}

func TestParse_NestedMarkupPreserved(t *testing.T) {
	input := `<ol><li>Follow <a href="https://x.com/proj">@proj</a> <strong>now</strong></li></ol>`

	steps := Parse(input)

	require.Len(t, steps, 1)
	assert.Equal(t, "Follow @proj now", steps[0].Content)
	assert.Equal(t, `Follow <a href="https://x.com/proj">@proj</a> <strong>now</strong>`, steps[0].HTML)
}

func TestParse_HTMLTrimmedAtBoundaries(t *testing.T) {
	input := "<ol>\n  <li>\n    Stake tokens\n  </li>\n  <li>Vote</li>\n</ol>"

	steps := Parse(input)

	require.Len(t, steps, 2)
	assert.Equal(t, "Stake tokens", steps[0].HTML)
	assert.Equal(t, "Stake tokens", steps[0].Content)
}

func TestParse_NestedListStaysInParentItem(t *testing.T) {
	input := "<ol><li>Parent<ul><li>Child</li></ul></li><li>Next</li></ol>"

	steps := Parse(input)

	require.Len(t, steps, 2)
	assert.Equal(t, "Parent<ul><li>Child</li></ul>", steps[0].HTML)
	assert.Equal(t, "ParentChild", steps[0].Content)
	assert.Equal(t, "Next", steps[1].Title)
}

func TestParse_UnclosedItemMatchesFirstCloseTag(t *testing.T) {
	steps := Parse("<ol><li>a<li>b</li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, "a<li>b", steps[0].HTML)
	assert.Equal(t, "ab", steps[0].Content)
}

func TestParse_TagNamesAreExact(t *testing.T) {
	input := `<link rel="stylesheet" href="a.css"><p>Read the announcement thread</p>`

	steps, tier := ParseWithTier(input)

	assert.Equal(t, TierLines, tier)
	assert.Equal(t, []string{"Read the announcement thread"}, titles(steps))
}

func TestParse_CaseInsensitiveTags(t *testing.T) {
	steps, tier := ParseWithTier("<OL><LI>Upper case markup</LI></OL>")

	assert.Equal(t, TierOrderedList, tier)
	assert.Equal(t, []string{"Upper case markup"}, titles(steps))
}

func TestParse_EntitiesAreNotDecoded(t *testing.T) {
	steps := Parse("<ol><li>Tom &amp; Jerry</li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, "Tom &amp; Jerry", steps[0].Content)
}

func TestParse_CommentsStripped(t *testing.T) {
	steps := Parse("<ol><li>Mint the NFT<!-- before Friday --></li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, "Mint the NFT", steps[0].Content)
	assert.Contains(t, steps[0].HTML, "<!-- before Friday -->")
}

func TestParse_MultiLineTitle(t *testing.T) {
	steps := Parse("<ol><li>Claim\nthe reward</li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, "Claim", steps[0].Title)
	assert.Equal(t, "Claim\nthe reward", steps[0].Content)
}

func TestParse_NumberedParagraphs(t *testing.T) {
	input := "<p>1. Do X</p><p>2. Do Y</p><p>Unrelated note</p>"

	steps, tier := ParseWithTier(input)

	assert.Equal(t, TierNumberedParagraphs, tier)
	assert.Equal(t, []string{"1. Do X", "2. Do Y"}, titles(steps))
	assert.Equal(t, 0, steps[0].Index)
	assert.Equal(t, 1, steps[1].Index)
}

func TestParse_NumberedParagraphMarkers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "parenthesis marker",
			input:    "<p>1) Open the app</p><p>2) Sign in</p>",
			expected: []string{"1) Open the app", "2) Sign in"},
		},
		{
			name:     "step prefix any case",
			input:    "<p>STEP 1 - Register</p><p>step 2: Verify email</p>",
			expected: []string{"STEP 1 - Register", "step 2: Verify email"},
		},
		{
			name:     "marker inside formatting",
			input:    "<p><strong>1.</strong> Deposit USDC</p>",
			expected: []string{"1. Deposit USDC"},
		},
		{
			name:     "multi digit",
			input:    "<p>10. Final check</p>",
			expected: []string{"10. Final check"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, tier := ParseWithTier(tt.input)
			assert.Equal(t, TierNumberedParagraphs, tier)
			assert.Equal(t, tt.expected, titles(steps))
		})
	}
}

func TestParse_NumberedParagraphKeepsInnerHTML(t *testing.T) {
	steps := Parse(`<p>1. Visit <a href="https://example.com">the site</a></p>`)

	require.Len(t, steps, 1)
	assert.Equal(t, `1. Visit <a href="https://example.com">the site</a>`, steps[0].HTML)
	assert.Equal(t, "1. Visit the site", steps[0].Content)
}

func TestParse_MarkerWithoutSpaceIsNotNumbered(t *testing.T) {
	_, tier := ParseWithTier("<p>1.5x multiplier for early users</p>")

	assert.Equal(t, TierLines, tier)
}

func TestParse_NumberedParagraphsBeatBareListItems(t *testing.T) {
	_, tier := ParseWithTier("<p>1. First</p><li>Loose item</li>")

	assert.Equal(t, TierNumberedParagraphs, tier)
}

func TestParse_BareListItems(t *testing.T) {
	steps, tier := ParseWithTier("<div><li>Stray one</li><li>Stray two</li></div>")

	assert.Equal(t, TierListItems, tier)
	assert.Equal(t, []string{"Stray one", "Stray two"}, titles(steps))
}

func TestParse_OnlyFirstListContainerIsConsidered(t *testing.T) {
	steps, tier := ParseWithTier("<ol></ol><ol><li>Second list item</li></ol>")

	assert.Equal(t, TierListItems, tier)
	assert.Equal(t, []string{"Second list item"}, titles(steps))
}

func TestParse_LineSplitting(t *testing.T) {
	input := "Connect your wallet to the app\nok\n\n  Bridge funds to mainnet  "

	steps, tier := ParseWithTier(input)

	assert.Equal(t, TierLines, tier)
	require.Len(t, steps, 2)
	for i, s := range steps {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, s.Content, s.Title)
		assert.Equal(t, s.Content, s.HTML)
	}
	assert.Equal(t, "Connect your wallet to the app", steps[0].Content)
	assert.Equal(t, "Bridge funds to mainnet", steps[1].Content)
}

func TestParse_LineSplittingReplacesTags(t *testing.T) {
	input := "<div>Short</div><div>Exactly10!</div><h3>Provide liquidity</h3><br>Hold until snapshot"

	steps := Parse(input)

	assert.Equal(t, []string{"Provide liquidity", "Hold until snapshot"}, titles(steps))
}

func TestParse_LineSplittingLongLineTitle(t *testing.T) {
	line := strings.Repeat("b", 60)

	steps := Parse(line)

	require.Len(t, steps, 1)
	assert.Equal(t, strings.Repeat("b", 50)+"...", steps[0].Title)
	assert.Equal(t, line, steps[0].HTML)
}

func TestParse_NothingExtractable(t *testing.T) {
	steps, tier := ParseWithTier("<div>tiny</div><span>bits</span>")

	assert.Empty(t, steps)
	assert.Equal(t, TierNone, tier)
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"<ol><li>Follow on Twitter</li><li><img src='x.png'/></li></ol>",
		"<p>1. Do X</p><p>2. Do Y</p>",
		"A long enough line\nAnother long enough line",
	}

	for _, input := range inputs {
		first := Parse(input)
		second := Parse(input)
		assert.Equal(t, first, second)
		assert.Equal(t, Fingerprint(first), Fingerprint(second))
	}
}

func TestParse_DoesNotMutateInput(t *testing.T) {
	input := "<OL><LI>Keep my case</LI></OL>"
	original := strings.Clone(input)

	_ = Parse(input)

	assert.Equal(t, original, input)
}

func TestParse_RawTextElementsStillStripped(t *testing.T) {
	t.Run("textarea on the line tier", func(t *testing.T) {
		steps, tier := ParseWithTier("<textarea>Bridge your <b>ETH</b> over to mainnet now</textarea>")

		assert.Equal(t, TierLines, tier)
		assert.Equal(t, []string{"Bridge your", "over to mainnet now"}, titles(steps))
		for _, s := range steps {
			assert.NotContains(t, s.Content, "<")
		}
	})

	t.Run("script inside an item", func(t *testing.T) {
		steps, tier := ParseWithTier(`<ol><li>Claim <script>track("<b>x</b>")</script>reward</li></ol>`)

		require.Len(t, steps, 1)
		assert.Equal(t, TierOrderedList, tier)
		assert.Equal(t, `Claim track("x")reward`, steps[0].Content)
	})

	t.Run("unclosed textarea does not hide the list", func(t *testing.T) {
		steps, tier := ParseWithTier("<textarea>notes<ol><li>Step A</li></ol>")

		assert.Equal(t, TierOrderedList, tier)
		assert.Equal(t, []string{"Step A"}, titles(steps))
	})
}

func TestParse_UnescapedAngleBracketInItem(t *testing.T) {
	steps, tier := ParseWithTier("<ol><li>x a<b</li></ol>")

	require.Len(t, steps, 1)
	assert.Equal(t, TierOrderedList, tier)
	assert.Equal(t, "x a<b", steps[0].Title)
	assert.Equal(t, "x a<b", steps[0].Content)
	assert.Equal(t, "x a<b", steps[0].HTML)
}

func TestParse_UnescapedAngleBracketKeepsLaterItems(t *testing.T) {
	steps, tier := ParseWithTier("<ul><li>Hold 5<b</li><li>Vote on a proposal</li></ul>")

	assert.Equal(t, TierUnorderedList, tier)
	assert.Equal(t, []string{"Hold 5<b", "Vote on a proposal"}, titles(steps))
}
