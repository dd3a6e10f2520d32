// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_OffsetsCoverSource(t *testing.T) {
	inputs := []string{
		"<ol><li>One</li></ol>",
		"<!DOCTYPE html><p class=\"x\">Text &amp; more</p><!-- c --><br/>",
		"plain text only",
		"<script>if (a < b) {}</script><li>after</li>",
	}

	for _, input := range inputs {
		f := scan(input)
		var b strings.Builder
		prevEnd := 0
		for _, tok := range f.tokens {
			assert.Equal(t, prevEnd, tok.start)
			b.WriteString(input[tok.start:tok.end])
			prevEnd = tok.end
		}
		assert.Equal(t, input, b.String())
	}
}

func TestScan_TokenKinds(t *testing.T) {
	f := scan(`<UL><li>a</li><img src="x"/><!-- c --></UL>`)

	kinds := make([]tokenKind, 0, len(f.tokens))
	names := make([]string, 0, len(f.tokens))
	for _, tok := range f.tokens {
		kinds = append(kinds, tok.kind)
		names = append(names, tok.name)
	}

	assert.Equal(t, []tokenKind{kindStartTag, kindStartTag, kindText, kindEndTag, kindSelfClosingTag, kindOther, kindEndTag}, kinds)
	assert.Equal(t, []string{"ul", "li", "", "li", "img", "", "ul"}, names)
}

func TestFragment_Elements(t *testing.T) {
	f := scan("<li>a</li><div><li>b<li>c</li></li></div><li>unclosed")

	found := f.elements("li", 0, len(f.tokens))

	require.Len(t, found, 2)
	assert.Equal(t, "a", f.innerHTML(found[0]))
	assert.Equal(t, "b<li>c</li>", f.innerHTML(found[1]))
	assert.Equal(t, "bc", f.innerText(found[1]))
}

func TestFragment_LineText(t *testing.T) {
	f := scan("<p>one</p>two<br>three")

	assert.Equal(t, "\none\ntwo\nthree", f.lineText())
}

func TestFragment_ElementsLiteralClose(t *testing.T) {
	f := scan("<ol><li>one</li><li>two<x</ol>")

	lists := f.elements("ol", 0, len(f.tokens))
	require.Len(t, lists, 1)
	assert.Equal(t, -1, lists[0].close)
	assert.Equal(t, "<li>one</li><li>two<x", f.innerHTML(lists[0]))

	items := f.elements("li", lists[0].open+1, lists[0].end)
	require.Len(t, items, 1)
	assert.Equal(t, "one", f.innerText(items[0]))
}
