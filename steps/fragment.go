// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package steps

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

type tokenKind int

const (
	kindText tokenKind = iota
	kindStartTag
	kindEndTag
	kindSelfClosingTag
	kindOther // comments and doctypes
)

// token is a lexical HTML token located by byte offsets into the source
type token struct {
	kind       tokenKind
	name       string
	start, end int
}

// fragment is a tokenized HTML snippet. It is not a DOM: elements are located by
// pairing start and end tags, and every extracted value is a slice of the source,
// so markup is never re-rendered and entities are never decoded.
type fragment struct {
	src    string
	tokens []token
}

// element is a matched start tag and the byte range of its content. Child tokens lie
// in tokens[open+1:end]. close is the index of the end tag token, or -1 when the end
// tag was only found as literal text.
type element struct {
	open, close, end     int
	innerStart, innerEnd int
}

// literalCloseTags match end tags the way a plain pattern search sees them, including
// inside text the tokenizer folded into a malformed tag.
var literalCloseTags = map[string]*regexp.Regexp{
	"li": regexp.MustCompile(`(?i)</li>`),
	"ol": regexp.MustCompile(`(?i)</ol>`),
	"ul": regexp.MustCompile(`(?i)</ul>`),
	"p":  regexp.MustCompile(`(?i)</p>`),
}

// scan tokenizes src with the x/net/html tokenizer. The tokenizer's raw spans are
// contiguous, so summing their lengths yields each token's offset.
func scan(src string) *fragment {
	f := &fragment{src: src}
	z := html.NewTokenizer(strings.NewReader(src))

	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		n := len(z.Raw())
		tok := token{start: offset, end: offset + n}
		switch tt {
		case html.TextToken:
			tok.kind = kindText
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tok.name = string(name)
			switch tt {
			case html.StartTagToken:
				tok.kind = kindStartTag
				// Markup inside <script>, <textarea> and friends is still markup here.
				z.NextIsNotRawText()
			case html.EndTagToken:
				tok.kind = kindEndTag
			default:
				tok.kind = kindSelfClosingTag
			}
		default:
			tok.kind = kindOther
		}
		f.tokens = append(f.tokens, tok)
		offset += n
	}

	// An unterminated tag at the end of input is dropped by the tokenizer; keep it as text.
	if offset < len(src) {
		f.tokens = append(f.tokens, token{kind: kindText, start: offset, end: len(src)})
	}

	return f
}

// elements returns the outermost name elements whose tags lie in tokens[from:to], in
// document order. A literal end tag swallowed by a malformed tag, as in "a<b</li>",
// still closes the element; elements with no end tag at all are skipped.
func (f *fragment) elements(name string, from, to int) []element {
	var found []element
	for i := from; i < to; i++ {
		t := f.tokens[i]
		if t.kind != kindStartTag || t.name != name {
			continue
		}

		closeIdx := f.closing(i, to)
		if innerEnd, closeEnd, ok := f.literalClose(i, closeIdx, to); ok {
			end := i + 1
			for end < to && f.tokens[end].start < innerEnd {
				end++
			}
			found = append(found, element{open: i, close: -1, end: end, innerStart: t.end, innerEnd: innerEnd})
			for i+1 < to && f.tokens[i+1].start < closeEnd {
				i++
			}
			continue
		}
		if closeIdx < 0 {
			continue
		}

		found = append(found, element{
			open:       i,
			close:      closeIdx,
			end:        closeIdx,
			innerStart: t.end,
			innerEnd:   f.tokens[closeIdx].start,
		})
		i = closeIdx
	}
	return found
}

// literalClose looks for an end tag of tokens[open] that only exists as source text.
// Before a real end tag token it must sit inside another tag; with no end tag token
// any literal match up to tokens[to] counts.
func (f *fragment) literalClose(open, closeIdx, to int) (innerEnd, closeEnd int, ok bool) {
	pattern, known := literalCloseTags[f.tokens[open].name]
	if !known {
		return 0, 0, false
	}

	start := f.tokens[open].end
	limit := len(f.src)
	switch {
	case closeIdx >= 0:
		limit = f.tokens[closeIdx].start
	case to < len(f.tokens):
		limit = f.tokens[to].start
	}
	if start >= limit {
		return 0, 0, false
	}

	loc := pattern.FindStringIndex(f.src[start:limit])
	if loc == nil {
		return 0, 0, false
	}
	innerEnd, closeEnd = start+loc[0], start+loc[1]

	if closeIdx >= 0 && !f.insideTag(open+1, closeIdx, innerEnd) {
		return 0, 0, false
	}
	return innerEnd, closeEnd, true
}

// insideTag reports whether pos falls strictly within a start tag among tokens[from:to].
func (f *fragment) insideTag(from, to, pos int) bool {
	for i := from; i < to; i++ {
		t := f.tokens[i]
		if pos < t.start || pos >= t.end {
			continue
		}
		return pos > t.start && (t.kind == kindStartTag || t.kind == kindSelfClosingTag)
	}
	return false
}

// closing finds the end tag balancing tokens[open]. When the nesting never balances
// it falls back to the first end tag of the same name.
func (f *fragment) closing(open, to int) int {
	name := f.tokens[open].name
	depth := 0
	first := -1
	for i := open + 1; i < to; i++ {
		t := f.tokens[i]
		if t.name != name {
			continue
		}
		switch t.kind {
		case kindStartTag:
			depth++
		case kindEndTag:
			if first < 0 {
				first = i
			}
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return first
}

// innerHTML returns the untouched source between the element's tags
func (f *fragment) innerHTML(e element) string {
	return f.src[e.innerStart:e.innerEnd]
}

// innerText returns the element's text with every tag removed
func (f *fragment) innerText(e element) string {
	if e.close < 0 {
		// The content ends inside a token, so tokenize it on its own.
		return scan(f.innerHTML(e)).text()
	}

	var b strings.Builder
	for i := e.open + 1; i < e.close; i++ {
		t := f.tokens[i]
		if t.kind == kindText {
			b.WriteString(f.src[t.start:t.end])
		}
	}
	return b.String()
}

// text concatenates every text token
func (f *fragment) text() string {
	var b strings.Builder
	for _, t := range f.tokens {
		if t.kind == kindText {
			b.WriteString(f.src[t.start:t.end])
		}
	}
	return b.String()
}

// lineText replaces every tag, comment and doctype with a newline
func (f *fragment) lineText() string {
	var b strings.Builder
	for _, t := range f.tokens {
		if t.kind == kindText {
			b.WriteString(f.src[t.start:t.end])
		} else {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
