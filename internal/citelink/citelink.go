// Package citelink rewrites IETF RFC and Internet-Draft citations found in
// plain text into hyperlinks targeting the cited document and, when the
// citation names a section or appendix, the matching in-document anchor.
//
// Input is untrusted prose; it is HTML-escaped exactly once before matching,
// so the returned markup contains no tags other than the anchors generated
// here and is safe to inject into templates without further escaping.
package citelink

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// Style selects which document host's URL convention generated links follow.
type Style string

const (
	// StyleDatatracker links both RFCs and drafts to
	// https://datatracker.ietf.org/doc/html/.
	StyleDatatracker Style = "datatracker"
	// StyleRFCEditor links RFCs to https://www.rfc-editor.org/rfc/rfcN.html.
	// Drafts are not published there and always go to datatracker.
	StyleRFCEditor Style = "rfc-editor"
)

// citationRE recognizes an RFC number (RFC 5322 / rfc5322) or a draft slug
// (draft-ietf-dmarc-base-11), optionally followed by a section marker
// (§, §§, or the word "section") and a conservative section token that may
// continue across '.'- and '-'-joined sub-tokens (4.1.2, A.1, 3.4-3.6).
//
// Group 1: RFC number. Group 2: draft identifier. Group 3: section token.
// Group 4: the terminator character, consumed here because RE2 has no
// lookahead; it is re-emitted after the closing </a> so citations keep
// standard leftmost, non-overlapping substitution semantics. The leading \b
// keeps matches from starting inside a larger word. Character classes are
// bounded, so matching stays linear on adversarial inputs.
var citationRE = regexp.MustCompile(`(?i)\b` +
	`(?:RFC\s*(\d+)|(draft-[a-z0-9][a-z0-9-]*?(?:-\d{2})?))` +
	`(?:\s*,?\s*(?:§{1,2}|section)\s*` +
	`([^\s\]\),;:.]+(?:\.[^\s\]\),;:.]+)*(?:-[^\s\]\),;:.]+)*))?` +
	`([\s\]\),;:.]|$)`)

// Linker turns citations into links. The zero value links datatracker-style.
// Linkers are stateless and safe for concurrent use.
type Linker struct {
	style Style
}

// New returns a Linker for the given host style. Unknown styles fall back to
// datatracker.
func New(style Style) Linker {
	if style != StyleRFCEditor {
		style = StyleDatatracker
	}
	return Linker{style: style}
}

// Link HTML-escapes text, then replaces every citation with an anchor tag.
// The visible link text is the exact original span (escaped); everything
// between citations passes through untouched. Text with no citations comes
// back as its escaped self.
func (l Linker) Link(text string) template.HTML {
	escaped := html.EscapeString(text)
	matches := citationRE.FindAllStringSubmatchIndex(escaped, -1)
	if len(matches) == 0 {
		return template.HTML(escaped)
	}

	var b strings.Builder
	b.Grow(len(escaped) + 64*len(matches))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		b.WriteString(escaped[last:start])

		rfcNum := submatch(escaped, m, 1)
		draftID := submatch(escaped, m, 2)
		section := submatch(escaped, m, 3)
		terminator := submatch(escaped, m, 4)

		href := l.baseURL(rfcNum, draftID)
		if section != "" {
			href += "#" + sectionFragment(section)
		}

		// The terminator stays outside the anchor; it is trailing prose
		// punctuation, not part of the citation.
		visible := escaped[start : end-len(terminator)]
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, href, visible)
		b.WriteString(terminator)
		last = end
	}
	b.WriteString(escaped[last:])
	return template.HTML(b.String())
}

// baseURL builds the document-root URL. Exactly one of rfcNum/draftID is
// non-empty. Draft identifiers are lowercased for the URL only; the visible
// text keeps the author's casing.
func (l Linker) baseURL(rfcNum, draftID string) string {
	if rfcNum != "" {
		if l.style == StyleRFCEditor {
			return "https://www.rfc-editor.org/rfc/rfc" + rfcNum + ".html"
		}
		return "https://datatracker.ietf.org/doc/html/rfc" + rfcNum
	}
	return "https://datatracker.ietf.org/doc/html/" + strings.ToLower(draftID)
}

// submatch returns capture group n of a FindAllStringSubmatchIndex entry, or
// "" when the group did not participate.
func submatch(s string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
