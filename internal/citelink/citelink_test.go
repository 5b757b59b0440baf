package citelink

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLink_RFCWithoutSection(t *testing.T) {
	got := New(StyleDatatracker).Link("RFC 5322")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc5322">RFC 5322</a>`,
		string(got))
}

func TestLink_CompactRFCWithSectionAndTrailingPeriod(t *testing.T) {
	got := New(StyleDatatracker).Link("RFC9116 section 2.1.2.")
	// The trailing period is prose punctuation: excluded from the anchor and
	// from the link text, re-emitted after the closing tag.
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc9116#section-2.1.2">RFC9116 section 2.1.2</a>.`,
		string(got))
}

func TestLink_AppendixSection(t *testing.T) {
	got := New(StyleDatatracker).Link("RFC 7489, § A.1")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc7489#appendix-a-1">RFC 7489, § A.1</a>`,
		string(got))
}

func TestLink_DraftWithVersionSuffix(t *testing.T) {
	got := New(StyleDatatracker).Link("draft-ietf-dmarc-base-11 § 4.2")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/draft-ietf-dmarc-base-11#section-4.2">draft-ietf-dmarc-base-11 § 4.2</a>`,
		string(got))
}

func TestLink_DraftCasingPreservedInTextLoweredInURL(t *testing.T) {
	got := New(StyleDatatracker).Link("Draft-IETF-DMARC-Base-11")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/draft-ietf-dmarc-base-11">Draft-IETF-DMARC-Base-11</a>`,
		string(got))
}

func TestLink_DraftWithoutVersionSuffix(t *testing.T) {
	got := New(StyleDatatracker).Link("see draft-kucherawy-dkim-crypto section A.1 for details")
	require.Equal(t,
		`see <a href="https://datatracker.ietf.org/doc/html/draft-kucherawy-dkim-crypto#appendix-a-1">draft-kucherawy-dkim-crypto section A.1</a> for details`,
		string(got))
}

func TestLink_ParenthesesStayOutsideTheAnchor(t *testing.T) {
	got := New(StyleDatatracker).Link("(RFC 7489)")
	require.Equal(t,
		`(<a href="https://datatracker.ietf.org/doc/html/rfc7489">RFC 7489</a>)`,
		string(got))
}

func TestLink_MultipleCitationsLeftToRight(t *testing.T) {
	got := New(StyleDatatracker).Link("RFC 5321 and RFC 5322.")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc5321">RFC 5321</a> and `+
			`<a href="https://datatracker.ietf.org/doc/html/rfc5322">RFC 5322</a>.`,
		string(got))
}

func TestLink_CaseInsensitiveMarkers(t *testing.T) {
	got := New(StyleDatatracker).Link("rfc 9116 SECTION 2")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc9116#section-2">rfc 9116 SECTION 2</a>`,
		string(got))
}

func TestLink_DoubledSectionSign(t *testing.T) {
	got := New(StyleDatatracker).Link("RFC 8461 §§ 3.2-3.3")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc8461#section-3-2-3-3">RFC 8461 §§ 3.2-3.3</a>`,
		string(got))
}

func TestLink_InternalSpacingPreserved(t *testing.T) {
	got := New(StyleDatatracker).Link("RFC  5322")
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/rfc5322">RFC  5322</a>`,
		string(got))
}

func TestLink_NoCitationReturnsEscapedInput(t *testing.T) {
	got := New(StyleDatatracker).Link("a & b <c> \"quoted\"")
	require.Equal(t, `a &amp; b &lt;c&gt; &#34;quoted&#34;`, string(got))
}

func TestLink_EmptyInput(t *testing.T) {
	require.Equal(t, "", string(New(StyleDatatracker).Link("")))
}

func TestLink_EscapingHappensBeforeMatching(t *testing.T) {
	got := New(StyleDatatracker).Link("a & b, see RFC 5322.")
	require.Equal(t,
		`a &amp; b, see <a href="https://datatracker.ietf.org/doc/html/rfc5322">RFC 5322</a>.`,
		string(got))
}

func TestLink_NoMatchInsideLargerWord(t *testing.T) {
	got := New(StyleDatatracker).Link("XRFC 5322 is not a citation")
	require.Equal(t, `XRFC 5322 is not a citation`, string(got))
}

func TestLink_HyphenAfterNumberRejectsCitation(t *testing.T) {
	// "RFC 5322-bis" has no terminator after the digit run, so nothing links.
	got := New(StyleDatatracker).Link("RFC 5322-bis")
	require.Equal(t, `RFC 5322-bis`, string(got))
}

func TestLink_RFCEditorStyle(t *testing.T) {
	l := New(StyleRFCEditor)
	require.Equal(t,
		`<a href="https://www.rfc-editor.org/rfc/rfc9116.html#section-2">RFC 9116 § 2</a>`,
		string(l.Link("RFC 9116 § 2")))
	// Drafts are not published on rfc-editor; they keep datatracker URLs.
	require.Equal(t,
		`<a href="https://datatracker.ietf.org/doc/html/draft-ietf-dmarc-base-11">draft-ietf-dmarc-base-11</a>`,
		string(l.Link("draft-ietf-dmarc-base-11")))
}

func TestLink_UnknownStyleFallsBackToDatatracker(t *testing.T) {
	got := New(Style("bogus")).Link("RFC 5322")
	require.Contains(t, string(got), "datatracker.ietf.org")
}

func TestLink_Deterministic(t *testing.T) {
	l := New(StyleDatatracker)
	in := "DMARC is defined in RFC 7489, § 6.3 and updated by draft-ietf-dmarc-dmarcbis-30."
	require.Equal(t, l.Link(in), l.Link(in))
}

func TestLink_RelinkingOwnOutputDoesNotCrash(t *testing.T) {
	// Feeding linker output back in is out of contract; it must still be total.
	l := New(StyleDatatracker)
	once := l.Link("RFC 5322 § 3.4")
	require.NotPanics(t, func() {
		twice := l.Link(string(once))
		require.NotEmpty(t, string(twice))
	})
}
