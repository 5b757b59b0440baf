// Package domainname normalizes user-submitted domain names before they are
// used in URLs and backend queries.
package domainname

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// ErrEmpty is returned when nothing resembling a domain remains after cleanup.
var ErrEmpty = errors.New("empty domain")

// Normalize cleans up a raw domain string:
//
//  1. Unicode NFC normalization, so visually identical inputs compare equal.
//  2. Removal of zero-width characters (ZWSP, ZWNJ, ZWJ, BOM) that survive
//     copy-paste from rendered pages and hide inside otherwise valid names.
//  3. Whitespace and trailing-dot trimming, then lowercasing (DNS names are
//     case-insensitive).
//  4. IDNA conversion of internationalized labels to their ASCII (punycode)
//     form using the lookup profile.
//
// The returned name is what cache keys, URLs, and backend queries use.
func Normalize(raw string) (string, error) {
	s := norm.NFC.String(raw)
	s = strings.Map(dropZeroWidth, s)
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = strings.ToLower(s)
	if s == "" {
		return "", ErrEmpty
	}

	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return "", fmt.Errorf("not a valid domain name %q: %w", s, err)
	}
	return ascii, nil
}

func dropZeroWidth(r rune) rune {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return -1
	}
	return r
}
