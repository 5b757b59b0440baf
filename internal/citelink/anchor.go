package citelink

import (
	"regexp"
	"strings"
)

var (
	numericSectionRE  = regexp.MustCompile(`^\d+(?:\.\d+)*$`)
	appendixSectionRE = regexp.MustCompile(`^([A-Za-z])(?:\.(\d+(?:\.\d+)*))?$`)
	nonAlnumRE        = regexp.MustCompile(`[^A-Za-z0-9]+`)
	collapseSpaceRE   = regexp.MustCompile(`\s+`)
	trailingPunctRE   = regexp.MustCompile(`[).,;: ]+$`)
)

// sectionFragment maps a raw section reference to the fragment identifier
// used by the IETF document hosts:
//
//	"4.1.2" -> section-4.1.2
//	"A"     -> appendix-a
//	"A.1.2" -> appendix-a-1-2
//	other   -> section-<slug>
//
// Anchors are derived heuristically from the citation text alone; they are
// not verified against the target document. Section text that is entirely
// punctuation degenerates to the bare fragment "section-".
func sectionFragment(raw string) string {
	s := collapseSpaceRE.ReplaceAllString(strings.TrimSpace(raw), " ")
	s = trailingPunctRE.ReplaceAllString(s, "")

	if numericSectionRE.MatchString(s) {
		return "section-" + s
	}

	if m := appendixSectionRE.FindStringSubmatch(s); m != nil {
		frag := "appendix-" + strings.ToLower(m[1])
		if m[2] != "" {
			frag += "-" + strings.ReplaceAll(m[2], ".", "-")
		}
		return frag
	}

	slug := strings.ToLower(strings.Trim(nonAlnumRE.ReplaceAllString(s, "-"), "-"))
	return "section-" + slug
}
