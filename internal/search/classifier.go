package search

import (
	"regexp"
	"strconv"
	"strings"
)

// Interval query pattern: chr<token>:<digits/commas>-<digits/commas>.
// Compiled at package init.
var intervalPattern = regexp.MustCompile(`chr(?P<chr>\w+):(?P<gstart>[0-9,]+)-(?P<gend>[0-9,]+)`)

// Alternate-assembly prefixes. Case-sensitive by contract: "HG19.chr1:1-2"
// is not an assembly request.
const (
	prefixHg19 = "hg19."
	prefixMm9  = "mm9."
)

// Classify determines the query intent from the raw string's shape.
// For genomic-interval intent the captured interval is returned as well.
func Classify(raw string) (Intent, *Interval) {
	if iv := parseInterval(raw); iv != nil {
		return IntentGenomicInterval, iv
	}
	if _, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return IntentNumericID, nil
	}
	if hasWildcard(raw) {
		return IntentWildcard, nil
	}
	return IntentRelevance, nil
}

// parseInterval matches the genomic-interval pattern and captures the
// chromosome, coordinates and optional assembly prefix.
func parseInterval(raw string) *Interval {
	m := intervalPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	iv := &Interval{}
	for i, name := range intervalPattern.SubexpNames() {
		switch name {
		case "chr":
			iv.Chr = m[i]
		case "gstart":
			iv.Start = m[i]
		case "gend":
			iv.End = m[i]
		}
	}

	if strings.HasPrefix(raw, prefixHg19) {
		iv.Assembly = "hg19"
	}
	if strings.HasPrefix(raw, prefixMm9) {
		iv.Assembly = "mm9"
	}
	return iv
}

// hasWildcard reports whether the query contains an un-escaped * or ?
// anywhere except as the first character. A leading wildcard is rejected
// because it would scan every term in the index.
func hasWildcard(raw string) bool {
	escaped := false
	for i, r := range raw {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if (r == '*' || r == '?') && i > 0 {
			return true
		}
	}
	return false
}
