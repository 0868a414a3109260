package products

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier generation. Neither generator guarantees uniqueness on its own;
// the catalog resolves collisions with a bounded retry loop and leans on the
// storage unique constraints as the final arbiter.

const batchPrefixLen = 4

var (
	nonAlpha     = regexp.MustCompile(`[^a-zA-Z]`)
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)

	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// GenerateBatchNumber derives a label batch number from the product name:
// first four letters uppercased, right-padded with X, then "PB" and a
// two-digit random suffix. Shape: ^[A-Z]{4}PB[0-9]{2}$.
func GenerateBatchNumber(productName string) string {
	clean := strings.ToUpper(nonAlpha.ReplaceAllString(productName, ""))
	if len(clean) > batchPrefixLen {
		clean = clean[:batchPrefixLen]
	}
	for len(clean) < batchPrefixLen {
		clean += "X"
	}
	return clean + "PB" + twoDigits()
}

// GenerateSlug derives a URL-safe slug from the product name. Deterministic
// for a given input.
func GenerateSlug(productName string) string {
	s := strings.TrimSpace(strings.ToLower(productName))
	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}
	s = nonSlugChars.ReplaceAllString(s, "")
	s = spaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func twoDigits() string {
	return strconv.Itoa(rand.IntN(90) + 10)
}

func slugSuffix(base string) string {
	return base + "-" + strconv.Itoa(rand.IntN(1000))
}
