package barebone

import (
	"regexp"
	"strings"
)

// Rewrite is one step of the name normalization chain
type Rewrite struct {
	Name  string
	Apply func(string) string
}

func replaceRegexp(pattern, repl string) func(string) string {
	re := regexp.MustCompile(pattern)
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

// NameRewrites is the ordered normalization chain. Later steps assume the
// cleanup done by earlier ones.
var NameRewrites = []Rewrite{
	{Name: "drop-asides", Apply: replaceRegexp(`\([^)]*\)`, "")},
	{Name: "drop-stray-parens", Apply: strings.NewReplacer("(", "", ")", "").Replace},
	{Name: "spaced-hyphen-to-slash", Apply: replaceRegexp(`\s-\s`, "/")},
	{Name: "tight-slashes", Apply: replaceRegexp(`\s*/\s*`, "/")},
	// "400 G4 SFF" -> "400G4 SFF", only when a form factor follows
	{Name: "join-generation", Apply: replaceRegexp(`(?i) (\bg[1-8]\b)\s+(sff|mt|dt|mini|tiny)\b`, "$1 $2")},
	{Name: "split-version", Apply: replaceRegexp(`([a-zA-Z0-9])([vV][1-9]\b)`, "$1 $2")},
	{Name: "split-barebone-brand", Apply: replaceRegexp(`^(Barebone)([A-Z])`, "$1 $2")},
	{Name: "drop-prodesk", Apply: replaceRegexp(`(?i)\bprodesk\b`, "")},
	{Name: "collapse-spaces", Apply: collapseSpaces},
	{Name: "pair-factor", Apply: PairFactor},
	{Name: "cpu-family", Apply: NormalizeCPU},
}

// maxNormalizePasses bounds the fixed point search in NormalizeName
const maxNormalizePasses = 5

var spaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// NormalizeName returns the canonical display name of a raw listing name.
//
// The chain is repeated until the name stops changing: a single pass can
// leave work for the next one, e.g. "600 G4/800 G4 SFF" only gets "SFF"
// after "600 G4" once the generation join has already run.
func NormalizeName(name string) string {
	current := name
	for i := 0; i < maxNormalizePasses; i++ {
		next := current
		for _, rw := range NameRewrites {
			next = rw.Apply(next)
		}
		if next == current {
			break
		}
		current = next
	}
	return current
}

var trailingWord = regexp.MustCompile(`^([a-zA-Z0-9 ]+)\s+([a-zA-Z]+)$`)

// PairFactor copies a trailing form factor word onto the first of two
// slash separated models: "3046/7040 Mt" -> "3046 Mt/7040 Mt".
func PairFactor(name string) string {
	if !strings.Contains(name, "/") {
		return name
	}
	parts := strings.Split(name, "/")
	if len(parts) != 2 {
		return name
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	m := trailingWord.FindStringSubmatch(parts[1])
	if m == nil || trailingWord.MatchString(parts[0]) {
		return name
	}
	factor := strings.TrimSpace(m[2])
	if endsWithWord(parts[0], factor) {
		return name
	}
	return parts[0] + " " + factor + "/" + parts[1]
}

func endsWithWord(s, word string) bool {
	fields := strings.Fields(s)
	return len(fields) > 0 && strings.EqualFold(fields[len(fields)-1], word)
}

var separatorSpaces = regexp.MustCompile(`\s*([\\/|])\s*`)

// LookupKey is the join key for a display name: lowercase, trimmed, and
// without whitespace around "\", "/" and "|".
func LookupKey(display string) string {
	return separatorSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(display)), "$1")
}
