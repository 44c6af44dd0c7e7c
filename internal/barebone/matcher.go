package barebone

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// IndexEntry is one priced name of the reference source. A zero Price means
// the reference row had no usable price.
type IndexEntry struct {
	Name  string
	Price int64
}

// PriceIndex maps lookup keys of one source to prices. It is built once per
// run and only read afterwards.
type PriceIndex struct {
	prices map[string]int64
}

var factorWord = regexp.MustCompile(`(?i)\b(sff|mt|dt|mini|tiny)\b`)

// HasFactor reports whether a name part states a form factor word
func HasFactor(part string) bool {
	return factorWord.MatchString(part)
}

// NewPriceIndex builds an index from entries. A name made of several slash
// separated chassis that each state a form factor is also registered part by
// part, so a listing naming only one of them still finds the price. Later
// entries overwrite earlier ones.
func NewPriceIndex(entries []IndexEntry) *PriceIndex {
	prices := make(map[string]int64, len(entries))
	for _, e := range entries {
		key := LookupKey(e.Name)
		if key == "" {
			continue
		}
		prices[key] = e.Price

		parts := strings.Split(key, "/")
		if len(parts) < 2 || !allHaveFactor(parts) {
			continue
		}
		for _, part := range parts {
			prices[strings.TrimSpace(part)] = e.Price
		}
	}
	return &PriceIndex{prices: prices}
}

// IndexRecords indexes records by normalized name and final price
func IndexRecords(records []ProductRecord) *PriceIndex {
	entries := make([]IndexEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, IndexEntry{Name: r.NormalizedName, Price: r.FinalPrice})
	}
	return NewPriceIndex(entries)
}

func allHaveFactor(parts []string) bool {
	for _, p := range parts {
		if !HasFactor(p) {
			return false
		}
	}
	return true
}

// Lookup finds the price registered for name. Only exact keys match.
func (ix *PriceIndex) Lookup(name string) (int64, bool) {
	price, ok := ix.prices[LookupKey(name)]
	return price, ok
}

// Len returns the number of keys, expansions included
func (ix *PriceIndex) Len() int {
	return len(ix.prices)
}

// Keys returns the registered keys in sorted order
func (ix *PriceIndex) Keys() []string {
	keys := make([]string, 0, len(ix.prices))
	for k := range ix.prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MatchStatus is the outcome of looking a candidate up in the index
type MatchStatus int

const (
	// Unmatched means the name is not in the index
	Unmatched MatchStatus = iota
	// NotCompared means the name matched but one side has no price
	NotCompared
	// Equal means both prices are the same
	Equal
	// Different means the prices differ by Difference
	Different
)

func (s MatchStatus) String() string {
	switch s {
	case Unmatched:
		return "unmatched"
	case NotCompared:
		return "not_compared"
	case Equal:
		return "equal"
	case Different:
		return "different"
	default:
		return "unknown"
	}
}

const (
	// UnmatchedCell is shown in place of the other source's price on a miss
	UnmatchedCell = "-"
	// NoDifferenceCell is shown when both prices are equal
	NoDifferenceCell = "-"
)

// Match is a candidate record annotated with the other source's price
type Match struct {
	Record     ProductRecord
	Status     MatchStatus
	OtherPrice int64
	Difference int64
}

// Compare looks every candidate up by its normalized name. The difference is
// the candidate's price minus the indexed price.
func Compare(ix *PriceIndex, candidates []ProductRecord) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, compareOne(ix, c))
	}
	return matches
}

func compareOne(ix *PriceIndex, c ProductRecord) Match {
	m := Match{Record: c}
	other, ok := ix.Lookup(c.NormalizedName)
	if !ok {
		m.Status = Unmatched
		return m
	}
	m.OtherPrice = other
	if other == 0 || c.FinalPrice == 0 {
		m.Status = NotCompared
		return m
	}
	m.Difference = c.FinalPrice - other
	if m.Difference == 0 {
		m.Status = Equal
	} else {
		m.Status = Different
	}
	return m
}

// OtherPriceCell renders the indexed price, "-" on a miss
func (m Match) OtherPriceCell() string {
	switch {
	case m.Status == Unmatched:
		return UnmatchedCell
	case m.OtherPrice == 0:
		return ""
	default:
		return strconv.FormatInt(m.OtherPrice, 10)
	}
}

// DifferenceCell renders the difference: a number, "-" when equal, empty when not compared
func (m Match) DifferenceCell() string {
	switch m.Status {
	case Equal:
		return NoDifferenceCell
	case Different:
		return strconv.FormatInt(m.Difference, 10)
	default:
		return ""
	}
}

// PriceCell renders the candidate's own price with an arrow telling whether
// it is below (up arrow) or above (down arrow) the other source.
func (m Match) PriceCell() string {
	price := m.Record.FinalPrice
	switch {
	case m.Status == Equal:
		return groupThousands(price)
	case m.Status != Different:
		return strconv.FormatInt(price, 10)
	case m.Difference < 0:
		return "🔺 " + groupThousands(price)
	default:
		return "🔻 " + groupThousands(price)
	}
}

func groupThousands(n int64) string {
	return humanize.Comma(n)
}
