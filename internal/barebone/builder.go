package barebone

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SurchargeRule adds Amount to listings of Form; a zero Fans matches any fan count
type SurchargeRule struct {
	Form   FormFactor
	Fans   FanCount
	Amount int64
}

// SurchargeTable is searched in order, first matching rule wins
type SurchargeTable []SurchargeRule

// ForumSurcharges is the +VC table applied to forum prices
var ForumSurcharges = SurchargeTable{
	{Form: FormWork, Fans: FanTwo, Amount: 500_000},
	{Form: FormWork, Amount: 400_000},
	{Form: FormSFF, Amount: 300_000},
	{Form: FormMT, Amount: 400_000},
	{Form: FormTiny, Amount: 100_000},
	{Form: FormMini, Amount: 100_000},
}

// Lookup returns the surcharge for a form factor and fan count
func (t SurchargeTable) Lookup(form FormFactor, fans FanCount) int64 {
	for _, rule := range t {
		if rule.Form == form && (rule.Fans == 0 || rule.Fans == fans) {
			return rule.Amount
		}
	}
	return 0
}

// SkipReason tells why a listing produced no record
type SkipReason string

const (
	SkipNoKeyword     SkipReason = "no barebone keyword"
	SkipNoPriceMarker SkipReason = "no price marker"
	SkipZeroPrice     SkipReason = "price unknown"
)

// Skipped is a listing dropped by the builder
type Skipped struct {
	Listing RawListing
	Reason  SkipReason
}

// BuildResult holds the records built from a batch and the listings dropped on the way
type BuildResult struct {
	Records []ProductRecord
	Skipped []Skipped
}

// Builder turns raw listings into product records
type Builder struct {
	surcharges SurchargeTable
}

// NewBuilder creates a builder using the given surcharge table; nil means no surcharge
func NewBuilder(surcharges SurchargeTable) *Builder {
	return &Builder{surcharges: surcharges}
}

// NewForumBuilder creates a builder for forum posts
func NewForumBuilder() *Builder {
	return NewBuilder(ForumSurcharges)
}

// NewCatalogBuilder creates a builder for catalog rows, whose prices already include everything
func NewCatalogBuilder() *Builder {
	return NewBuilder(nil)
}

var (
	priceMarker  = regexp.MustCompile(`(?i)^(.*?)\s*[,/\-]*\s*giá\s*([\d.,kKtrTR]+)`)
	leadingDash  = regexp.MustCompile(`^\s*-\s*`)
	catalogAside = regexp.MustCompile(`\([^)]*\)`)
	keywordAt    = regexp.MustCompile(`(?i)barebone`)
)

// Build converts a batch. Listings that cannot be priced are skipped and
// never abort the batch; an empty batch gives an empty result.
func (b *Builder) Build(listings []RawListing) BuildResult {
	result := BuildResult{Records: make([]ProductRecord, 0, len(listings))}
	for _, l := range listings {
		rec, reason := b.BuildOne(l)
		if reason != "" {
			result.Skipped = append(result.Skipped, Skipped{Listing: l, Reason: reason})
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

// BuildOne converts one listing. A non-empty reason means no record was built.
func (b *Builder) BuildOne(l RawListing) (ProductRecord, SkipReason) {
	line := norm.NFC.String(l.Text)
	if !keywordAt.MatchString(line) {
		return ProductRecord{}, SkipNoKeyword
	}

	var name, original string
	var price int64
	if l.RawPrice != "" || l.Source == SourceCatalog {
		name = strings.TrimSpace(catalogAside.ReplaceAllString(line, ""))
		original = name
		price = ParseCatalogPrice(l.RawPrice)
	} else {
		m := priceMarker.FindStringSubmatch(line)
		if m == nil {
			return ProductRecord{}, SkipNoPriceMarker
		}
		name = cutToKeyword(html.UnescapeString(strings.TrimSpace(m[1])))
		original = strings.TrimLeftFunc(leadingDash.ReplaceAllString(line, ""), unicode.IsSpace)
		price = ParsePrice(m[2])
	}
	if price == 0 {
		return ProductRecord{}, SkipZeroPrice
	}

	fans := DetectFanCount(line, name)
	form := DetectFormFactor(name, fans)
	surcharge := b.surcharges.Lookup(form, fans)

	return ProductRecord{
		OriginalName:   original,
		Name:           name,
		NormalizedName: NormalizeName(name),
		Brand:          DetectBrand(name),
		ModelCodes:     ExtractModels(name),
		FormFactor:     form,
		FanCount:       fans,
		PSUWatts:       ExtractPSU(line),
		BundledCPU:     ExtractCPU(name),
		BasePrice:      price,
		Surcharge:      surcharge,
		FinalPrice:     price + surcharge,
		Source:         l.Source,
		Link:           l.Link,
		Page:           l.Page,
		PostTitle:      l.PostTitle,
		PostID:         l.PostID,
		Hidden:         l.Hidden,
	}, ""
}

// cutToKeyword drops text before the first "barebone" and collapses spaces
func cutToKeyword(name string) string {
	if loc := keywordAt.FindStringIndex(name); loc != nil && loc[0] > 0 {
		name = strings.TrimSpace(name[loc[0]:])
	}
	return spaces.ReplaceAllString(name, " ")
}

// Dedupe keeps the first record of every original name
func Dedupe(records []ProductRecord) []ProductRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]ProductRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.OriginalName]; dup {
			continue
		}
		seen[r.OriginalName] = struct{}{}
		out = append(out, r)
	}
	return out
}
