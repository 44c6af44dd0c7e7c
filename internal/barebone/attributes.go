package barebone

import (
	"regexp"
	"strings"
)

// BrandRule maps a substring of the listing name to a brand
type BrandRule struct {
	Contains string
	Brand    Brand
}

// BrandRules are checked in order; the first substring found wins and
// BrandLenovo is the fallback. Matching is case-sensitive.
var BrandRules = []BrandRule{
	{Contains: "Dell", Brand: BrandDell},
	{Contains: "Hp", Brand: BrandHP},
	{Contains: "HP", Brand: BrandHP},
}

// DetectBrand classifies a name by plain substring containment
func DetectBrand(name string) Brand {
	for _, rule := range BrandRules {
		if strings.Contains(name, rule.Contains) {
			return rule.Brand
		}
	}
	return BrandLenovo
}

// FormRule maps a pattern found in the lowercased name to a form factor
type FormRule struct {
	Pattern *regexp.Regexp
	Form    FormFactor
}

// KeywordForms are tried first, in priority order
var KeywordForms = []FormRule{
	{Pattern: regexp.MustCompile(`sff`), Form: FormSFF},
	{Pattern: regexp.MustCompile(`tiny`), Form: FormTiny},
	{Pattern: regexp.MustCompile(`mini`), Form: FormMini},
	{Pattern: regexp.MustCompile(`mt`), Form: FormMT},
	{Pattern: regexp.MustCompile(`dt`), Form: FormDT},
}

// WorkstationForms recognize workstation model codes once no keyword matched
var WorkstationForms = []FormRule{
	{Pattern: regexp.MustCompile(`\bs\d{2,4}\b`), Form: FormWork},   // Lenovo S20, S30
	{Pattern: regexp.MustCompile(`\bp\d{3,4}c?\b`), Form: FormWork}, // Lenovo P520, P520c
	{Pattern: regexp.MustCompile(`\bw\d{3,4}\b`), Form: FormWork},   // Lenovo W530
	{Pattern: regexp.MustCompile(`\bt\d{3,4}\b`), Form: FormWork},   // Dell T5820
	{Pattern: regexp.MustCompile(`\bz\d{1,4}\b`), Form: FormWork},   // HP Z420
	{Pattern: regexp.MustCompile(`workstation`), Form: FormWork},
	{Pattern: regexp.MustCompile(`precision`), Form: FormWork},
}

// DetectFormFactor classifies the chassis. A two-fan listing without a
// keyword is a workstation.
func DetectFormFactor(name string, fans FanCount) FormFactor {
	lower := strings.ToLower(name)
	if form, ok := firstForm(KeywordForms, lower); ok {
		return form
	}
	if fans == FanTwo {
		return FormWork
	}
	if form, ok := firstForm(WorkstationForms, lower); ok {
		return form
	}
	return FormUnknown
}

func firstForm(rules []FormRule, lower string) (FormFactor, bool) {
	for _, rule := range rules {
		if rule.Pattern.MatchString(lower) {
			return rule.Form, true
		}
	}
	return FormUnknown, false
}

// ModelPatterns are tried in order on every segment of the name; the first
// match of a segment is its model code.
var ModelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bTP\d{2,4}[a-z]?\b`),              // HP Pavilion TP01
	regexp.MustCompile(`(?i)\bS\d{2,4}[a-z]?\b`),               // Lenovo S30
	regexp.MustCompile(`(?i)\bE\d{2,4}[a-z]?\b`),               // E93, E73
	regexp.MustCompile(`(?i)\bM\d{2,4}[a-z]?\b`),               // M720, M73
	regexp.MustCompile(`(?i)\bP\d{3,4}[a-z]?\b`),               // P520C, P330
	regexp.MustCompile(`(?i)\bV\d{3,4}[a-z]?\b`),               // V520
	regexp.MustCompile(`(?i)\bPRECISION\s+\d{3,4}\b`),          // Precision 3630
	regexp.MustCompile(`(?i)\bTHINKCENTRE\s+\w+\s*G\d{1,2}\b`), // ThinkCentre M720 G1
	regexp.MustCompile(`(?i)\bZ\d{1,4}\s*G\d{1,2}\b`),          // Z4 G4
	regexp.MustCompile(`(?i)\bZ\d{1,4}\b`),                     // Z420
	regexp.MustCompile(`(?i)\bT\d{3,4}\b`),                     // T5820
	regexp.MustCompile(`(?i)\b\d{3,4}\s*G\d{1,2}\b`),           // 600 G1
	regexp.MustCompile(`(?i)\bG\d{1,2}\b`),                     // G2
	regexp.MustCompile(`(?i)\bXE2\b`),
	regexp.MustCompile(`\b\d{3,4}\b`), // 3020, 7050
}

var (
	parenAside     = regexp.MustCompile(`\(.*?\)`)
	segmentSplit   = regexp.MustCompile(`\s*[/-]\s*`)
	numericCode    = regexp.MustCompile(`^\d{3,4}$`)
	alnumCode      = regexp.MustCompile(`^[A-Z]+\d`)
	precisionLabel = strings.NewReplacer("PRECISION ", "", "PRECISION", "")
)

// ExtractModels returns the chassis model codes named before any "+".
// A bare number is dropped once a letter-prefixed code has been found.
func ExtractModels(name string) []string {
	head, _, _ := strings.Cut(name, "+")
	head = parenAside.ReplaceAllString(strings.TrimSpace(head), "")

	var models []string
	seen := make(map[string]bool)
	for _, segment := range segmentSplit.Split(head, -1) {
		code := matchModel(segment, models)
		if code == "" {
			continue
		}
		code = strings.TrimSpace(precisionLabel.Replace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		models = append(models, code)
	}
	return models
}

func matchModel(segment string, found []string) string {
	for _, pattern := range ModelPatterns {
		m := pattern.FindString(segment)
		if m == "" {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(m))
		if numericCode.MatchString(code) && hasAlnumCode(found) {
			continue
		}
		return code
	}
	return ""
}

func hasAlnumCode(models []string) bool {
	for _, m := range models {
		if alnumCode.MatchString(m) {
			return true
		}
	}
	return false
}

var (
	twoFanPhrase = regexp.MustCompile(`(?i)2\s*(tản nhiệt|tản|fan)`)
	timesTwo     = regexp.MustCompile(`(?i)[x×]\s*2`)
	dualXeon     = regexp.MustCompile(`(?i)\+\s*2\s*xeon`)
)

// DetectFanCount looks for a two-cooler signal in the raw line or the name
func DetectFanCount(line, name string) FanCount {
	if twoFanPhrase.MatchString(line) || timesTwo.MatchString(name) || dualXeon.MatchString(name) {
		return FanTwo
	}
	return FanOne
}

var psuAnnotation = regexp.MustCompile(`(?i)\d{3,4}w\)`)

// ExtractPSU finds wattages written as "460W)" at the end of a PSU note
func ExtractPSU(line string) []string {
	matches := psuAnnotation.FindAllString(line, -1)
	if len(matches) == 0 {
		return nil
	}
	watts := make([]string, 0, len(matches))
	for _, m := range matches {
		watts = append(watts, strings.ToUpper(strings.TrimSuffix(m, ")")))
	}
	return watts
}

var bundledPart = regexp.MustCompile(`\+\s*([A-Za-z0-9\s]+)`)

// ExtractCPU returns the normalized descriptor following the first "+"
func ExtractCPU(name string) string {
	m := bundledPart.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return NormalizeCPU(strings.TrimSpace(m[1]))
}

// CPURule rewrites a "<code> x2" shorthand into a dual CPU descriptor
type CPURule struct {
	Pattern *regexp.Regexp
	Replace string
}

// CPURules are applied in order; the last one is the family-less fallback
var CPURules = []CPURule{
	{Pattern: regexp.MustCompile(`41\d{2}\s*[xX]\s*2`), Replace: "2 Xeon Silver 4110"},
	{Pattern: regexp.MustCompile(`51\d{2}\s*[xX]\s*2`), Replace: "2 Xeon Gold"},
	{Pattern: regexp.MustCompile(`26\d{2}\s*[xX]\s*2`), Replace: "2 Xeon E5"},
	{Pattern: regexp.MustCompile(`88\d{2}\s*[xX]\s*2`), Replace: "2 Xeon E7"},
	{Pattern: regexp.MustCompile(`\d{4,5}\s*[xX]\s*2`), Replace: "2 Xeon"},
}

// NormalizeCPU applies CPURules to s
func NormalizeCPU(s string) string {
	for _, rule := range CPURules {
		s = rule.Pattern.ReplaceAllLiteralString(s, rule.Replace)
	}
	return s
}
