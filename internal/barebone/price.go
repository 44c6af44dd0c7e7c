package barebone

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	million  = 1_000_000
	thousand = 1_000
)

// ParsePrice converts forum price shorthand ("3.1tr", "500k", "3.1") to an
// amount in VND. It returns 0 when the token cannot be parsed; callers treat
// 0 as an unknown price.
//
// A token without a unit is read as millions. A token whose number contains
// a separator is always read as millions, even under a "k" suffix, so "3,5k"
// is 3,500,000.
func ParsePrice(raw string) int64 {
	token := strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw))
	if token == "" {
		return 0
	}

	hasTr := strings.Contains(token, "tr")
	hasK := strings.Contains(token, "k")
	if !hasTr && !hasK {
		num, ok := parseAmount(token)
		if !ok {
			return 0
		}
		return toInt(num * million)
	}

	num, ok := parseAmount(strings.NewReplacer("tr", "", "k", "").Replace(token))
	if !ok {
		return 0
	}

	switch {
	case strings.ContainsAny(token, ".,"):
		return toInt(num * million)
	case hasTr:
		return toInt(num * million)
	default:
		return toInt(num * thousand)
	}
}

// ParseCatalogPrice reads a fully written price such as "3.100.000đ" or
// "3,100,000 VND". It returns 0 when the cell holds no integer.
func ParseCatalogPrice(raw string) int64 {
	cleaned := strings.NewReplacer(".", "", ",", "", "VND", "", "đ", "").Replace(strings.TrimSpace(raw))
	price, err := strconv.ParseInt(strings.TrimSpace(cleaned), 10, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// parseAmount reads a decimal number where a comma may stand for the point
func parseAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	num, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) || num < 0 {
		return 0, false
	}
	return num, true
}

func toInt(v float64) int64 {
	return int64(math.Round(v))
}
