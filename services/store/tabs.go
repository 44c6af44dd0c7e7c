package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dealmungchi/barebonecrawler/internal/barebone"
	"github.com/dealmungchi/barebonecrawler/logger"
	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"
)

// DateLayout is the dd-mm-yyyy date every tab name carries
const DateLayout = "02-01-2006"

// ComparisonPrefix starts the name of a catalog comparison tab
const ComparisonPrefix = "Check-Gia-MKCOM-"

// ForumTabName returns the name of the forum tab of day
func ForumTabName(day time.Time) string {
	return day.Format(DateLayout)
}

// ComparisonTabName returns the name of the comparison tab of day
func ComparisonTabName(day time.Time) string {
	return ComparisonPrefix + day.Format(DateLayout)
}

// DeleteStaleTabs removes every tab whose name does not carry the date of day
// and returns the deleted names.
func DeleteStaleTabs(ctx context.Context, s TableStore, day time.Time) ([]string, error) {
	names, err := s.ListTabs(ctx)
	if err != nil {
		return nil, err
	}

	today := day.Format(DateLayout)
	var deleted []string
	for _, name := range names {
		if strings.Contains(name, today) {
			continue
		}
		if err := s.DeleteTab(ctx, name); err != nil {
			return deleted, err
		}
		logger.ForStore().Info().Str("tab", name).Msg("Deleted stale tab")
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// LoadIndex reads a forum tab back as a price index keyed by the normalized
// name column. A price cell that is not an integer indexes a zero price.
func LoadIndex(ctx context.Context, s TableStore, tab string) (*barebone.PriceIndex, error) {
	t, err := s.ReadTab(ctx, tab)
	if err != nil {
		return nil, err
	}

	nameCol := t.Column(barebone.ColumnNormalizedName)
	priceCol := t.Column(barebone.ColumnFinalPrice)
	if nameCol < 0 || priceCol < 0 {
		return nil, apperrors.NewStore(tab, fmt.Sprintf("missing column %q or %q", barebone.ColumnNormalizedName, barebone.ColumnFinalPrice), nil)
	}

	entries := make([]barebone.IndexEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		if nameCol >= len(row) || priceCol >= len(row) {
			continue
		}
		price, err := strconv.ParseInt(strings.TrimSpace(row[priceCol]), 10, 64)
		if err != nil || price < 0 {
			price = 0
		}
		entries = append(entries, barebone.IndexEntry{Name: row[nameCol], Price: price})
	}
	return barebone.NewPriceIndex(entries), nil
}
