package barebone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forumListing(text string) RawListing {
	return RawListing{Text: text, Source: SourceForum, Link: "https://www.5giay.vn/threads/barebone"}
}

func TestBuildForumListing(t *testing.T) {
	rec, reason := NewForumBuilder().BuildOne(forumListing("- Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr"))
	require.Empty(t, reason)

	assert.Equal(t, "Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr", rec.OriginalName)
	assert.Equal(t, "Barebone Dell Optiplex 3046/7040 Mt", rec.Name)
	assert.Equal(t, "Barebone Dell Optiplex 3046 Mt/7040 Mt", rec.NormalizedName)
	assert.Equal(t, BrandDell, rec.Brand)
	assert.Equal(t, []string{"3046", "7040"}, rec.ModelCodes)
	assert.Equal(t, FormMT, rec.FormFactor)
	assert.Equal(t, FanOne, rec.FanCount)
	assert.Equal(t, int64(2_300_000), rec.BasePrice)
	assert.Equal(t, int64(400_000), rec.Surcharge)
	assert.Equal(t, int64(2_700_000), rec.FinalPrice)
	assert.Equal(t, SourceForum, rec.Source)
}

func TestBuildSurcharges(t *testing.T) {
	tests := []struct {
		line      string
		form      FormFactor
		fans      FanCount
		surcharge int64
	}{
		{"- Barebone Precision T5820 2 tản giá 6tr", FormWork, FanTwo, 500_000},
		{"- Barebone Lenovo P520 giá 5tr", FormWork, FanOne, 400_000},
		{"- Barebone HP 800 G2 SFF (nguồn 240w) giá 2,5", FormSFF, FanOne, 300_000},
		{"- BareboneLenovo M720q Tiny giá 3tr", FormTiny, FanOne, 100_000},
		{"- Barebone Dell 3046 giá 2tr", FormUnknown, FanOne, 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec, reason := NewForumBuilder().BuildOne(forumListing(tt.line))
			require.Empty(t, reason)
			assert.Equal(t, tt.form, rec.FormFactor)
			assert.Equal(t, tt.fans, rec.FanCount)
			assert.Equal(t, tt.surcharge, rec.Surcharge)
			assert.Equal(t, rec.BasePrice+tt.surcharge, rec.FinalPrice)
		})
	}
}

func TestBuildKeepsPSUAnnotation(t *testing.T) {
	rec, reason := NewForumBuilder().BuildOne(forumListing("- Barebone HP 800 G2 SFF (nguồn 240w) giá 2,5"))
	require.Empty(t, reason)
	assert.Equal(t, []string{"240W"}, rec.PSUWatts)
	assert.Equal(t, int64(2_500_000), rec.BasePrice)
	assert.Equal(t, "Barebone HP 800G2 SFF", rec.NormalizedName)
}

func TestBuildSkipsListings(t *testing.T) {
	b := NewForumBuilder()

	_, reason := b.BuildOne(forumListing("Ship toàn quốc giá 1tr"))
	assert.Equal(t, SkipNoKeyword, reason)

	_, reason = b.BuildOne(forumListing("- Barebone Dell 3020 liên hệ"))
	assert.Equal(t, SkipNoPriceMarker, reason)

	_, reason = b.BuildOne(forumListing("- Barebone Dell 3020 giá tr"))
	assert.Equal(t, SkipZeroPrice, reason)
}

func TestBuildCatalogRow(t *testing.T) {
	rec, reason := NewCatalogBuilder().BuildOne(RawListing{
		Text:      "Barebone Dell 3046 SFF",
		RawPrice:  "4.300.000đ",
		Source:    SourceCatalog,
		Link:      "https://minhkhoicomputer.vn/product/dell/",
		PostTitle: "Dell Optiplex",
		PostID:    "123",
		Hidden:    true,
	})
	require.Empty(t, reason)

	assert.Equal(t, "Barebone Dell 3046 SFF", rec.Name)
	assert.Equal(t, FormSFF, rec.FormFactor)
	assert.Equal(t, int64(0), rec.Surcharge)
	assert.Equal(t, int64(4_300_000), rec.FinalPrice)
	assert.True(t, rec.Hidden)
	assert.Equal(t, "123", rec.PostID)

	_, reason = NewCatalogBuilder().BuildOne(RawListing{Text: "Barebone Dell 7040", RawPrice: "Liên hệ", Source: SourceCatalog})
	assert.Equal(t, SkipZeroPrice, reason)
}

func TestBuildBatch(t *testing.T) {
	listings := []RawListing{
		forumListing("- Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr"),
		forumListing("- Barebone Dell 3020 liên hệ"),
		forumListing("- Barebone Dell 3020 giá tr"),
		forumListing("- Barebone Precision T5820 2 tản giá 6tr"),
	}

	result := NewForumBuilder().Build(listings)
	assert.Len(t, result.Records, 2)
	assert.Len(t, result.Skipped, 2)
	assert.LessOrEqual(t, len(result.Records), len(listings))
	for _, rec := range result.Records {
		assert.Positive(t, rec.FinalPrice)
	}
}

func TestBuildEmptyBatch(t *testing.T) {
	result := NewForumBuilder().Build(nil)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Skipped)
}

func TestDedupe(t *testing.T) {
	records := NewForumBuilder().Build([]RawListing{
		forumListing("- Barebone Dell 3046 giá 2tr"),
		forumListing("Barebone Dell 3046 giá 2tr"),
		forumListing("- Barebone Dell 7040 giá 2tr"),
	}).Records
	require.Len(t, records, 3)

	unique := Dedupe(records)
	require.Len(t, unique, 2)
	assert.Equal(t, "Barebone Dell 3046 giá 2tr", unique[0].OriginalName)
	assert.Equal(t, "Barebone Dell 7040 giá 2tr", unique[1].OriginalName)
}
