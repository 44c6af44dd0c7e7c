package barebone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTable(t *testing.T) {
	records := NewForumBuilder().Build([]RawListing{
		{Text: "- Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr", Source: SourceForum},
	}).Records

	header, rows := RecordTable(records)
	assert.Equal(t, RecordHeader, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr",
		"Barebone Dell Optiplex 3046 Mt/7040 Mt",
		"Dell",
		"3046 | 7040",
		"MT",
		"1 tản",
		"-",
		"2300000",
		"400000",
		"2700000",
		"-",
	}, rows[0])
	assert.Len(t, rows[0], len(header))
}

func TestComparisonTable(t *testing.T) {
	ix := NewPriceIndex([]IndexEntry{{Name: "barebone dell 3046 sff", Price: 4_300_000}})
	listings := []RawListing{
		{Text: "Barebone Dell 3046 SFF", RawPrice: "4.300.000đ", PostTitle: "Dell Optiplex", PostID: "123", Link: "https://shop.vn/product/dell/"},
		{Text: "Barebone Dell 7040 SFF", RawPrice: "3.000.000đ", PostTitle: "Dell Optiplex", PostID: "123", Link: "https://shop.vn/product/dell/", Hidden: true},
		{Text: "Barebone HP 800 G2 SFF", RawPrice: "2.800.000đ", PostTitle: "HP EliteDesk", Link: "https://shop.vn/product/hp/"},
	}
	for i := range listings {
		listings[i].Source = SourceCatalog
	}
	records := NewCatalogBuilder().Build(listings).Records
	require.Len(t, records, 3)

	header, rows := ComparisonTable(Compare(ix, records), "https://shop.vn/")
	assert.Equal(t, "Tên Post [2]", header[0])
	assert.Equal(t, []string{"Tên SP MKCOM", "Giá MKCOM", "Giá 5giay", "Chênh lệch", "Link", "Sửa Giá"}, header[1:])
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Dell Optiplex",
		"Barebone Dell 3046 SFF",
		"4,300,000",
		"4300000",
		"-",
		"https://shop.vn/product/dell/#:~:text=Barebone%20Dell%203046%20SFF",
		"https://shop.vn/wp-admin/post.php?post=123&action=edit",
	}, rows[0])

	// same post, title only on the first row
	assert.Equal(t, "", rows[1][0])
	assert.Equal(t, "Barebone Dell 7040 SFF [Đang Ẩn]", rows[1][1])
	assert.Equal(t, "3000000", rows[1][2])
	assert.Equal(t, UnmatchedCell, rows[1][3])

	assert.Equal(t, "HP EliteDesk", rows[2][0])
	assert.Equal(t, "", rows[2][6])
}

func TestEditLink(t *testing.T) {
	assert.Equal(t, "https://shop.vn/wp-admin/post.php?post=9&action=edit", EditLink("https://shop.vn", "9"))
	assert.Equal(t, "", EditLink("https://shop.vn", ""))
}
