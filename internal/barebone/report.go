package barebone

import (
	"fmt"
	"strings"

	"github.com/dealmungchi/barebonecrawler/helpers"
)

// HiddenMarker is appended to catalog names of rows hidden on the shop
const HiddenMarker = " [Đang Ẩn]"

// RecordTable renders forum records as a header and rows
func RecordTable(records []ProductRecord) ([]string, [][]string) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return RecordHeader, rows
}

// ComparisonTable renders catalog matches. A post title is only written on
// the first row of a run of equal titles and the title column header carries
// the number of titles written. adminURL is the shop root used for edit links.
func ComparisonTable(matches []Match, adminURL string) ([]string, [][]string) {
	rows := make([][]string, 0, len(matches))
	titles := 0
	previous := ""
	for i, m := range matches {
		r := m.Record

		title := r.PostTitle
		if i > 0 && title == previous {
			title = ""
		}
		previous = r.PostTitle
		if title != "" {
			titles++
		}

		name := r.Name
		if r.Hidden {
			name += HiddenMarker
		}

		rows = append(rows, []string{
			title,
			name,
			m.PriceCell(),
			m.OtherPriceCell(),
			m.DifferenceCell(),
			helpers.TextFragmentLink(r.Link, name),
			EditLink(adminURL, r.PostID),
		})
	}

	header := []string{
		fmt.Sprintf("Tên Post [%d]", titles),
		"Tên SP MKCOM", "Giá MKCOM", "Giá 5giay", "Chênh lệch", "Link", "Sửa Giá",
	}
	return header, rows
}

// EditLink is the WordPress admin link of a post, empty without a post id
func EditLink(adminURL, postID string) string {
	if postID == "" {
		return ""
	}
	return fmt.Sprintf("%s/wp-admin/post.php?post=%s&action=edit", strings.TrimRight(adminURL, "/"), postID)
}
