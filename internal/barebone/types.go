package barebone

import (
	"strconv"
	"strings"
)

// Source identifies where a listing was scraped from
type Source string

const (
	// SourceForum is the 5giay classifieds thread
	SourceForum Source = "5giay"
	// SourceCatalog is the minhkhoicomputer product catalog
	SourceCatalog Source = "mkcom"
)

// Brand is the coarse vendor classification of a listing
type Brand string

const (
	BrandDell    Brand = "Dell"
	BrandHP      Brand = "HP"
	BrandLenovo  Brand = "Lenovo"
	BrandUnknown Brand = ""
)

// FormFactor is the chassis class of a barebone
type FormFactor string

const (
	FormSFF     FormFactor = "SFF"
	FormTiny    FormFactor = "TINY"
	FormMini    FormFactor = "MINI"
	FormMT      FormFactor = "MT"
	FormDT      FormFactor = "DT"
	FormWork    FormFactor = "WORK"
	FormUnknown FormFactor = ""
)

// FanCount is the number of CPU coolers a listing mentions
type FanCount int

const (
	FanOne FanCount = 1
	FanTwo FanCount = 2
)

// Label returns the column text used in exported tables
func (f FanCount) Label() string {
	if f == FanTwo {
		return "2 tản"
	}
	return "1 tản"
}

// RawListing is a single candidate line or table row mentioning "barebone".
// It only lives for one crawl pass.
type RawListing struct {
	Text      string
	Source    Source
	Link      string
	Page      int
	PostTitle string
	PostID    string
	Hidden    bool

	// RawPrice is set when the source keeps the price in its own cell
	RawPrice string
}

// ProductRecord is the structured form of a listing. Records are values and
// are never mutated after Build returns them.
type ProductRecord struct {
	OriginalName   string     `json:"original_name"`
	Name           string     `json:"name"`
	NormalizedName string     `json:"normalized_name"`
	Brand          Brand      `json:"brand"`
	ModelCodes     []string   `json:"model_codes,omitempty"`
	FormFactor     FormFactor `json:"form_factor"`
	FanCount       FanCount   `json:"fan_count"`
	PSUWatts       []string   `json:"psu_watts,omitempty"`
	BundledCPU     string     `json:"bundled_cpu,omitempty"`
	BasePrice      int64      `json:"base_price"`
	Surcharge      int64      `json:"surcharge"`
	FinalPrice     int64      `json:"final_price"`

	Source    Source `json:"source"`
	Link      string `json:"link,omitempty"`
	Page      int    `json:"page,omitempty"`
	PostTitle string `json:"post_title,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`
}

// ModelLabel joins the model codes the way the tables show them
func (r ProductRecord) ModelLabel() string {
	return strings.Join(r.ModelCodes, " | ")
}

// PSULabel returns the PSU summary or "-" when none was found
func (r ProductRecord) PSULabel() string {
	if len(r.PSUWatts) == 0 {
		return "-"
	}
	return strings.Join(r.PSUWatts, " / ")
}

// CPULabel returns the bundled CPU or "-"
func (r ProductRecord) CPULabel() string {
	if r.BundledCPU == "" {
		return "-"
	}
	return r.BundledCPU
}

// SurchargeLabel is empty when no surcharge applies
func (r ProductRecord) SurchargeLabel() string {
	if r.Surcharge == 0 {
		return ""
	}
	return strconv.FormatInt(r.Surcharge, 10)
}

// Row renders the record in the forum table column order
func (r ProductRecord) Row() []string {
	return []string{
		r.OriginalName,
		r.NormalizedName,
		string(r.Brand),
		r.ModelLabel(),
		string(r.FormFactor),
		r.FanCount.Label(),
		r.PSULabel(),
		strconv.FormatInt(r.BasePrice, 10),
		r.SurchargeLabel(),
		strconv.FormatInt(r.FinalPrice, 10),
		r.CPULabel(),
	}
}

// RecordHeader is the header of the forum table
var RecordHeader = []string{
	"Tên SP Gốc", "Tên SP đã sửa", "Hãng", "Model/Series", "Form Factor", "Số tản CPU",
	"PSU", "Giá bán (VNĐ)", "+ VC", "Giá bán VC", "CPU đi kèm",
}

// Column names the comparison reads back from a forum table
const (
	ColumnNormalizedName = "Tên SP đã sửa"
	ColumnFinalPrice     = "Giá bán VC"
)
