package cdn

import (
	"fmt"
	"strings"

	"cafefcli/internal/tradedate"
)

// ArchiveKind is the archive family segment of a CDN file name.
type ArchiveKind string

const (
	// Transactions archives hold the three exchange tables.
	Transactions ArchiveKind = "SolieuGD"
	// Indices archives hold the index table.
	Indices ArchiveKind = "Index"
)

// URLBuilder renders archive URLs:
//
//	single day: {base}/{YYYYMMDD}/{Prefix}.{Kind}.{DDMMYYYY}.zip
//	cumulative: {base}/{YYYYMMDD}/{Prefix}.{Kind}.Upto{DDMMYYYY}.zip
type URLBuilder struct {
	base   string
	prefix string
}

// NewURLBuilder returns a builder for base (trailing slashes ignored).
func NewURLBuilder(base, prefix string) URLBuilder {
	return URLBuilder{base: strings.TrimRight(base, "/"), prefix: prefix}
}

// Base returns the normalized base URL.
func (b URLBuilder) Base() string {
	return b.base
}

// Daily returns the single-day archive URL for d.
func (b URLBuilder) Daily(kind ArchiveKind, d tradedate.Date) string {
	return fmt.Sprintf("%s/%s/%s.%s.%s.zip", b.base, d.Compact(), b.prefix, kind, d.DayFirst())
}

// Upto returns the cumulative archive URL published on d.
func (b URLBuilder) Upto(kind ArchiveKind, d tradedate.Date) string {
	return fmt.Sprintf("%s/%s/%s.%s.Upto%s.zip", b.base, d.Compact(), b.prefix, kind, d.DayFirst())
}

// Bundle identifies a cumulative bundle: the transaction and index archives
// published on the same date.
type Bundle struct {
	Date           tradedate.Date
	TransactionURL string
	IndexURL       string
}

// UptoBundle returns the cumulative bundle URLs for d.
func (b URLBuilder) UptoBundle(d tradedate.Date) Bundle {
	return Bundle{
		Date:           d,
		TransactionURL: b.Upto(Transactions, d),
		IndexURL:       b.Upto(Indices, d),
	}
}

// DailyBundle returns the single-day bundle URLs for d.
func (b URLBuilder) DailyBundle(d tradedate.Date) Bundle {
	return Bundle{
		Date:           d,
		TransactionURL: b.Daily(Transactions, d),
		IndexURL:       b.Daily(Indices, d),
	}
}
