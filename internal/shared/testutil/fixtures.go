package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"testing"

	"cafefcli/internal/cdn"
	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

// Header is the column header the CDN ships in every table.
const Header = "<Ticker>,<DTYYYYMMDD>,<Open>,<High>,<Low>,<Close>,<Volume>"

// Row renders one table line for ticker on d.
func Row(ticker string, d tradedate.Date) string {
	return fmt.Sprintf("%s,%s,10,11,9,10.5,1000", ticker, d.Compact())
}

// Rows maps a table kind to its body lines.
type Rows map[tables.Kind][]string

// DayRows returns one row per table for d.
func DayRows(d tradedate.Date) Rows {
	return Rows{
		tables.HSX:   {Row("VIC", d)},
		tables.HNX:   {Row("SHS", d)},
		tables.UPCOM: {Row("BSR", d)},
		tables.INDEX: {Row("VNINDEX", d)},
	}
}

// Merge returns the rows of r followed by the rows of o, per kind.
func (r Rows) Merge(o Rows) Rows {
	out := Rows{}
	for _, k := range tables.AllKinds() {
		out[k] = append(append([]string(nil), r[k]...), o[k]...)
	}
	return out
}

// ZipArchive builds an in-memory zip archive. Members are written in name
// order.
func ZipArchive(t testing.TB, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write zip member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// TableCSV renders a table file with the standard header.
func TableCSV(lines []string) string {
	var b bytes.Buffer
	b.WriteString(Header)
	b.WriteString("\r\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	return b.String()
}

// TransactionsArchive builds a SolieuGD archive holding the three exchange
// tables, each named "CafeF.{TAG}.{suffix}.csv".
func TransactionsArchive(t testing.TB, suffix string, rows Rows) []byte {
	t.Helper()
	files := make(map[string]string)
	for _, k := range []tables.Kind{tables.HSX, tables.HNX, tables.UPCOM} {
		files[fmt.Sprintf("CafeF.%s.%s.csv", k.Tag(), suffix)] = TableCSV(rows[k])
	}
	return ZipArchive(t, files)
}

// IndexArchive builds an Index archive holding the index table.
func IndexArchive(t testing.TB, suffix string, rows Rows) []byte {
	t.Helper()
	return ZipArchive(t, map[string]string{
		fmt.Sprintf("CafeF.INDEX.%s.csv", suffix): TableCSV(rows[tables.INDEX]),
	})
}

// CDN publishes fixture archives onto a FakeSource at their real URLs.
type CDN struct {
	Source *FakeSource
	URLs   cdn.URLBuilder
}

// NewCDN returns an empty fake CDN rooted at base.
func NewCDN(base string) *CDN {
	return &CDN{
		Source: NewFakeSource(),
		URLs:   cdn.NewURLBuilder(base, tables.DefaultPrefix),
	}
}

// PublishDaily publishes the single-day transaction and index archives for d.
func (c *CDN) PublishDaily(t testing.TB, d tradedate.Date, rows Rows) {
	t.Helper()
	c.Source.Put(c.URLs.Daily(cdn.Transactions, d), TransactionsArchive(t, d.DayFirst(), rows))
	c.Source.Put(c.URLs.Daily(cdn.Indices, d), IndexArchive(t, d.DayFirst(), rows))
}

// PublishDailyIndex publishes only the single-day index archive for d.
func (c *CDN) PublishDailyIndex(t testing.TB, d tradedate.Date, rows Rows) {
	t.Helper()
	c.Source.Put(c.URLs.Daily(cdn.Indices, d), IndexArchive(t, d.DayFirst(), rows))
}

// PublishUpto publishes the cumulative bundle dated d.
func (c *CDN) PublishUpto(t testing.TB, d tradedate.Date, rows Rows) {
	t.Helper()
	suffix := "Upto" + d.DayFirst()
	c.Source.Put(c.URLs.Upto(cdn.Transactions, d), TransactionsArchive(t, suffix, rows))
	c.Source.Put(c.URLs.Upto(cdn.Indices, d), IndexArchive(t, suffix, rows))
}
