// Package tables holds the four canonical CafeF tables and the operations
// that reshape them: normalizing arbitrarily named archive members into
// canonical tables, and merging one trading day's rows into a cumulative
// table.
//
// A Table is a verbatim header line followed by an append-only body of raw
// lines. Nothing in this package interprets columns; the only semantic
// information read from a line is its trading date, recovered through a
// tradedate.Extractor. Row identity for deduplication is the exact line text.
//
// Example usage:
//
//	n := tables.NewNormalizer("CafeF", logger)
//	cumulative, err := n.Normalize(members, tables.AllKinds())
//	daily, err := n.Normalize(dayMembers, tables.AllKinds())
//	added := tables.MergeDay(cumulative[tables.HSX], daily[tables.HSX], day, tradedate.DefaultExtractor)
package tables
