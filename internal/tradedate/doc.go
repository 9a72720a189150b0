// Package tradedate recognizes trading dates inside loosely formatted market
// data.
//
// The CafeF tables carry no stable column contract: the date column moves
// between schema variants and its text encoding changes between ISO
// (2024-03-15), day-first Vietnamese (15/03/2024, 15-3-2024), compact
// (20240315) and timestamp (20240315093000) forms. ParseToken recognizes a
// single field, ExtractFromLine scans a whole comma-delimited line and
// returns the first field that looks like a date.
//
// Date is a plain calendar date. Recognized dates satisfy 1<=month<=12 and
// 1<=day<=31 but are not checked against the length of the month, so
// 2024-02-30 is a valid Date. Arithmetic normalizes through time.Time.
//
// Clock supplies "today" in a fixed civil offset (UTC+7 for HOSE/HNX) without
// any daylight-saving logic.
package tradedate
