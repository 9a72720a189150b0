package patcher

import (
	"fmt"

	"cafefcli/internal/tables"
	"cafefcli/internal/tradedate"
)

// Status is the terminal state of a patch run.
type Status string

const (
	// StatusDone means the gap loop ran, or there was no gap to close.
	StatusDone Status = "done"
	// StatusGuardStopped means the gap exceeded the guard and nothing was
	// fetched.
	StatusGuardStopped Status = "guard_stopped"
	// StatusUndetermined means no row of the cumulative tables carried a
	// recognizable date.
	StatusUndetermined Status = "undetermined"
	// StatusInterrupted means the run was cancelled part way through the gap
	// loop; later days were not examined.
	StatusInterrupted Status = "interrupted"
)

// FailedDay is a gap day whose archives existed but could not be used.
type FailedDay struct {
	Date   tradedate.Date `json:"date"`
	Reason string         `json:"reason"`
}

// Report describes what a patch run did. Dates are nil when unknown.
type Report struct {
	Status         Status              `json:"status"`
	BaselineBefore *tradedate.Date     `json:"upto_max_date_before"`
	BaselineAfter  *tradedate.Date     `json:"upto_max_date_after"`
	ExpectedDate   tradedate.Date      `json:"expected_date"`
	RangeFrom      *tradedate.Date     `json:"range_from"`
	RangeTo        *tradedate.Date     `json:"range_to"`
	GapDays        int                 `json:"gap_days"`
	GuardDays      int                 `json:"guard_days"`
	GuardHit       bool                `json:"guard_hit"`
	PatchedDays    []tradedate.Date    `json:"patched_days"`
	SkippedDays    []tradedate.Date    `json:"skipped_days"`
	FailedDays     []FailedDay         `json:"failed_days"`
	AppendedRows   map[tables.Kind]int `json:"appended_rows"`
	Note           string              `json:"note"`
}

func newReport(expected tradedate.Date, guardDays int) Report {
	rows := make(map[tables.Kind]int, 4)
	for _, k := range tables.AllKinds() {
		rows[k] = 0
	}
	return Report{
		ExpectedDate: expected,
		GuardDays:    guardDays,
		PatchedDays:  []tradedate.Date{},
		SkippedDays:  []tradedate.Date{},
		FailedDays:   []FailedDay{},
		AppendedRows: rows,
	}
}

// TotalAppended returns the number of rows appended across all tables.
func (r Report) TotalAppended() int {
	total := 0
	for _, n := range r.AppendedRows {
		total += n
	}
	return total
}

// Degraded reports whether the output may lag the expected date.
func (r Report) Degraded() bool {
	if r.Status != StatusDone {
		return true
	}
	if len(r.FailedDays) > 0 {
		return true
	}
	return r.BaselineAfter == nil || r.BaselineAfter.Before(r.ExpectedDate)
}

func (r *Report) summarize() {
	r.Note = fmt.Sprintf("patched %d of %d gap days (%d skipped, %d failed), %d rows appended",
		len(r.PatchedDays), r.GapDays, len(r.SkippedDays), len(r.FailedDays), r.TotalAppended())
}

func datePtr(d tradedate.Date) *tradedate.Date {
	return &d
}
