package domain

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DateLayout is the canonical date format used in the persisted series.
const DateLayout = "2006-01-02"

// Day truncates a timestamp to its calendar date in UTC.
// All series rows are keyed by such normalized dates.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Row is one dated record of the series: one cell per instrument,
// positional against the series header. A blank cell means the value
// for that date is unknown.
type Row struct {
	Date  time.Time
	Cells []decimal.NullDecimal
}

// Series is the persisted effective-duration time series: a fixed
// instrument header plus rows ordered by date ascending with at most
// one row per date.
type Series struct {
	instruments []Instrument
	rows        []*Row
}

// NewSeries creates an empty series over the given instrument header.
func NewSeries(instruments []Instrument) *Series {
	return &Series{instruments: instruments}
}

// Instruments returns the series header.
func (s *Series) Instruments() []Instrument {
	return s.instruments
}

// Column returns the cell index for the instrument with the given
// friendly name.
func (s *Series) Column(name string) (int, bool) {
	for i, ins := range s.instruments {
		if ins.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Rows returns rows in persisted order (date ascending).
func (s *Series) Rows() []*Row {
	return s.rows
}

// Len returns the number of rows.
func (s *Series) Len() int {
	return len(s.rows)
}

// FindRow returns the row for the given date, or nil if absent.
func (s *Series) FindRow(date time.Time) *Row {
	date = Day(date)
	i := sort.Search(len(s.rows), func(i int) bool {
		return !s.rows[i].Date.Before(date)
	})
	if i < len(s.rows) && s.rows[i].Date.Equal(date) {
		return s.rows[i]
	}
	return nil
}

// EnsureRow returns the row for the given date, inserting a blank row
// at its sorted position if it does not exist yet.
func (s *Series) EnsureRow(date time.Time) *Row {
	date = Day(date)
	i := sort.Search(len(s.rows), func(i int) bool {
		return !s.rows[i].Date.Before(date)
	})
	if i < len(s.rows) && s.rows[i].Date.Equal(date) {
		return s.rows[i]
	}

	row := &Row{Date: date, Cells: make([]decimal.NullDecimal, len(s.instruments))}
	s.rows = append(s.rows, nil)
	copy(s.rows[i+1:], s.rows[i:])
	s.rows[i] = row
	return row
}

// AppendRow attaches a loaded row to the series. Rows must arrive in
// strictly ascending date order; duplicates are rejected so the
// one-row-per-date invariant is auditable at load time.
func (s *Series) AppendRow(date time.Time, cells []decimal.NullDecimal) error {
	date = Day(date)
	if len(cells) != len(s.instruments) {
		return errors.Errorf("row for %s has %d cells, header has %d instruments",
			date.Format(DateLayout), len(cells), len(s.instruments))
	}
	if n := len(s.rows); n > 0 && !s.rows[n-1].Date.Before(date) {
		return errors.Errorf("row for %s is out of order or duplicates an existing date",
			date.Format(DateLayout))
	}
	s.rows = append(s.rows, &Row{Date: date, Cells: cells})
	return nil
}

// LastValidBefore scans backward from the given date (exclusive) and
// returns the most recent valid cell for the instrument column.
// The scan is an explicit reverse walk over the ordered rows.
func (s *Series) LastValidBefore(date time.Time, col int) (decimal.NullDecimal, bool) {
	date = Day(date)
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if !row.Date.Before(date) {
			continue
		}
		if cell := row.Cells[col]; cell.Valid {
			return cell, true
		}
	}
	return decimal.NullDecimal{}, false
}
