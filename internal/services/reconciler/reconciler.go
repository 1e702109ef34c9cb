// Package reconciler applies freshly scraped duration readings to the
// persisted time series under the dual-date update rules: historical
// correction for each reading's as-of date, then mapping to the last
// business day before the run date.
package reconciler

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/duratrack/internal/domain"
)

// Reasons attached to applied changes.
const (
	// ReasonCorrected: historical cell overwritten with a differing usable reading.
	ReasonCorrected = "corrected"
	// ReasonBackfill: cell written into a previously absent as-of row.
	ReasonBackfill = "backfill"
	// ReasonTracked: usable reading written into the target-date row.
	ReasonTracked = "tracked"
	// ReasonCarryover: blank target cell filled from the nearest earlier valid row.
	ReasonCarryover = "carryover"
)

// Change is one cell-level mutation the reconciler applied.
type Change struct {
	Date       time.Time
	Instrument string
	Old        decimal.NullDecimal
	New        decimal.NullDecimal
	Reason     string
}

// Reconciler owns one run of the dual-date update over an in-memory series.
type Reconciler struct {
	l *zap.Logger
}

// New creates a reconciler.
func New(l *zap.Logger) *Reconciler {
	return &Reconciler{l: l}
}

// Reconcile mutates the series in place and returns the applied changes.
//
// Step A (historical correction) runs before step B (current tracking)
// so that step B's backward search for carryover values already sees any
// corrected historical cell. When a reading's as-of date equals the
// target date both steps act on the same row; step B never reverts a
// value step A has written.
func (r *Reconciler) Reconcile(readings []domain.Reading, series *domain.Series, today time.Time) ([]Change, error) {
	cols := make(map[string]int, len(readings))
	for _, rd := range readings {
		col, ok := series.Column(rd.Instrument)
		if !ok {
			return nil, errors.Errorf("reading for unknown instrument %q", rd.Instrument)
		}
		cols[rd.Instrument] = col
	}

	var changes []Change
	changes = append(changes, r.correctHistorical(readings, series, cols)...)

	target := domain.LastBusinessDay(today)
	r.l.Info("mapping to last business day",
		zap.String("today", domain.Day(today).Format(domain.DateLayout)),
		zap.String("target", target.Format(domain.DateLayout)))
	changes = append(changes, r.trackTarget(readings, series, target)...)

	return changes, nil
}

// correctHistorical is step A: per as-of date, overwrite stored cells
// that differ from a usable reading, or insert the row if it is absent.
// Readings sharing an as-of date merge into the one row for that date.
func (r *Reconciler) correctHistorical(readings []domain.Reading, series *domain.Series, cols map[string]int) []Change {
	byAsOf := make(map[time.Time][]domain.Reading)
	for _, rd := range readings {
		if rd.AsOf.IsZero() {
			continue
		}
		day := domain.Day(rd.AsOf)
		byAsOf[day] = append(byAsOf[day], rd)
	}

	dates := make([]time.Time, 0, len(byAsOf))
	for d := range byAsOf {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var changes []Change
	for _, asOf := range dates {
		group := byAsOf[asOf]

		existing := series.FindRow(asOf)
		if existing == nil {
			// no history for this date: back-fill a fresh row with the
			// usable figures, blanks for failed extractions
			row := series.EnsureRow(asOf)
			for _, rd := range group {
				if !rd.Usable() {
					continue
				}
				col := cols[rd.Instrument]
				row.Cells[col] = rd.Value
				changes = append(changes, Change{
					Date:       asOf,
					Instrument: rd.Instrument,
					New:        rd.Value,
					Reason:     ReasonBackfill,
				})
			}
			r.l.Info("created historical row",
				zap.String("date", asOf.Format(domain.DateLayout)))
			continue
		}

		for _, rd := range group {
			if !rd.Usable() {
				continue
			}
			col := cols[rd.Instrument]
			old := existing.Cells[col]
			if old.Valid && old.Decimal.Equal(rd.Value.Decimal) {
				continue
			}
			existing.Cells[col] = rd.Value
			changes = append(changes, Change{
				Date:       asOf,
				Instrument: rd.Instrument,
				Old:        old,
				New:        rd.Value,
				Reason:     ReasonCorrected,
			})
			r.l.Info("corrected historical value",
				zap.String("date", asOf.Format(domain.DateLayout)),
				zap.String("instrument", rd.Instrument),
				zap.String("new", rd.Value.Decimal.String()))
		}
	}
	return changes
}

// trackTarget is step B: make sure the target-date row exists and holds
// a value for every instrument that has one. Usable readings are written
// as-is; zero/invalid/missing readings fall back to the nearest earlier
// valid cell, found by an explicit reverse scan. A cell that already
// holds a valid value is never replaced by a carryover.
func (r *Reconciler) trackTarget(readings []domain.Reading, series *domain.Series, target time.Time) []Change {
	latest := make(map[string]domain.Reading, len(readings))
	for _, rd := range readings {
		latest[rd.Instrument] = rd
	}

	row := series.EnsureRow(target)

	var changes []Change
	for col, ins := range series.Instruments() {
		rd, ok := latest[ins.Name]
		if ok && rd.Usable() && !staleForTarget(rd.AsOf, target) {
			old := row.Cells[col]
			if old.Valid && old.Decimal.Equal(rd.Value.Decimal) {
				continue
			}
			row.Cells[col] = rd.Value
			changes = append(changes, Change{
				Date:       target,
				Instrument: ins.Name,
				Old:        old,
				New:        rd.Value,
				Reason:     ReasonTracked,
			})
			continue
		}

		if row.Cells[col].Valid {
			// keep the stored figure rather than overwrite it with an
			// older carryover
			continue
		}

		prev, found := series.LastValidBefore(target, col)
		if !found {
			// first-ever run with a failed extraction: leave blank,
			// never fabricate a figure
			r.l.Warn("no fallback value available",
				zap.String("instrument", ins.Name),
				zap.String("date", target.Format(domain.DateLayout)))
			continue
		}
		row.Cells[col] = prev
		changes = append(changes, Change{
			Date:       target,
			Instrument: ins.Name,
			New:        prev,
			Reason:     ReasonCarryover,
		})
		r.l.Info("carried previous value forward",
			zap.String("instrument", ins.Name),
			zap.String("date", target.Format(domain.DateLayout)),
			zap.String("value", prev.Decimal.String()))
	}
	return changes
}

// staleForTarget reports whether a reading's as-of date is too far from
// the target date to land in the target row directly. A fresh scrape
// reports the target date itself or lags by one business day; anything
// older, or dated in the future, only corrects its own historical row
// and reaches the target row through the fallback scan. A missing
// as-of date is accepted as-is.
func staleForTarget(asOf, target time.Time) bool {
	if asOf.IsZero() {
		return false
	}
	asOf = domain.Day(asOf)
	return asOf.After(target) || asOf.Before(domain.LastBusinessDay(target))
}
