package reconciler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/duratrack/internal/domain"
)

var testInstruments = []domain.Instrument{
	{Code: "ISHARESIDD.JPMEMBONDSETF.EFFECTDUR.B", Name: "JPM EM Bonds ETF"},
	{Code: "ISHARESIDD.TIPSBONDETF.EFFECTDUR.B", Name: "TIPS Bond ETF"},
	{Code: "ISHARESIDD.MBSETF.EFFECTDUR.B", Name: "iShares MBS ETF"},
}

// monday is 2025-10-20; the business day before it is friday 2025-10-17
var (
	monday = time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)
	friday = time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC)
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func val(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func reading(name, value string, asOf time.Time) domain.Reading {
	rd := domain.Reading{Instrument: name, AsOf: asOf}
	if value != "" {
		rd.Value = val(value)
	}
	return rd
}

func requireCell(t *testing.T, series *domain.Series, d time.Time, col int, want string) {
	t.Helper()
	row := series.FindRow(d)
	require.NotNil(t, row, "row for %s must exist", d.Format(domain.DateLayout))
	require.True(t, row.Cells[col].Valid, "cell %d for %s must be set", col, d.Format(domain.DateLayout))
	require.True(t, row.Cells[col].Decimal.Equal(decimal.RequireFromString(want)),
		"cell %d for %s: got %s want %s", col, d.Format(domain.DateLayout), row.Cells[col].Decimal, want)
}

func TestReconcileWritesValidReadingsToTargetRow(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	rec := New(zap.NewNop())

	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.88", friday),
		reading("TIPS Bond ETF", "6.64", friday),
		reading("iShares MBS ETF", "5.9", friday),
	}

	changes, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)
	require.NotEmpty(t, changes)

	requireCell(t, series, friday, 0, "6.88")
	requireCell(t, series, friday, 1, "6.64")
	requireCell(t, series, friday, 2, "5.9")
	require.Equal(t, 1, series.Len(), "as-of equals target date, so one row covers both steps")
}

func TestReconcileFallsBackToPreviousValue(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	prev := series.EnsureRow(date(2025, 10, 16))
	prev.Cells[1] = val("6.5")

	rec := New(zap.NewNop())
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.88", friday),
		reading("TIPS Bond ETF", "0", friday), // failed extraction
	}

	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	requireCell(t, series, friday, 0, "6.88")
	requireCell(t, series, friday, 1, "6.5")

	row := series.FindRow(friday)
	require.False(t, row.Cells[2].Valid, "no reading and no history leaves the cell blank")
}

func TestReconcileFirstRunWithoutFallbackLeavesBlank(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	rec := New(zap.NewNop())

	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "", time.Time{}), // nothing extracted at all
	}

	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	row := series.FindRow(friday)
	require.NotNil(t, row)
	for col := range testInstruments {
		require.False(t, row.Cells[col].Valid, "no value may be fabricated on a first run")
	}
}

func TestReconcileCorrectsHistoricalRow(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	hist := series.EnsureRow(date(2025, 10, 15))
	hist.Cells[0] = val("5.0")

	rec := New(zap.NewNop())
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.2", date(2025, 10, 15)),
	}

	changes, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	requireCell(t, series, date(2025, 10, 15), 0, "6.2")

	var corrected bool
	for _, ch := range changes {
		if ch.Reason == ReasonCorrected {
			corrected = true
			require.Equal(t, "JPM EM Bonds ETF", ch.Instrument)
			require.True(t, ch.Old.Decimal.Equal(decimal.RequireFromString("5.0")))
			require.True(t, ch.New.Decimal.Equal(decimal.RequireFromString("6.2")))
		}
	}
	require.True(t, corrected, "a correction change must be reported")
}

func TestReconcileZeroNeverOverwritesHistory(t *testing.T) {
	// today = 2025-10-20 (Monday), series holds 6.88 for 2025-10-17,
	// the fresh reading is zero with as-of 2025-10-17: the historical
	// value must survive both steps.
	series := domain.NewSeries(testInstruments)
	hist := series.EnsureRow(friday)
	hist.Cells[0] = val("6.88")

	rec := New(zap.NewNop())
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "0", friday),
	}

	changes, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	require.Equal(t, 1, series.Len(), "no extra row may appear")
	requireCell(t, series, friday, 0, "6.88")

	for _, ch := range changes {
		require.NotEqual(t, "JPM EM Bonds ETF", ch.Instrument,
			"a zero reading must not produce a change for its instrument")
	}
}

func TestReconcileBackfillsMissingAsOfRow(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	rec := New(zap.NewNop())

	asOf := date(2025, 10, 14) // tuesday, older than the target date
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "7.1", asOf),
		reading("TIPS Bond ETF", "", asOf), // invalid stays blank in the backfilled row
	}

	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	requireCell(t, series, asOf, 0, "7.1")
	row := series.FindRow(asOf)
	require.False(t, row.Cells[1].Valid)

	// step B then carries the backfilled value into the target row
	requireCell(t, series, friday, 0, "7.1")
	require.Equal(t, 2, series.Len(), "at most two rows per run")
}

func TestReconcileMergesReadingsWithSameAsOf(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	rec := New(zap.NewNop())

	asOf := date(2025, 10, 15)
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.88", asOf),
		reading("TIPS Bond ETF", "6.64", asOf),
		reading("iShares MBS ETF", "5.9", asOf),
	}

	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	require.Equal(t, 2, series.Len(), "one merged as-of row plus the target row")
	requireCell(t, series, asOf, 0, "6.88")
	requireCell(t, series, asOf, 1, "6.64")
	requireCell(t, series, asOf, 2, "5.9")
}

func TestReconcileIsIdempotent(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	prev := series.EnsureRow(date(2025, 10, 16))
	prev.Cells[1] = val("6.5")

	rec := New(zap.NewNop())
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.88", friday),
		reading("TIPS Bond ETF", "0", friday),
	}

	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)
	rowsAfterFirst := series.Len()

	secondChanges, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	require.Equal(t, rowsAfterFirst, series.Len())
	require.Empty(t, secondChanges, "an immediate re-run must be a no-op")
	requireCell(t, series, friday, 0, "6.88")
	requireCell(t, series, friday, 1, "6.5")
}

func TestReconcileRowBudget(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	hist := series.EnsureRow(date(2025, 10, 15))
	hist.Cells[0] = val("5.5")

	rec := New(zap.NewNop())
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.88", date(2025, 10, 16)),
		reading("TIPS Bond ETF", "6.64", date(2025, 10, 16)),
	}

	before := series.Len()
	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)
	require.LessOrEqual(t, series.Len()-before, 2,
		"row count may grow by at most two per run")
}

func TestReconcileRejectsUnknownInstrument(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	rec := New(zap.NewNop())

	_, err := rec.Reconcile([]domain.Reading{
		reading("Mystery Fund", "1.0", friday),
	}, series, monday)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Mystery Fund")
}

func TestReconcileStaleAsOfOnlyTouchesHistory(t *testing.T) {
	// a reading several business days old corrects its own row; the
	// target row picks the figure up through the fallback scan, which
	// already sees the correction because step A ran first
	series := domain.NewSeries(testInstruments)
	hist := series.EnsureRow(date(2025, 10, 10))
	hist.Cells[0] = val("6.0")

	rec := New(zap.NewNop())
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "6.3", date(2025, 10, 10)),
	}

	changes, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	requireCell(t, series, date(2025, 10, 10), 0, "6.3")
	requireCell(t, series, friday, 0, "6.3")

	var carried bool
	for _, ch := range changes {
		if ch.Reason == ReasonCarryover && ch.Date.Equal(friday) {
			carried = true
		}
	}
	require.True(t, carried, "stale readings reach the target row only as carryover")
}

func TestReconcileFutureAsOfDoesNotTouchTargetRow(t *testing.T) {
	series := domain.NewSeries(testInstruments)
	rec := New(zap.NewNop())

	future := date(2025, 10, 22)
	readings := []domain.Reading{
		reading("JPM EM Bonds ETF", "7.7", future),
	}

	_, err := rec.Reconcile(readings, series, monday)
	require.NoError(t, err)

	requireCell(t, series, future, 0, "7.7")
	row := series.FindRow(friday)
	require.NotNil(t, row)
	require.False(t, row.Cells[0].Valid,
		"a future-dated figure must not be pulled back into the target row")
}
