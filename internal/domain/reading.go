package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Reading is one scraped effective-duration figure for one instrument.
// It exists only within a single pipeline run.
type Reading struct {
	// Instrument is the friendly name matching the series header.
	Instrument string
	// Value is the scraped figure; invalid when extraction failed.
	Value decimal.NullDecimal
	// AsOf is the calendar date the source reports the figure for.
	// Zero when the source page carried no recognizable date.
	AsOf time.Time
}

// Usable reports whether the reading carries a real figure.
// Zero is always a sentinel for "extraction failed / market closed",
// never a legitimate duration.
func (r Reading) Usable() bool {
	return r.Value.Valid && !r.Value.Decimal.IsZero()
}

// String returns the string representation.
func (r Reading) String() string {
	value := "N/A"
	if r.Value.Valid {
		value = r.Value.Decimal.String()
	}
	asOf := "N/A"
	if !r.AsOf.IsZero() {
		asOf = r.AsOf.Format(DateLayout)
	}
	return fmt.Sprintf("%s value: %s as of: %s", r.Instrument, value, asOf)
}
