// Package readingscsv is the handoff file between the extraction stage
// and the reconciler: one row per instrument with the scraped duration
// and its as-of date. "N/A" marks a failed extraction.
package readingscsv

import (
	"encoding/csv"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/duratrack/internal/domain"
)

// ErrMissingInput signals that the readings file does not exist. The
// reconciler fails fast on it rather than fabricating data.
var ErrMissingInput = errors.New("readings input file is missing")

// sentinel written for values and dates the extractor could not obtain
const naSentinel = "N/A"

var header = []string{"instrument", "effective_duration", "as_of"}

// Store reads and writes the readings handoff file.
type Store struct {
	path string
}

// New creates a store for the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// Save writes all readings, replacing any previous file.
func (s *Store) Save(readings []domain.Reading) error {
	f, err := os.Create(s.path)
	if err != nil {
		return errors.Wrapf(err, "create readings file %s", s.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "write readings header")
	}
	for _, rd := range readings {
		value := naSentinel
		if rd.Value.Valid {
			value = rd.Value.Decimal.String()
		}
		asOf := naSentinel
		if !rd.AsOf.IsZero() {
			asOf = rd.AsOf.Format(domain.DateLayout)
		}
		if err := w.Write([]string{rd.Instrument, value, asOf}); err != nil {
			return errors.Wrapf(err, "write reading for %s", rd.Instrument)
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush readings file")
}

// Load reads the readings back. A malformed value or date is an error
// naming the instrument; silently skipping it would mask extraction
// bugs.
func (s *Store) Load() ([]domain.Reading, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrMissingInput, s.path)
		}
		return nil, errors.Wrapf(err, "open readings file %s", s.path)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read readings file %s", s.path)
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(ErrMissingInput, "readings file %s is empty", s.path)
	}

	readings := make([]domain.Reading, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(header) {
			return nil, errors.Errorf("malformed reading row %v: want %d columns", record, len(header))
		}
		rd := domain.Reading{Instrument: record[0]}

		if record[1] != naSentinel && record[1] != "" {
			d, err := decimal.NewFromString(record[1])
			if err != nil {
				return nil, errors.Wrapf(err, "malformed reading for instrument %q: value %q",
					rd.Instrument, record[1])
			}
			rd.Value = decimal.NullDecimal{Decimal: d, Valid: true}
		}

		if record[2] != naSentinel && record[2] != "" {
			asOf, err := time.Parse(domain.DateLayout, record[2])
			if err != nil {
				return nil, errors.Wrapf(err, "malformed reading for instrument %q: as-of date %q",
					rd.Instrument, record[2])
			}
			rd.AsOf = domain.Day(asOf)
		}

		readings = append(readings, rd)
	}
	return readings, nil
}
