// Package seriescsv persists the effective-duration time series as a
// CSV file: two header rows (technical codes, friendly names; first
// column reserved for the date) followed by one row per date.
package seriescsv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/duratrack/internal/domain"
)

// Store reads and writes the series file. The instrument set is fixed;
// a loaded file must carry exactly this header.
type Store struct {
	path        string
	instruments []domain.Instrument
}

// New creates a store for the given path and instrument header.
func New(path string, instruments []domain.Instrument) *Store {
	return &Store{path: path, instruments: instruments}
}

// Load reads the persisted series. A missing file is not an error: the
// first run starts from an empty series with the hardcoded header.
func (s *Store) Load() (*domain.Series, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewSeries(s.instruments), nil
		}
		return nil, errors.Wrapf(err, "open series file %s", s.path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read series file %s", s.path)
	}
	if len(records) < 2 {
		return nil, errors.Errorf("series file %s lacks the two header rows", s.path)
	}

	if err := s.checkHeader(records[0], records[1]); err != nil {
		return nil, err
	}

	series := domain.NewSeries(s.instruments)
	for _, record := range records[2:] {
		if len(record) != len(s.instruments)+1 {
			return nil, errors.Errorf("series row %q has %d columns, want %d",
				record[0], len(record), len(s.instruments)+1)
		}
		date, err := time.Parse(domain.DateLayout, record[0])
		if err != nil {
			return nil, errors.Wrapf(err, "bad date %q in series file", record[0])
		}
		cells := make([]decimal.NullDecimal, len(s.instruments))
		for i, raw := range record[1:] {
			if raw == "" {
				continue
			}
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "bad value %q for %s in series file",
					raw, s.instruments[i].Name)
			}
			cells[i] = decimal.NullDecimal{Decimal: d, Valid: true}
		}
		if err := series.AppendRow(date, cells); err != nil {
			return nil, errors.Wrapf(err, "series file %s", s.path)
		}
	}
	return series, nil
}

// Save writes the series to a temp file in the target directory and
// renames it over the destination, so a failed run leaves the previous
// file untouched.
func (s *Store) Save(series *domain.Series) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp series file")
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := s.writeAll(w, series); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write series file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp series file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replace series file %s", s.path)
	}
	return nil
}

func (s *Store) writeAll(w *csv.Writer, series *domain.Series) error {
	codes := make([]string, len(s.instruments)+1)
	names := make([]string, len(s.instruments)+1)
	for i, ins := range s.instruments {
		codes[i+1] = ins.Code
		names[i+1] = ins.Name
	}
	if err := w.Write(codes); err != nil {
		return errors.Wrap(err, "write header row")
	}
	if err := w.Write(names); err != nil {
		return errors.Wrap(err, "write header row")
	}

	for _, row := range series.Rows() {
		record := make([]string, len(s.instruments)+1)
		record[0] = row.Date.Format(domain.DateLayout)
		for i, cell := range row.Cells {
			if cell.Valid {
				record[i+1] = cell.Decimal.String()
			}
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "write row %s", record[0])
		}
	}
	return nil
}

func (s *Store) checkHeader(codes, names []string) error {
	if len(codes) != len(s.instruments)+1 || len(names) != len(s.instruments)+1 {
		return errors.Errorf("series header has %d columns, want %d",
			len(codes), len(s.instruments)+1)
	}
	for i, ins := range s.instruments {
		if codes[i+1] != ins.Code {
			return errors.Errorf("series header code mismatch at column %d: %q != %q",
				i+1, codes[i+1], ins.Code)
		}
		if names[i+1] != ins.Name {
			return errors.Errorf("series header name mismatch at column %d: %q != %q",
				i+1, names[i+1], ins.Name)
		}
	}
	return nil
}
