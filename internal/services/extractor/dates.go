package extractor

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/duratrack/internal/domain"
)

// dateLayouts covers the formats the iShares pages have been observed
// to use for the "as of" annotation. Month-first layouts come before
// day-first ones so ambiguous numeric dates resolve the US way.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2/Jan/2006",
	"2/January/2006",
	"2-Jan-2006",
	"2-January-2006",
	"01/02/2006",
	"01-02-2006",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"2006/01/02",
	"Jan 2 2006",
	"January 2 2006",
}

// ParseDate parses a scraped "as of" date in any supported layout and
// normalizes it to a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "as of")
	s = strings.TrimPrefix(s, "As of")
	s = strings.Trim(s, " \t.,")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Day(t), nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date format: %q", s)
}
