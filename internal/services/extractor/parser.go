// Package extractor fetches iShares product pages and pulls the
// effective-duration figure and its "as of" date out of the rendered
// HTML. Fetching and parsing are separate so the parsing logic stays
// testable without a browser.
package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
)

var (
	durationInline = regexp.MustCompile(`(?i)effective\s+duration[^0-9]*([0-9]+(?:\.[0-9]+)?)`)
	bareNumber     = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*(?:yrs|years|year)?$`)
	asOfAnnotation = regexp.MustCompile(`(?i)as of[:\s]+([A-Za-z0-9 /,.-]+)`)
)

// how many text lines around the duration label are searched for the
// "as of" annotation before falling back to a whole-page scan
const asOfContextRadius = 4

// PageData is what one product page yields. Duration is invalid and
// AsOf is zero when the page carried no recognizable figure or date.
type PageData struct {
	Duration decimal.NullDecimal
	AsOf     time.Time
}

// ParsePage extracts the effective duration and its as-of date from
// rendered page HTML.
func ParsePage(src string) PageData {
	lines := flattenHTML(src)

	var out PageData
	labelIdx := -1
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "effective duration") {
			continue
		}
		labelIdx = i
		if m := durationInline.FindStringSubmatch(line); m != nil {
			out.Duration = parseDuration(m[1])
			break
		}
		// figure typically sits in the next cell, rendered as its own text node
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			if m := bareNumber.FindStringSubmatch(lines[j]); m != nil {
				out.Duration = parseDuration(m[1])
				break
			}
		}
		break
	}

	if labelIdx >= 0 {
		lo := labelIdx - asOfContextRadius
		if lo < 0 {
			lo = 0
		}
		hi := labelIdx + asOfContextRadius
		if hi >= len(lines) {
			hi = len(lines) - 1
		}
		for i := lo; i <= hi; i++ {
			if t, ok := matchAsOf(lines[i]); ok {
				out.AsOf = t
				return out
			}
		}
	}

	// annotation not adjacent to the label: take the first parseable one anywhere
	for _, line := range lines {
		if t, ok := matchAsOf(line); ok {
			out.AsOf = t
			return out
		}
	}
	return out
}

func parseDuration(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func matchAsOf(line string) (time.Time, bool) {
	m := asOfAnnotation.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	t, err := ParseDate(m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// flattenHTML renders the document as a flat list of trimmed text
// lines, one per text node, skipping script/style content.
func flattenHTML(src string) []string {
	z := html.NewTokenizer(strings.NewReader(src))

	var lines []string
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return lines
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "noscript":
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				lines = append(lines, text)
			}
		}
	}
}
