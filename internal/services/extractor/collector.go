package extractor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/duratrack/internal/domain"
	"github.com/vadiminshakov/duratrack/pkg/retrier"
)

// Collector walks the instrument table and produces one Reading per
// instrument. A page that cannot be fetched or parsed yields an invalid
// Reading; the reconciler's fallback policy deals with it downstream.
type Collector struct {
	fetcher PageFetcher
	retrier *retrier.Retrier
	delay   time.Duration
	l       *zap.Logger
}

// NewCollector creates a collector. delay is the pause between page
// visits, kept to avoid hammering the source.
func NewCollector(fetcher PageFetcher, r *retrier.Retrier, delay time.Duration, l *zap.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		retrier: r,
		delay:   delay,
		l:       l,
	}
}

// Collect fetches every instrument's page and extracts its reading.
// It fails only when context is canceled or no page at all could be
// fetched; per-instrument failures degrade to invalid readings.
func (c *Collector) Collect(ctx context.Context, instruments []domain.Instrument) ([]domain.Reading, error) {
	readings := make([]domain.Reading, 0, len(instruments))
	fetched := 0

	for i, ins := range instruments {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		reading := domain.Reading{Instrument: ins.Name}

		src, err := retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) (string, error) {
			return c.fetcher.Fetch(ctx, ins.URL)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.l.Warn("page fetch failed, recording invalid reading",
				zap.String("instrument", ins.Name),
				zap.String("url", ins.URL),
				zap.Error(err))
			readings = append(readings, reading)
			continue
		}
		fetched++

		data := ParsePage(src)
		reading.Value = data.Duration
		reading.AsOf = data.AsOf

		if !reading.Usable() {
			c.l.Warn("no duration figure on page",
				zap.String("instrument", ins.Name))
		} else {
			c.l.Info("extracted reading",
				zap.String("instrument", ins.Name),
				zap.String("duration", data.Duration.Decimal.String()),
				zap.String("as_of", data.AsOf.Format(domain.DateLayout)))
		}
		readings = append(readings, reading)
	}

	if fetched == 0 {
		return nil, errors.New("no source pages could be fetched")
	}
	return readings, nil
}
