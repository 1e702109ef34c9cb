// Package app wires the pipeline stages together: extract readings
// from the source pages, then reconcile them into the persisted series.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/duratrack/internal/domain"
	"github.com/vadiminshakov/duratrack/internal/services/extractor"
	"github.com/vadiminshakov/duratrack/internal/services/reconciler"
	"github.com/vadiminshakov/duratrack/internal/storage/readingscsv"
	"github.com/vadiminshakov/duratrack/internal/storage/runjournal"
	"github.com/vadiminshakov/duratrack/internal/storage/seriescsv"
)

// Pipeline runs one extraction+reconciliation pass. Collector is nil
// when the extract stage is skipped.
type Pipeline struct {
	instruments []domain.Instrument
	collector   *extractor.Collector
	readings    *readingscsv.Store
	series      *seriescsv.Store
	journal     *runjournal.WALStore
	rec         *reconciler.Reconciler
	l           *zap.Logger
	now         func() time.Time
}

// New creates a pipeline. journal may be nil; the audit trail is
// advisory and the run does not depend on it.
func New(
	instruments []domain.Instrument,
	collector *extractor.Collector,
	readings *readingscsv.Store,
	series *seriescsv.Store,
	journal *runjournal.WALStore,
	rec *reconciler.Reconciler,
	l *zap.Logger,
) *Pipeline {
	return &Pipeline{
		instruments: instruments,
		collector:   collector,
		readings:    readings,
		series:      series,
		journal:     journal,
		rec:         rec,
		l:           l,
		now:         time.Now,
	}
}

// Run executes the stages in order. A failing stage aborts the run and
// the error names the stage; there is no stage-level retry.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	p.l.Info("pipeline run started", zap.String("run_id", runID))

	if p.collector != nil {
		if err := p.extract(ctx); err != nil {
			return errors.Wrap(err, "extract stage")
		}
	} else {
		p.l.Info("extract stage skipped, using existing readings file")
	}

	if err := p.reconcile(runID); err != nil {
		return errors.Wrap(err, "reconcile stage")
	}

	p.l.Info("pipeline run finished", zap.String("run_id", runID))
	return nil
}

func (p *Pipeline) extract(ctx context.Context) error {
	readings, err := p.collector.Collect(ctx, p.instruments)
	if err != nil {
		return err
	}
	if err := p.readings.Save(readings); err != nil {
		return err
	}
	p.l.Info("readings written", zap.Int("count", len(readings)))
	return nil
}

func (p *Pipeline) reconcile(runID string) error {
	readings, err := p.readings.Load()
	if err != nil {
		return err
	}

	series, err := p.series.Load()
	if err != nil {
		return err
	}
	rowsBefore := series.Len()

	today := p.now()
	changes, err := p.rec.Reconcile(readings, series, today)
	if err != nil {
		return err
	}

	if err := p.series.Save(series); err != nil {
		return err
	}

	p.journalRun(runID, today, changes)

	p.l.Info("series updated",
		zap.Int("rows_before", rowsBefore),
		zap.Int("rows_after", series.Len()),
		zap.Int("changes", len(changes)))
	return nil
}

// journalRun appends the audit trail. Append failures are logged and
// do not fail the run: the series save already happened and the
// journal is advisory.
func (p *Pipeline) journalRun(runID string, today time.Time, changes []reconciler.Change) {
	if p.journal == nil {
		return
	}

	now := p.now()
	target := domain.LastBusinessDay(today)
	entries := make([]runjournal.Entry, 0, len(changes)+1)
	entries = append(entries, runjournal.Entry{
		RunID:      runID,
		At:         now,
		Kind:       "run",
		Today:      domain.Day(today).Format(domain.DateLayout),
		TargetDate: target.Format(domain.DateLayout),
	})
	for _, ch := range changes {
		entry := runjournal.Entry{
			RunID:      runID,
			At:         now,
			Kind:       "change",
			Date:       ch.Date.Format(domain.DateLayout),
			Instrument: ch.Instrument,
			Reason:     ch.Reason,
		}
		if ch.Old.Valid {
			entry.Old = ch.Old.Decimal.String()
		}
		if ch.New.Valid {
			entry.New = ch.New.Decimal.String()
		}
		entries = append(entries, entry)
	}

	for _, entry := range entries {
		if err := p.journal.Append(entry); err != nil {
			p.l.Warn("journal append failed", zap.Error(err))
			return
		}
	}
}
