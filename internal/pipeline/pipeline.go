// Package pipeline turns a raw registry extract into the cleaned table.
//
// Steps run in a fixed order and each one is gated on the columns it reads. A
// missing column skips the step and leaves its derived column absent. Only the fetch
// can fail a run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/metrics"
	"negociosverdes/pkg/model"

	"github.com/google/uuid"
)

var ErrFetch = errors.New("failed to fetch raw table")

type (
	Outcome    = model.StepOutcome
	StepReport = model.StepReport
	Report     = model.RunReport
)

const (
	Applied = model.StepApplied
	Skipped = model.StepSkipped
)

type Result struct {
	Table  *model.Table
	Report Report
}

// Fetcher is the source side of a run.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.Table, error)
	Name() string
}

type Pipeline struct {
	source  Fetcher
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(source Fetcher, log *logger.Logger, m *metrics.Metrics) *Pipeline {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline{
		source:  source,
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

func (p *Pipeline) SourceName() string {
	return p.source.Name()
}

// Run fetches the raw table and cleans it. A fetch failure returns an error wrapping
// ErrFetch and no table.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	report := Report{
		RunID:     uuid.NewString(),
		Source:    p.source.Name(),
		StartedAt: p.now(),
	}
	log := p.log.With("run_id", report.RunID, "source", report.Source)

	raw, err := p.source.Fetch(ctx)
	if err != nil {
		p.metrics.PipelineRun("fetch_error", p.now().Sub(report.StartedAt))
		log.Error("Pipeline fetch failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	table, stepReports := Clean(raw)
	report.Steps = stepReports
	report.InputRows = raw.Len()
	report.OutputRows = table.Len()
	report.Aligned = countAligned(table)
	report.FinishedAt = p.now()

	for _, s := range report.Steps {
		p.metrics.Step(s.Name, string(s.Outcome), s.Changed)
		log.Debug("Pipeline step finished",
			"step", s.Name,
			"outcome", s.Outcome,
			"reason", s.Reason,
			"changed_cells", s.Changed,
		)
	}
	p.metrics.PipelineRun("success", report.FinishedAt.Sub(report.StartedAt))
	p.metrics.Snapshot(report.OutputRows, report.Aligned)

	log.Info("Pipeline run completed",
		"rows", report.OutputRows,
		"aligned_rows", report.Aligned,
		"skipped_steps", report.SkippedSteps(),
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)

	return &Result{Table: table, Report: report}, nil
}

// Clean applies every step to a copy of raw. raw itself is never modified.
func Clean(raw *model.Table) (*model.Table, []StepReport) {
	table := raw.Clone()
	reports := make([]StepReport, 0, len(steps))
	for _, s := range steps {
		if reason := s.missing(table); reason != "" {
			reports = append(reports, StepReport{Name: s.name, Outcome: Skipped, Reason: reason})
			continue
		}
		reports = append(reports, StepReport{Name: s.name, Outcome: Applied, Changed: s.apply(table)})
	}
	return table, reports
}

func countAligned(t *model.Table) int {
	n := 0
	for _, v := range t.Column(model.ColumnAligned) {
		if v.Text() == model.AlignedYes {
			n++
		}
	}
	return n
}
