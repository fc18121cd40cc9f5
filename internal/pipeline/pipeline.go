// Package pipeline orchestrates one survey file end to end: stream rows,
// tally the chart, parse-or-skip, aggregate, write the report, render the
// chart, and optionally publish the validated events.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/junctionworks/traffic-survey-service/internal/adapter/csvfile"
	"github.com/junctionworks/traffic-survey-service/internal/chart"
	"github.com/junctionworks/traffic-survey-service/internal/config"
	"github.com/junctionworks/traffic-survey-service/internal/domain"
	"github.com/junctionworks/traffic-survey-service/internal/observability"
)

// EventPublisher forwards validated events to a downstream sink. A nil
// publisher disables publishing.
type EventPublisher interface {
	PublishEvents(ctx context.Context, events []domain.VehicleEvent) error
}

// Pipeline runs survey files through the full analyze flow. Files are
// processed one at a time; each call owns its accumulator, so two runs
// over the same file yield the same summary.
type Pipeline struct {
	cfg       *config.Config
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	ready atomic.Bool

	mu     sync.Mutex
	latest *domain.Summary
}

// New creates a Pipeline. Pass a nil publisher to disable Kafka output.
func New(cfg *config.Config, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one file has been processed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no survey file processed yet")
	}
	return nil
}

// LatestSummary returns the most recent successful summary, if any.
func (p *Pipeline) LatestSummary() (domain.Summary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.latest == nil {
		return domain.Summary{}, false
	}
	return *p.latest, true
}

// ProcessFile runs one survey file and writes the report and chart
// artifacts. Malformed rows are dropped and counted; a missing file or an
// empty one (domain.ErrNoVehicles) is fatal for this file only, so the
// caller can retry with a different date.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (domain.Summary, error) {
	start := time.Now()

	summary, tally, events, err := p.aggregateFile(ctx, path)
	if err != nil {
		p.metrics.FilesFailed.Inc()
		return domain.Summary{}, err
	}

	if err := p.writeReport(summary); err != nil {
		p.metrics.FilesFailed.Inc()
		return domain.Summary{}, err
	}
	if err := p.writeChart(tally, path); err != nil {
		p.metrics.FilesFailed.Inc()
		return domain.Summary{}, err
	}

	// Publishing is best-effort: the report and chart are already on disk,
	// so a sink outage must not fail the run.
	if p.publisher != nil {
		if err := p.publisher.PublishEvents(ctx, events); err != nil {
			p.logger.Warn("publish events failed", "error", err, "file", path, "events", len(events))
		} else {
			p.metrics.EventsPublished.Add(float64(len(events)))
		}
	}

	p.metrics.FilesProcessed.Inc()
	p.metrics.FileProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.mu.Lock()
	p.latest = &summary
	p.mu.Unlock()

	p.logger.Info("survey file processed",
		"file", path,
		"vehicles", summary.TotalVehicles,
		"duration", time.Since(start),
	)
	return summary, nil
}

// AnalyzeDate locates the survey file for the given date under the data
// directory and processes it. When several files carry the same date stamp
// the lexically first one wins; interactive callers list the matches and
// pick instead.
func (p *Pipeline) AnalyzeDate(ctx context.Context, day, month, year int) (domain.Summary, error) {
	matches, err := csvfile.FindByDate(p.cfg.DataDir, day, month, year)
	if err != nil {
		return domain.Summary{}, err
	}
	sort.Strings(matches)
	return p.ProcessFile(ctx, filepath.Join(p.cfg.DataDir, matches[0]))
}

// aggregateFile streams the file once, feeding both the aggregator and
// the chart tally, and collects validated events for publishing.
func (p *Pipeline) aggregateFile(ctx context.Context, path string) (domain.Summary, *chart.Tally, []domain.VehicleEvent, error) {
	reader, err := csvfile.Open(path)
	if err != nil {
		return domain.Summary{}, nil, nil, err
	}
	defer reader.Close()

	agg := domain.NewAggregator()
	tally := &chart.Tally{}
	var events []domain.VehicleEvent

	var rows, skipped int
	for {
		if ctx.Err() != nil {
			return domain.Summary{}, nil, nil, ctx.Err()
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Summary{}, nil, nil, err
		}
		rows++
		p.metrics.RowsRead.Inc()

		// The chart tally sees every raw row, valid or not; its own hour
		// cast decides what it keeps.
		tally.Add(row)

		event, err := domain.ParseRow(row)
		if err != nil {
			if errors.Is(err, domain.ErrSkipRow) {
				skipped++
				p.metrics.RowsSkipped.Inc()
				p.logger.Debug("row skipped", "file", path, "row", rows, "error", err)
				continue
			}
			return domain.Summary{}, nil, nil, err
		}

		agg.Add(event)
		if p.publisher != nil {
			events = append(events, event)
		}
	}

	p.metrics.RowsPerFile.Observe(float64(rows))
	if skipped > 0 {
		p.logger.Info("malformed rows dropped", "file", path, "skipped", skipped, "rows", rows)
	}

	summary, err := agg.Summarize()
	if err != nil {
		return domain.Summary{}, nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	summary.SourceFile = path

	return summary, tally, events, nil
}

// writeReport renders the fixed-format report, overwriting any previous
// run's output.
func (p *Pipeline) writeReport(summary domain.Summary) error {
	f, err := os.Create(p.cfg.ReportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	for _, line := range domain.FormatReport(summary) {
		if _, err := fmt.Fprintln(f, line); err != nil {
			f.Close()
			return fmt.Errorf("write report: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

// writeChart renders the hour-by-junction histogram from the tally built
// during aggregateFile.
func (p *Pipeline) writeChart(tally *chart.Tally, sourcePath string) error {
	f, err := os.Create(p.cfg.ChartPath)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}

	switch p.cfg.ChartFormat {
	case "ascii":
		err = chart.WriteASCII(tally, f)
	default:
		canvas := chart.NewSVGCanvas(chartTitle(sourcePath))
		chart.Render(tally, canvas)
		_, err = canvas.WriteTo(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("write chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart: %w", err)
	}
	return nil
}

// chartTitle derives the chart heading from the survey file name, using
// the embedded DDMMYYYY token when the file follows the naming convention.
func chartTitle(sourcePath string) string {
	name := filepath.Base(sourcePath)
	if strings.HasPrefix(name, csvfile.FilePrefix) && strings.HasSuffix(name, ".csv") {
		if stamp := strings.TrimSuffix(strings.TrimPrefix(name, csvfile.FilePrefix), ".csv"); stamp != "" {
			return "Traffic Data Histogram - " + stamp
		}
	}
	return "Traffic Data Histogram - " + name
}
