package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/junctionworks/traffic-survey-service/internal/config"
	"github.com/junctionworks/traffic-survey-service/internal/domain"
	"github.com/junctionworks/traffic-survey-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `JunctionName,travel_Direction_in,travel_Direction_out,VehicleSpeed,VehicleType,elctricHybrid,Weather_Conditions,JunctionSpeedLimit,timeOfDay
Elm Avenue/Rabbit Road,N,E,35,Car,False,Light Rain,30,08:15
Elm Avenue/Rabbit Road,S,S,20,Scooter,True,Light Rain,30,08:40
Hanley Highway/Westway,E,W,45,Truck,False,Clear,30,17:05
Hanley Highway/Westway,W,E,28,Bicycle,False,Clear,30,17:30
Hanley Highway/Westway,N,S,31,Car,True,Clear,30,17:55
`

// One unparsable speed in the middle; everything else is valid.
const csvWithBadRow = `JunctionName,travel_Direction_in,travel_Direction_out,VehicleSpeed,VehicleType,elctricHybrid,Weather_Conditions,JunctionSpeedLimit,timeOfDay
Elm Avenue/Rabbit Road,N,E,35,Car,False,Clear,30,08:15
Hanley Highway/Westway,E,W,fast,Truck,False,Clear,30,09:05
Hanley Highway/Westway,W,E,28,Car,False,Clear,30,10:30
`

type capturingPublisher struct {
	events []domain.VehicleEvent
	err    error
}

func (c *capturingPublisher) PublishEvents(_ context.Context, events []domain.VehicleEvent) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, events...)
	return nil
}

func newTestPipeline(t *testing.T, chartFormat string, publisher EventPublisher) (*Pipeline, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:     dir,
		ReportPath:  filepath.Join(dir, "results.txt"),
		ChartPath:   filepath.Join(dir, "histogram.out"),
		ChartFormat: chartFormat,
	}
	logger := observability.NewLoggerTo(os.Stderr, "error", "text")
	return New(cfg, publisher, logger, observability.NewMetricsForTesting()), cfg
}

func writeSurveyFile(t *testing.T, cfg *config.Config, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.DataDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFile(t *testing.T) {
	p, cfg := newTestPipeline(t, "svg", nil)
	path := writeSurveyFile(t, cfg, "traffic_data15062024.csv", sampleCSV)

	summary, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalVehicles)
	assert.Equal(t, 1, summary.TotalTrucks)
	assert.Equal(t, 2, summary.TotalElectric)
	assert.Equal(t, 20, summary.PctTrucks)
	assert.Equal(t, path, summary.SourceFile)
	assert.Equal(t, []string{"Between 17:00 and 18:00"}, summary.PeakHourRanges)

	report, err := os.ReadFile(cfg.ReportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(report), "\n"), "\n")
	assert.Len(t, lines, 22)
	assert.Equal(t, "***************************", lines[0])
	assert.Equal(t, "The total number of vehicles recorded on the selected date: 5", lines[4])

	chartOut, err := os.ReadFile(cfg.ChartPath)
	require.NoError(t, err)
	assert.Contains(t, string(chartOut), "<svg")
	assert.Contains(t, string(chartOut), "Traffic Data Histogram - 15062024")
}

func TestProcessFile_SkipsMalformedRows(t *testing.T) {
	p, cfg := newTestPipeline(t, "svg", nil)
	path := writeSurveyFile(t, cfg, "traffic_data16062024.csv", csvWithBadRow)

	summary, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalVehicles)
	assert.Equal(t, 0, summary.TotalTrucks)
	assert.Equal(t, float64(3), testutil.ToFloat64(p.metrics.RowsRead))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.RowsSkipped))
}

func TestProcessFile_EmptyFileIsFatal(t *testing.T) {
	p, cfg := newTestPipeline(t, "svg", nil)
	header := strings.SplitN(sampleCSV, "\n", 2)[0] + "\n"
	path := writeSurveyFile(t, cfg, "traffic_data17062024.csv", header)

	_, err := p.ProcessFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoVehicles)
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.FilesFailed))

	_, err = os.Stat(cfg.ReportPath)
	assert.True(t, os.IsNotExist(err), "no report should be written for an empty file")
}

func TestProcessFile_MissingFile(t *testing.T) {
	p, cfg := newTestPipeline(t, "svg", nil)

	_, err := p.ProcessFile(context.Background(), filepath.Join(cfg.DataDir, "traffic_data01012024.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.FilesFailed))
}

func TestProcessFile_ASCIIChart(t *testing.T) {
	p, cfg := newTestPipeline(t, "ascii", nil)
	path := writeSurveyFile(t, cfg, "traffic_data15062024.csv", sampleCSV)

	_, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	chartOut, err := os.ReadFile(cfg.ChartPath)
	require.NoError(t, err)
	assert.Contains(t, string(chartOut), "08:00 E")
	assert.Contains(t, string(chartOut), "17:00 H")
	assert.NotContains(t, string(chartOut), "<svg")
}

func TestProcessFile_PublishesValidEvents(t *testing.T) {
	publisher := &capturingPublisher{}
	p, cfg := newTestPipeline(t, "svg", publisher)
	path := writeSurveyFile(t, cfg, "traffic_data16062024.csv", csvWithBadRow)

	_, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	// The malformed row is dropped before publishing.
	require.Len(t, publisher.events, 2)
	assert.Equal(t, domain.JunctionElm, publisher.events[0].JunctionName)
	assert.Equal(t, "10", publisher.events[1].Hour)
	assert.Equal(t, float64(2), testutil.ToFloat64(p.metrics.EventsPublished))
}

func TestProcessFile_PublishFailureDoesNotFailRun(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker down")}
	p, cfg := newTestPipeline(t, "svg", publisher)
	path := writeSurveyFile(t, cfg, "traffic_data15062024.csv", sampleCSV)

	summary, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalVehicles)
	assert.Equal(t, float64(0), testutil.ToFloat64(p.metrics.EventsPublished))

	_, statErr := os.Stat(cfg.ReportPath)
	assert.NoError(t, statErr)
}

func TestReadinessAndLatestSummary(t *testing.T) {
	p, cfg := newTestPipeline(t, "svg", nil)

	require.Error(t, p.CheckReadiness(context.Background()))
	_, ok := p.LatestSummary()
	assert.False(t, ok)

	path := writeSurveyFile(t, cfg, "traffic_data15062024.csv", sampleCSV)
	want, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, p.CheckReadiness(context.Background()))
	got, ok := p.LatestSummary()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestProcessFile_CancelledContext(t *testing.T) {
	p, cfg := newTestPipeline(t, "svg", nil)
	path := writeSurveyFile(t, cfg, "traffic_data15062024.csv", sampleCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ProcessFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChartTitle(t *testing.T) {
	assert.Equal(t, "Traffic Data Histogram - 15062024", chartTitle("/srv/data/traffic_data15062024.csv"))
	assert.Equal(t, "Traffic Data Histogram - survey.csv", chartTitle("survey.csv"))
}
