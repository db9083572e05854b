// Package dashboard turns a (symbol, years) selection into everything the
// UI surfaces render: status lines, preview tables and chart figures.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"StockWise/internal/calculator"
	"StockWise/internal/catalog"
	"StockWise/internal/logging"
	"StockWise/internal/model"
	"StockWise/internal/recorder"
)

const (
	StatusLoading = "Loading data..."
	StatusLoaded  = "Loading data... done!"

	DefaultTailRows = 5
)

// SeriesLoader loads a daily series and reports whether the cache served it.
type SeriesLoader interface {
	LoadTracked(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, bool, error)
}

// Forecaster fits training rows and predicts periods days past the history.
type Forecaster interface {
	Forecast(rows []model.TrainingRow, periods int) (*model.ForecastResult, error)
}

// Selection is the user's input.
type Selection struct {
	Symbol string `json:"symbol"`
	Years  int    `json:"years"`
}

// Payload is the full output of one run.
type Payload struct {
	Symbol       string             `json:"symbol"`
	Label        string             `json:"label"`
	Years        int                `json:"years"`
	HorizonDays  int                `json:"horizon_days"`
	Start        string             `json:"start"`
	End          string             `json:"end"`
	Status       []string           `json:"status"`
	CacheHit     bool               `json:"cache_hit"`
	Summary      calculator.Summary `json:"summary"`
	RawTail      Table              `json:"raw_tail"`
	History      Figure             `json:"history_chart"`
	ForecastTail Table              `json:"forecast_tail"`
	Forecast     Figure             `json:"forecast_chart"`
	Components   Figure             `json:"components_chart"`

	Series *model.PriceSeries    `json:"-"`
	Result *model.ForecastResult `json:"-"`
}

// Settings are the fixed parameters of a pipeline.
type Settings struct {
	// Start is the first day of every history request.
	Start time.Time
	// Location defines "today" for the range end.
	Location *time.Location
	TailRows int
}

// Pipeline runs the load, shape, fit and render steps for one selection.
type Pipeline struct {
	catalog    *catalog.Catalog
	loader     SeriesLoader
	forecaster Forecaster
	recorder   recorder.Recorder
	clock      Clock
	settings   Settings
	log        zerolog.Logger
}

// NewPipeline wires a pipeline. A nil recorder records nothing and a nil
// clock reads the wall clock.
func NewPipeline(cat *catalog.Catalog, loader SeriesLoader, fc Forecaster, rec recorder.Recorder, clock Clock, s Settings, log zerolog.Logger) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	if s.TailRows <= 0 {
		s.TailRows = DefaultTailRows
	}
	return &Pipeline{
		catalog:    cat,
		loader:     loader,
		forecaster: fc,
		recorder:   rec,
		clock:      clock,
		settings:   s,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// Range is the history window of a run started now: from the configured
// start up to, but excluding, today in the exchange timezone.
func (p *Pipeline) Range() model.DateRange {
	return model.DateRange{Start: p.settings.Start, End: Today(p.clock, p.settings.Location)}
}

// Catalog returns the symbol catalog the pipeline validates against.
func (p *Pipeline) Catalog() *catalog.Catalog { return p.catalog }

// Run executes one selection. Any step error aborts the run.
func (p *Pipeline) Run(ctx context.Context, sel Selection) (*Payload, error) {
	return p.RunWithStatus(ctx, sel, nil)
}

// RunWithStatus is Run that also reports each status line as it happens.
func (p *Pipeline) RunWithStatus(ctx context.Context, sel Selection, onStatus func(string)) (*Payload, error) {
	began := time.Now()
	sym, err := p.catalog.Resolve(sel.Symbol)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateYears(sel.Years); err != nil {
		return nil, err
	}

	rng := p.Range()
	out := &Payload{
		Symbol:      sym.Ticker,
		Label:       sym.Label,
		Years:       sel.Years,
		HorizonDays: calculator.HorizonDays(sel.Years),
		Start:       rng.Start.Format(dateLayout),
		End:         rng.End.Format(dateLayout),
	}
	status := func(s string) {
		out.Status = append(out.Status, s)
		if onStatus != nil {
			onStatus(s)
		}
	}
	log := logging.WithSymbol(p.log, sym.Ticker).With().Int("years", sel.Years).Logger()

	status(StatusLoading)
	series, hit, err := p.loader.LoadTracked(ctx, sym.Ticker, rng.Start, rng.End)
	if err != nil {
		log.Warn().Err(err).Msg("load failed")
		return nil, err
	}
	status(StatusLoaded)
	out.Series, out.CacheHit = series, hit

	if out.Summary, err = calculator.Summarize(series); err != nil {
		return nil, err
	}
	out.RawTail = RawTable(series.Tail(p.settings.TailRows))
	out.History = HistoryChart(series)

	rows := calculator.Shape(series)
	res, err := p.forecaster.Forecast(rows, out.HorizonDays)
	if err != nil {
		log.Warn().Err(err).Int("rows", len(rows)).Msg("forecast failed")
		return nil, fmt.Errorf("forecast %s: %w", sym.Ticker, err)
	}
	out.Result = res
	out.ForecastTail = ForecastTable(res.Tail(p.settings.TailRows))
	out.Forecast = ForecastChart(series, res, sel.Years)
	out.Components = ComponentsChart(res)

	took := time.Since(began)
	p.record(ctx, out, took)
	log.Info().Int("bars", series.Len()).Bool("cache_hit", hit).Dur("took", took).Msg("run complete")
	return out, nil
}

func (p *Pipeline) record(ctx context.Context, out *Payload, took time.Duration) {
	run := &recorder.ForecastRun{
		Timestamp:   p.clock.Now(),
		Symbol:      out.Symbol,
		Years:       out.Years,
		HorizonDays: out.HorizonDays,
		Rows:        out.Series.Len(),
		FirstDate:   out.Series.Bars[0].Date.Format(dateLayout),
		LastDate:    out.Summary.LastDate,
		LastClose:   out.Summary.LastClose,
		CacheHit:    out.CacheHit,
		DurationMS:  took.Milliseconds(),
	}
	if last, ok := out.Result.Last(); ok {
		run.FinalYHat, run.FinalLower, run.FinalUpper = last.YHat, last.YHatLower, last.YHatUpper
	}
	if err := p.recorder.RecordRun(ctx, run); err != nil {
		logging.WithSymbol(p.log, out.Symbol).Error().Err(err).Msg("record run")
	}
}

// Runs lists recent run history.
func (p *Pipeline) Runs(ctx context.Context, symbol string, limit int) ([]recorder.ForecastRun, error) {
	return p.recorder.ListRuns(ctx, symbol, limit)
}

// Warm preloads the current range for every catalog symbol so the first
// user request of the day is a cache hit. It returns the number of symbols
// loaded and the errors of those that failed.
func (p *Pipeline) Warm(ctx context.Context) (int, error) {
	rng := p.Range()
	var (
		loaded int
		errs   []error
	)
	for _, sym := range p.catalog.Symbols() {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		if _, _, err := p.loader.LoadTracked(ctx, sym.Ticker, rng.Start, rng.End); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sym.Ticker, err))
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}
