package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/simon4657/stockcal-api/internal/model"
	"github.com/simon4657/stockcal-api/pkg/llm"
)

// BlobStore persists one JSON document per dataset. Load returns a nil
// payload when nothing is stored yet.
type BlobStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, payload []byte) error
}

// ContextSource supplies a market-headline block for generation prompts.
// An empty string means no context is available.
type ContextSource interface {
	MarketContext(ctx context.Context) string
}

// Step names the pipeline stage a dataset run is in when it terminates.
type Step string

const (
	StepPrompting  Step = "prompting"
	StepExtracting Step = "extracting"
	StepValidating Step = "validating"
	StepFiltering  Step = "filtering"
	StepMerging    Step = "merging"
	StepSorting    Step = "sorting"
	StepPersisting Step = "persisting"
	StepPersisted  Step = "persisted"
)

// DatasetResult is the terminal state of one dataset within a refresh cycle.
type DatasetResult struct {
	Dataset string
	// Persisted reports whether the dataset's blob was replaced. When false,
	// FailedStep and Err describe where and why the run stopped; the
	// previously persisted blob is untouched.
	Persisted  bool
	FailedStep Step
	Err        error
	Count      int
}

// RunReport aggregates the three dataset results of one refresh cycle.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []DatasetResult
}

// Success reports whether every dataset reached the persisted state.
func (r RunReport) Success() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Persisted {
			return false
		}
	}
	return true
}

// Options parameterizes a refresh cycle. One configurable orchestrator covers
// what used to be several near-identical update scripts.
type Options struct {
	TrendCount    int
	StrategyCount int
	// MinEventCount/MaxEventCount bound the requested event batch; falling
	// short of the minimum is logged, not fatal.
	MinEventCount int
	MaxEventCount int
	// RefreshProtected regenerates derived fields of protected events each
	// cycle via a companion detail call.
	RefreshProtected bool
	// UseSearch enables search grounding on the event-generation call.
	UseSearch bool
	// ProtectedIDs is the allow-list of fixed event ids.
	ProtectedIDs []string
}

// DefaultOptions mirrors the production update configuration.
func DefaultOptions() Options {
	return Options{
		TrendCount:       4,
		StrategyCount:    3,
		MinEventCount:    25,
		MaxEventCount:    30,
		RefreshProtected: true,
		UseSearch:        true,
	}
}

const (
	trendTemperature  = 0.7
	eventTemperature  = 0.4
	detailTemperature = 0.4
)

// Orchestrator drives the generate-extract-validate-filter-merge-sort-persist
// chain for each dataset. The three datasets run sequentially; one dataset's
// failure never blocks the others.
type Orchestrator struct {
	gen     llm.Generator
	store   BlobStore
	news    ContextSource
	opts    Options
	now     func() time.Time
	protect map[string]bool
}

// NewOrchestrator wires an orchestrator. news may be nil when no headline
// source is configured.
func NewOrchestrator(gen llm.Generator, store BlobStore, news ContextSource, opts Options) *Orchestrator {
	protect := make(map[string]bool, len(opts.ProtectedIDs))
	for _, id := range opts.ProtectedIDs {
		protect[id] = true
	}
	return &Orchestrator{
		gen:     gen,
		store:   store,
		news:    news,
		opts:    opts,
		now:     time.Now,
		protect: protect,
	}
}

// Run executes one full refresh cycle.
func (o *Orchestrator) Run(ctx context.Context) RunReport {
	report := RunReport{StartedAt: o.now()}

	marketContext := ""
	if o.news != nil {
		marketContext = o.news.MarketContext(ctx)
	}

	report.Results = append(report.Results,
		o.refreshHotTrends(ctx, marketContext),
		o.refreshStrategies(ctx, marketContext),
		o.refreshEvents(ctx, marketContext),
	)
	report.FinishedAt = o.now()

	for _, res := range report.Results {
		if res.Persisted {
			slog.Info("dataset refreshed", "dataset", res.Dataset, "count", res.Count)
		} else {
			slog.Error("dataset refresh failed", "dataset", res.Dataset, "step", res.FailedStep, "error", res.Err)
		}
	}
	return report
}

func (o *Orchestrator) refreshHotTrends(ctx context.Context, marketContext string) DatasetResult {
	today := o.today()
	prompt := hotTrendsPrompt(today, o.opts.TrendCount, marketContext)

	parsed, res, ok := o.generate(ctx, model.DatasetHotTrends, prompt, llm.Options{Temperature: trendTemperature})
	if !ok {
		return res
	}

	trends := ValidateHotTrends(parsed)

	old := loadBatch[model.HotTrend](ctx, o.store, model.DatasetHotTrends)
	merged := Merge(old, trends, MergeConfig[model.HotTrend]{ReferenceDay: today})
	SortByDate(merged)

	return o.persist(ctx, model.DatasetHotTrends, merged)
}

func (o *Orchestrator) refreshStrategies(ctx context.Context, marketContext string) DatasetResult {
	today := o.today()
	prompt := strategiesPrompt(today, o.opts.StrategyCount, marketContext)

	parsed, res, ok := o.generate(ctx, model.DatasetStrategies, prompt, llm.Options{Temperature: trendTemperature})
	if !ok {
		return res
	}

	strategies := ValidateStrategies(parsed)

	old := loadBatch[model.Strategy](ctx, o.store, model.DatasetStrategies)
	merged := Merge(old, strategies, MergeConfig[model.Strategy]{ReferenceDay: today})
	SortByDate(merged)

	return o.persist(ctx, model.DatasetStrategies, merged)
}

func (o *Orchestrator) refreshEvents(ctx context.Context, marketContext string) DatasetResult {
	today := o.today()
	start, end := o.planningWindow()
	prompt := eventsPrompt(today, start, end, o.opts.MinEventCount, o.opts.MaxEventCount, marketContext)

	parsed, res, ok := o.generate(ctx, model.DatasetEvents, prompt, llm.Options{
		Temperature: eventTemperature,
		UseSearch:   o.opts.UseSearch,
	})
	if !ok {
		return res
	}

	events := ValidateEvents(parsed)

	// Generated events must stay inside the requested planning horizon, and
	// only future ones are ingested.
	events = Window(events, start, end)
	events = Future(events, today)

	if len(events) < o.opts.MinEventCount {
		slog.Warn("generated events below requested minimum",
			"dataset", model.DatasetEvents, "count", len(events), "min", o.opts.MinEventCount)
	}

	var refresh func(model.Event) (model.Event, error)
	if o.opts.RefreshProtected {
		refresh = func(ev model.Event) (model.Event, error) {
			return o.refreshEventDetails(ctx, ev)
		}
	}

	old := loadBatch[model.Event](ctx, o.store, model.DatasetEvents)
	merged := Merge(old, events, MergeConfig[model.Event]{
		ProtectedIDs: o.protect,
		ReferenceDay: today,
		Refresh:      refresh,
	})
	SortByDate(merged)

	result := o.persist(ctx, model.DatasetEvents, merged)
	if result.Persisted {
		logEventSummary(merged)
	}
	return result
}

// refreshEventDetails regenerates the derived fields of a protected event.
// The id and date are carried over untouched.
func (o *Orchestrator) refreshEventDetails(ctx context.Context, ev model.Event) (model.Event, error) {
	prompt := eventDetailPrompt(ev, o.today())

	text, err := o.gen.Generate(ctx, prompt, llm.Options{Temperature: detailTemperature})
	if err != nil {
		return ev, fmt.Errorf("detail generation: %w", err)
	}

	parsed, err := llm.Extract(text)
	if err != nil {
		return ev, err
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return ev, fmt.Errorf("detail response is not an object")
	}

	updated := ev
	if desc, err := stringField(obj, "description"); err == nil {
		updated.Description = desc
	}
	if strategy, err := stringField(obj, "strategy"); err == nil {
		updated.Strategy = strategy
	}
	if stocks, err := stringListField(obj, "relatedStocks"); err == nil {
		updated.RelatedStocks = stocks
	}
	return updated, nil
}

// generate runs the prompting and extracting steps shared by every dataset.
func (o *Orchestrator) generate(ctx context.Context, dataset, prompt string, opts llm.Options) (any, DatasetResult, bool) {
	text, err := o.gen.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, DatasetResult{
			Dataset:    dataset,
			FailedStep: StepPrompting,
			Err:        fmt.Errorf("service call: %w", err),
		}, false
	}

	parsed, err := llm.Extract(text)
	if err != nil {
		return nil, DatasetResult{
			Dataset:    dataset,
			FailedStep: StepExtracting,
			Err:        err,
		}, false
	}

	return parsed, DatasetResult{}, true
}

func (o *Orchestrator) persist(ctx context.Context, dataset string, batch any) DatasetResult {
	payload, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return DatasetResult{Dataset: dataset, FailedStep: StepPersisting, Err: err}
	}

	if err := o.store.Save(ctx, dataset, payload); err != nil {
		return DatasetResult{
			Dataset:    dataset,
			FailedStep: StepPersisting,
			Err:        fmt.Errorf("save %s: %w", dataset, err),
		}
	}

	count := 0
	switch b := batch.(type) {
	case []model.Event:
		count = len(b)
	case []model.HotTrend:
		count = len(b)
	case []model.Strategy:
		count = len(b)
	}
	return DatasetResult{Dataset: dataset, Persisted: true, FailedStep: StepPersisted, Count: count}
}

// loadBatch reads the previously persisted batch; absence or a corrupt blob
// yields an empty batch.
func loadBatch[T any](ctx context.Context, store BlobStore, name string) []T {
	payload, err := store.Load(ctx, name)
	if err != nil {
		slog.Warn("loading stored batch failed, treating as empty", "dataset", name, "error", err)
		return nil
	}
	if len(payload) == 0 {
		return nil
	}

	var batch []T
	if err := json.Unmarshal(payload, &batch); err != nil {
		slog.Warn("stored batch is corrupt, treating as empty", "dataset", name, "error", err)
		return nil
	}
	return batch
}

func (o *Orchestrator) today() string {
	return o.now().Format(model.DateLayout)
}

// planningWindow spans the first day of the current month through the last
// day of the next month.
func (o *Orchestrator) planningWindow() (start, end string) {
	now := o.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonthEnd := monthStart.AddDate(0, 2, -1)
	return monthStart.Format(model.DateLayout), nextMonthEnd.Format(model.DateLayout)
}

func logEventSummary(events []model.Event) {
	counts := make(map[model.Market]int)
	for _, ev := range events {
		counts[ev.Market]++
	}
	slog.Info("event summary",
		"total", len(events),
		"domestic", counts[model.MarketDomestic],
		"foreign", counts[model.MarketForeign],
		"cross_border", counts[model.MarketCrossBorder],
		"global", counts[model.MarketGlobal],
	)
}
