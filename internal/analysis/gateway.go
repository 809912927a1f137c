package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/simon4657/stockcal-api/internal/model"
	"github.com/simon4657/stockcal-api/internal/pipeline"
	"github.com/simon4657/stockcal-api/pkg/llm"
)

var (
	// ErrNotFound means no stored record carries the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownKind means the kind segment named no known dataset.
	ErrUnknownKind = errors.New("unknown record kind")
)

const analysisTemperature = 0.4

// GeneratorFactory builds a text generator for one request. The gateway
// constructs a fresh generator per call so a caller-supplied API key can
// take effect.
type GeneratorFactory func(ctx context.Context, apiKey string) (llm.Generator, error)

// Request names one stored record and how to analyze it.
type Request struct {
	Kind string
	ID   string
	// APIKey overrides the configured key when non-empty.
	APIKey string
	// Raw skips extraction and returns the generator output verbatim.
	Raw bool
	// Feedback is the caller's revision instruction on regeneration.
	Feedback string
}

// Result is one on-demand analysis. Record is the stored record the
// analysis refers to, or the revised record on regeneration.
type Result struct {
	Record      any       `json:"record"`
	Analysis    any       `json:"analysis,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Gateway produces on-demand analysis for persisted records. It only ever
// reads the store; regenerated records are returned to the caller, never
// written back.
type Gateway struct {
	store      pipeline.BlobStore
	newGen     GeneratorFactory
	defaultKey string
	now        func() time.Time
}

func NewGateway(store pipeline.BlobStore, factory GeneratorFactory, defaultKey string) *Gateway {
	return &Gateway{
		store:      store,
		newGen:     factory,
		defaultKey: defaultKey,
		now:        time.Now,
	}
}

// Analyze generates fresh commentary for one stored record.
func (g *Gateway) Analyze(ctx context.Context, req Request) (*Result, error) {
	record, err := g.findRecord(ctx, req.Kind, req.ID)
	if err != nil {
		return nil, err
	}

	gen, err := g.generator(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	prompt, err := analysisPrompt(req.Kind, record, g.today())
	if err != nil {
		return nil, err
	}

	text, err := gen.Generate(ctx, prompt, llm.Options{
		Temperature: analysisTemperature,
		UseSearch:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis generation: %w", err)
	}

	result := &Result{Record: record, GeneratedAt: g.now()}
	if req.Raw {
		result.Analysis = text
		return result, nil
	}

	parsed, err := llm.Extract(text)
	if err != nil {
		return nil, err
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: analysis response is not an object", llm.ErrMalformedResponse)
	}
	result.Analysis = obj
	return result, nil
}

// Regenerate produces a revised version of one stored record, optionally
// steered by caller feedback. The revision keeps the record's id and is
// validated before it is returned; the stored dataset is left untouched.
func (g *Gateway) Regenerate(ctx context.Context, req Request) (*Result, error) {
	record, err := g.findRecord(ctx, req.Kind, req.ID)
	if err != nil {
		return nil, err
	}

	gen, err := g.generator(ctx, req.APIKey)
	if err != nil {
		return nil, err
	}

	prompt, err := regeneratePrompt(req.Kind, record, req.Feedback, g.today())
	if err != nil {
		return nil, err
	}

	text, err := gen.Generate(ctx, prompt, llm.Options{
		Temperature: analysisTemperature,
		UseSearch:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("regeneration: %w", err)
	}

	parsed, err := llm.Extract(text)
	if err != nil {
		return nil, err
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: regenerated record is not an object", llm.ErrMalformedResponse)
	}
	// The revision must stay the same record.
	obj["id"] = req.ID

	revised, err := parseRecord(req.Kind, obj)
	if err != nil {
		return nil, fmt.Errorf("regenerated record invalid: %w", err)
	}

	return &Result{Record: revised, GeneratedAt: g.now()}, nil
}

func (g *Gateway) generator(ctx context.Context, override string) (llm.Generator, error) {
	key := g.defaultKey
	if override != "" {
		key = override
	}
	if key == "" {
		return nil, llm.ErrMissingCredential
	}
	return g.newGen(ctx, key)
}

// findRecord locates the record with the given id in the kind's stored
// dataset, as the raw JSON object it was persisted as.
func (g *Gateway) findRecord(ctx context.Context, kind, id string) (map[string]any, error) {
	dataset, err := datasetFor(kind)
	if err != nil {
		return nil, err
	}

	payload, err := g.store.Load(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dataset, err)
	}
	if len(payload) == 0 {
		return nil, ErrNotFound
	}

	var records []map[string]any
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("stored %s corrupt: %w", dataset, err)
	}

	for _, rec := range records {
		if rid, ok := rec["id"].(string); ok && rid == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

func datasetFor(kind string) (string, error) {
	switch kind {
	case "event":
		return model.DatasetEvents, nil
	case "hot-trend":
		return model.DatasetHotTrends, nil
	case "strategy":
		return model.DatasetStrategies, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func parseRecord(kind string, obj map[string]any) (any, error) {
	switch kind {
	case "event":
		return pipeline.EventFromMap(obj)
	case "hot-trend":
		return pipeline.HotTrendFromMap(obj)
	case "strategy":
		return pipeline.StrategyFromMap(obj)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (g *Gateway) today() string {
	return g.now().Format(model.DateLayout)
}
