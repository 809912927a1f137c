package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/simon4657/stockcal-api/internal/model"
	"github.com/simon4657/stockcal-api/pkg/llm"
)

type memStore struct {
	blobs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (s *memStore) Load(_ context.Context, name string) ([]byte, error) {
	return s.blobs[name], nil
}

func (s *memStore) Save(_ context.Context, name string, payload []byte) error {
	s.blobs[name] = payload
	return nil
}

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
	lastOpts   llm.Options
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, opts llm.Options) (string, error) {
	f.lastPrompt = prompt
	f.lastOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) ModelName() string { return "fake" }

const storedEvents = `[
  {
    "id": "0410-cpi",
    "date": "2026-04-10",
    "title": "CPI release",
    "market": "domestic",
    "type": "macro",
    "trend": "neutral",
    "description": "Monthly inflation print.",
    "strategy": "Stay light into the print."
  }
]`

func newTestGateway(store *memStore, gen *fakeGenerator, defaultKey string) (*Gateway, *[]string) {
	var keys []string
	g := NewGateway(store, func(_ context.Context, apiKey string) (llm.Generator, error) {
		keys = append(keys, apiKey)
		return gen, nil
	}, defaultKey)
	return g, &keys
}

func TestAnalyze_StructuredResult(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	gen := &fakeGenerator{reply: "```json\n{\"summary\": \"hot print\", \"outlook\": \"volatile\"}\n```"}
	g, _ := newTestGateway(store, gen, "configured-key")

	res, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	analysis, ok := res.Analysis.(map[string]any)
	if !ok {
		t.Fatalf("expected object analysis, got %T", res.Analysis)
	}
	if analysis["summary"] != "hot print" {
		t.Errorf("summary = %v", analysis["summary"])
	}

	record, ok := res.Record.(map[string]any)
	if !ok {
		t.Fatalf("expected record map, got %T", res.Record)
	}
	if record["title"] != "CPI release" {
		t.Errorf("record title = %v", record["title"])
	}
	if res.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}

	if gen.lastOpts.Temperature != 0.4 || !gen.lastOpts.UseSearch {
		t.Errorf("unexpected generation options: %+v", gen.lastOpts)
	}
	if !strings.Contains(gen.lastPrompt, "CPI release") {
		t.Error("prompt does not embed the record")
	}
}

func TestAnalyze_RawResult(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	gen := &fakeGenerator{reply: "Plain prose, not JSON."}
	g, _ := newTestGateway(store, gen, "k")

	res, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi", Raw: true})
	if err != nil {
		t.Fatalf("analyze raw: %v", err)
	}
	if res.Analysis != "Plain prose, not JSON." {
		t.Errorf("raw analysis = %v", res.Analysis)
	}
}

func TestAnalyze_UnknownRecord(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	g, _ := newTestGateway(store, &fakeGenerator{}, "k")

	_, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi"})
	if errors.Is(err, ErrNotFound) {
		t.Errorf("existing record reported missing")
	}
}

func TestAnalyze_EmptyDatasetIsNotFound(t *testing.T) {
	g, _ := newTestGateway(newMemStore(), &fakeGenerator{}, "k")

	_, err := g.Analyze(context.Background(), Request{Kind: "strategy", ID: "st-1"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyze_UnknownKind(t *testing.T) {
	g, _ := newTestGateway(newMemStore(), &fakeGenerator{}, "k")

	_, err := g.Analyze(context.Background(), Request{Kind: "portfolio", ID: "x"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestAnalyze_KeyOverride(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	gen := &fakeGenerator{reply: `{"summary": "ok"}`}
	g, keys := newTestGateway(store, gen, "configured-key")

	if _, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi"}); err != nil {
		t.Fatalf("analyze with configured key: %v", err)
	}
	if _, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi", APIKey: "caller-key"}); err != nil {
		t.Fatalf("analyze with caller key: %v", err)
	}

	if len(*keys) != 2 || (*keys)[0] != "configured-key" || (*keys)[1] != "caller-key" {
		t.Errorf("factory keys = %v", *keys)
	}
}

func TestAnalyze_NoKeyAnywhere(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	g, keys := newTestGateway(store, &fakeGenerator{}, "")

	_, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi"})
	if !errors.Is(err, llm.ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
	if len(*keys) != 0 {
		t.Errorf("factory called without a key")
	}
}

func TestAnalyze_MalformedAnalysis(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	gen := &fakeGenerator{reply: "no JSON here"}
	g, _ := newTestGateway(store, gen, "k")

	_, err := g.Analyze(context.Background(), Request{Kind: "event", ID: "0410-cpi"})
	if !errors.Is(err, llm.ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestRegenerate_ReturnsValidatedRecord(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	gen := &fakeGenerator{reply: "```json\n{" +
		`"id": "something-else",` +
		`"date": "2026-04-10",` +
		`"title": "CPI release",` +
		`"market": "domestic",` +
		`"type": "macro",` +
		`"trend": "bearish",` +
		`"description": "Hotter than expected.",` +
		`"strategy": "Trim rate-sensitive names."` +
		"}\n```"}
	g, _ := newTestGateway(store, gen, "k")

	res, err := g.Regenerate(context.Background(), Request{
		Kind: "event", ID: "0410-cpi", Feedback: "be more cautious",
	})
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	ev, ok := res.Record.(model.Event)
	if !ok {
		t.Fatalf("expected model.Event, got %T", res.Record)
	}
	if ev.ID != "0410-cpi" {
		t.Errorf("id not pinned to the requested record: %q", ev.ID)
	}
	if ev.Trend != model.BiasBearish {
		t.Errorf("trend = %q", ev.Trend)
	}

	if !strings.Contains(gen.lastPrompt, "be more cautious") {
		t.Error("feedback missing from prompt")
	}

	// The stored dataset is untouched.
	if string(store.blobs[model.DatasetEvents]) != storedEvents {
		t.Error("regeneration wrote to the store")
	}
}

func TestRegenerate_InvalidRevisionFails(t *testing.T) {
	store := newMemStore()
	store.blobs[model.DatasetEvents] = []byte(storedEvents)
	gen := &fakeGenerator{reply: `{"id": "0410-cpi", "date": "not-a-date"}`}
	g, _ := newTestGateway(store, gen, "k")

	_, err := g.Regenerate(context.Background(), Request{Kind: "event", ID: "0410-cpi"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}
