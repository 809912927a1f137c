package news

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSource struct {
	name      string
	headlines []Headline
	err       error
}

func (f *fakeSource) Fetch(limit int) ([]Headline, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.headlines) > limit {
		return f.headlines[:limit], nil
	}
	return f.headlines, nil
}

func (f *fakeSource) Name() string { return f.name }

func TestMarketContext_BulletsHeadlines(t *testing.T) {
	p := NewContextProvider(10, &fakeSource{
		name: "fake",
		headlines: []Headline{
			{Title: "Fed holds rates steady", Publisher: "Reuters"},
			{Title: "Chipmakers rally", Symbols: []string{"NVDA", "AMD"}},
		},
	})

	got := p.MarketContext(context.Background())

	if !strings.HasPrefix(got, "Recent market headlines:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "- Fed holds rates steady (Reuters)\n") {
		t.Errorf("missing first headline: %q", got)
	}
	if !strings.Contains(got, "- Chipmakers rally [NVDA, AMD]\n") {
		t.Errorf("missing symbols line: %q", got)
	}
}

func TestMarketContext_LimitAcrossSources(t *testing.T) {
	first := &fakeSource{name: "a", headlines: []Headline{
		{Title: "one"}, {Title: "two"},
	}}
	second := &fakeSource{name: "b", headlines: []Headline{
		{Title: "three"}, {Title: "four"},
	}}

	got := NewContextProvider(3, first, second).MarketContext(context.Background())

	if n := strings.Count(got, "- "); n != 3 {
		t.Errorf("expected 3 bullets, got %d in %q", n, got)
	}
	if strings.Contains(got, "four") {
		t.Errorf("headline beyond limit included: %q", got)
	}
}

func TestMarketContext_SourceErrorSkipped(t *testing.T) {
	broken := &fakeSource{name: "broken", err: errors.New("rate limited")}
	ok := &fakeSource{name: "ok", headlines: []Headline{{Title: "still here"}}}

	got := NewContextProvider(5, broken, ok).MarketContext(context.Background())

	if !strings.Contains(got, "still here") {
		t.Errorf("expected headline from healthy source, got %q", got)
	}
}

func TestMarketContext_EmptyWhenNothingAvailable(t *testing.T) {
	got := NewContextProvider(5, &fakeSource{name: "empty"}).MarketContext(context.Background())

	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestMarketContext_SkipsUntitledHeadlines(t *testing.T) {
	p := NewContextProvider(5, &fakeSource{
		name:      "fake",
		headlines: []Headline{{Title: ""}, {Title: "real"}},
	})

	got := p.MarketContext(context.Background())

	if n := strings.Count(got, "- "); n != 1 {
		t.Errorf("expected 1 bullet, got %d in %q", n, got)
	}
}
