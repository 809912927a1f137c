package news

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// ContextProvider turns recent headlines from one or more sources into a
// plain-text block that can be appended to a generation prompt.
type ContextProvider struct {
	sources []Source
	limit   int
}

func NewContextProvider(limit int, sources ...Source) *ContextProvider {
	if limit <= 0 {
		limit = 10
	}
	return &ContextProvider{sources: sources, limit: limit}
}

// MarketContext returns a bullet list of recent headlines, or an empty
// string when no source has anything. Source failures are logged and
// skipped; prompt context is best effort.
func (p *ContextProvider) MarketContext(ctx context.Context) string {
	var b strings.Builder
	count := 0

	for _, src := range p.sources {
		if count >= p.limit {
			break
		}

		headlines, err := src.Fetch(p.limit - count)
		if err != nil {
			slog.Warn("headline fetch failed", "source", src.Name(), "error", err)
			continue
		}

		for _, h := range headlines {
			if count >= p.limit {
				break
			}
			line := h.Title
			if line == "" {
				continue
			}
			if h.Publisher != "" {
				line = fmt.Sprintf("%s (%s)", line, h.Publisher)
			}
			if len(h.Symbols) > 0 {
				line = fmt.Sprintf("%s [%s]", line, strings.Join(h.Symbols, ", "))
			}
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
			count++
		}
	}

	if count == 0 {
		return ""
	}
	return "Recent market headlines:\n" + b.String()
}
