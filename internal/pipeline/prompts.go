package pipeline

import (
	"fmt"
	"strings"

	"github.com/simon4657/stockcal-api/internal/model"
)

// Prompt builders for the three datasets plus the per-event detail refresh.
// Every prompt pins the output schema and forbids prose so extraction stays a
// matter of fence stripping.

func hotTrendsPrompt(today string, count int, marketContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional equity market analyst. Based on today's (%s) market conditions, generate the %d hottest sectors or themes.

Output a JSON array where every element has these fields:
- id: unique identifier (format: hot-1, hot-2...)
- name: sector or theme name
- strength: money-flow strength (integer 0-100)
- trend: one of up/down/neutral/volatile
- stocks: 3-5 related stocks, each formatted "Name (TICKER)"
- reason: why the sector is hot (within 50 words)
- updatedAt: update date (%s)

Consider recent market momentum, institutional buying, money-flow rotation, and industry trends.
`, today, count, today)
	appendContext(&b, marketContext)
	b.WriteString("\nOutput only the JSON array, no other text.")
	return b.String()
}

func strategiesPrompt(today string, count int, marketContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional equity trader. Based on today's (%s) market conditions, generate %d trading-strategy suggestions.

Output a JSON array where every element has these fields:
- id: unique identifier (format: st-1, st-2...)
- title: strategy title
- type: one of bullish/bearish/neutral/volatile
- desc: strategy description (within 80 words)
- risk: one of low/medium/high
- target: what to watch
- updatedAt: update date (%s)

Cover index trend judgment, strong-sector positioning, and risk control.
`, today, count, today)
	appendContext(&b, marketContext)
	b.WriteString("\nOutput only the JSON array, no other text.")
	return b.String()
}

func eventsPrompt(today, start, end string, minCount, maxCount int, marketContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional equity market analyst. Today is %s. Generate the important financial-calendar events between %s and %s.

Requirements:
1. Generate %d-%d events
2. Cover earnings calls, central-bank meetings, macro data releases (GDP/PMI/CPI/payrolls), industry events, and policy changes
3. At least half of the events must concern the domestic market
4. For flagship events, prefer confirmed dates; others may follow the usual calendar conventions

Output a JSON array where every element has all of these fields:
- id: unique identifier (format: MMDD-keyword)
- date: event date (YYYY-MM-DD, between %s and %s)
- title: short event title
- market: one of domestic/foreign/cross-border/global
- type: one of routine-hot/corporate/critical/macro/holiday
- trend: one of bullish/bearish/neutral/volatile
- relatedStocks: 3-5 related stocks, each formatted "Name (TICKER)"
- description: event description and focus (within 80 words)
- strategy: trading-strategy suggestion (within 80 words)
`, today, start, end, minCount, maxCount, start, end)
	appendContext(&b, marketContext)
	fmt.Fprintf(&b, "\nOutput only the JSON array with %d-%d events, no other text.", minCount, maxCount)
	return b.String()
}

func eventDetailPrompt(ev model.Event, today string) string {
	return fmt.Sprintf(`You are a professional equity market analyst. Generate detailed analysis content for the following event:

Event title: %s
Event date: %s
Market: %s
Today's date: %s

Output a JSON object with these fields:
- relatedStocks: 3-5 related stocks, each formatted "Name (TICKER)"
- description: event description and focus (within 80 words)
- strategy: trading-strategy suggestion (within 80 words)

Base the content on current market conditions and the significance of the event.
Output only the JSON object, no other text.`, ev.Title, ev.Date, ev.Market, today)
}

func appendContext(b *strings.Builder, marketContext string) {
	if marketContext == "" {
		return
	}
	b.WriteString("\nRecent market headlines for reference:\n")
	b.WriteString(marketContext)
	b.WriteString("\n")
}
