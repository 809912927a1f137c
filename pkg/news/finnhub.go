package news

import (
	"context"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

type FinnHubSource struct {
	client *finnhub.DefaultApiService
}

func NewFinnHubSource(apiKey string) *FinnHubSource {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubSource{client: client}
}

func (s *FinnHubSource) Fetch(limit int) ([]Headline, error) {
	res, _, err := s.client.MarketNews(context.Background()).Category("general").Execute()
	if err != nil {
		return nil, err
	}

	var headlines []Headline
	for _, item := range res {
		if len(headlines) == limit {
			break
		}

		var h Headline
		if item.Headline != nil {
			h.Title = *item.Headline
		}
		if item.Summary != nil {
			h.Summary = *item.Summary
		}
		if item.Source != nil {
			h.Publisher = *item.Source
		}
		if item.Datetime != nil {
			h.PublishedAt = time.Unix(*item.Datetime, 0)
		}
		if item.Related != nil && *item.Related != "" {
			h.Symbols = strings.Split(*item.Related, ",")
		}

		headlines = append(headlines, h)
	}

	return headlines, nil
}

func (s *FinnHubSource) Name() string {
	return "FinnHub"
}
