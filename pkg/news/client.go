package news

import "time"

// Headline is one recent market-news item used as prompt context.
type Headline struct {
	Title       string
	Summary     string
	Publisher   string
	PublishedAt time.Time
	Symbols     []string
}

// Source fetches recent market headlines.
type Source interface {
	Fetch(limit int) ([]Headline, error)
	Name() string
}
