package model

import "time"

// Dataset names used as blob-store keys.
const (
	DatasetEvents     = "events"
	DatasetHotTrends  = "hot_trends"
	DatasetStrategies = "strategies"
)

// DateLayout is the wire format for every date field. Dates are compared as
// strings throughout; ISO dates order lexicographically, and downstream
// consumers rely on that exact ordering.
const DateLayout = "2006-01-02"

type Market string

const (
	MarketDomestic    Market = "domestic"
	MarketForeign     Market = "foreign"
	MarketCrossBorder Market = "cross-border"
	MarketGlobal      Market = "global"
)

func (m Market) Valid() bool {
	switch m {
	case MarketDomestic, MarketForeign, MarketCrossBorder, MarketGlobal:
		return true
	}
	return false
}

type EventType string

const (
	EventRoutineHot EventType = "routine-hot"
	EventCorporate  EventType = "corporate"
	EventCritical   EventType = "critical"
	EventMacro      EventType = "macro"
	EventHoliday    EventType = "holiday"
)

func (t EventType) Valid() bool {
	switch t {
	case EventRoutineHot, EventCorporate, EventCritical, EventMacro, EventHoliday:
		return true
	}
	return false
}

// TrendBias is the expected market direction attached to events and strategies.
type TrendBias string

const (
	BiasBullish  TrendBias = "bullish"
	BiasBearish  TrendBias = "bearish"
	BiasNeutral  TrendBias = "neutral"
	BiasVolatile TrendBias = "volatile"
)

func (b TrendBias) Valid() bool {
	switch b {
	case BiasBullish, BiasBearish, BiasNeutral, BiasVolatile:
		return true
	}
	return false
}

// TrendDirection is the momentum direction of a hot sector.
type TrendDirection string

const (
	DirectionUp       TrendDirection = "up"
	DirectionDown     TrendDirection = "down"
	DirectionNeutral  TrendDirection = "neutral"
	DirectionVolatile TrendDirection = "volatile"
)

func (d TrendDirection) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionNeutral, DirectionVolatile:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Event is a dated market event on the calendar.
type Event struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Title         string    `json:"title"`
	Market        Market    `json:"market"`
	Type          EventType `json:"type"`
	Trend         TrendBias `json:"trend"`
	RelatedStocks []string  `json:"relatedStocks,omitempty"`
	Description   string    `json:"description"`
	Strategy      string    `json:"strategy"`
}

func (e Event) RecordID() string   { return e.ID }
func (e Event) RecordDate() string { return e.Date }

// HotTrend is a sector or theme currently attracting money flow.
type HotTrend struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Strength  int            `json:"strength"`
	Trend     TrendDirection `json:"trend"`
	Stocks    []string       `json:"stocks"`
	Reason    string         `json:"reason"`
	UpdatedAt string         `json:"updatedAt"`
}

func (t HotTrend) RecordID() string   { return t.ID }
func (t HotTrend) RecordDate() string { return t.UpdatedAt }

// Strategy is a trading-strategy suggestion for the current market.
type Strategy struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      TrendBias `json:"type"`
	Desc      string    `json:"desc"`
	Risk      RiskLevel `json:"risk"`
	Target    string    `json:"target"`
	UpdatedAt string    `json:"updatedAt"`
}

func (s Strategy) RecordID() string   { return s.ID }
func (s Strategy) RecordDate() string { return s.UpdatedAt }

// ValidDate reports whether s is a parseable calendar date in wire format.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
