package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/simon4657/stockcal-api/internal/model"
)

// The validators turn the loosely-typed value produced by extraction into
// fully-typed records. Elements that fail a check are dropped with a logged
// reason; an empty result is legitimate and flows on to the merge stage.

// ValidateEvents validates a batch response for the events dataset.
func ValidateEvents(v any) []model.Event {
	return validateBatch(v, model.DatasetEvents, EventFromMap)
}

// ValidateHotTrends validates a batch response for the hot-trends dataset.
func ValidateHotTrends(v any) []model.HotTrend {
	return validateBatch(v, model.DatasetHotTrends, HotTrendFromMap)
}

// ValidateStrategies validates a batch response for the strategies dataset.
func ValidateStrategies(v any) []model.Strategy {
	return validateBatch(v, model.DatasetStrategies, StrategyFromMap)
}

func validateBatch[T any](v any, dataset string, fromMap func(map[string]any) (T, error)) []T {
	list, ok := v.([]any)
	if !ok {
		slog.Warn("expected a list from generation", "dataset", dataset, "got", fmt.Sprintf("%T", v))
		return nil
	}

	var out []T
	for i, elem := range list {
		obj, ok := elem.(map[string]any)
		if !ok {
			slog.Warn("dropping non-object element", "dataset", dataset, "index", i)
			continue
		}
		rec, err := fromMap(obj)
		if err != nil {
			slog.Warn("dropping invalid record", "dataset", dataset, "index", i, "reason", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

// EventFromMap builds an Event from a parsed object, checking required fields
// and enum membership.
func EventFromMap(m map[string]any) (model.Event, error) {
	var ev model.Event
	var err error

	if ev.ID, err = stringField(m, "id"); err != nil {
		return ev, err
	}
	if ev.Date, err = dateField(m, "date"); err != nil {
		return ev, err
	}
	if ev.Title, err = stringField(m, "title"); err != nil {
		return ev, err
	}

	market, err := stringField(m, "market")
	if err != nil {
		return ev, err
	}
	ev.Market = model.Market(market)
	if !ev.Market.Valid() {
		return ev, fmt.Errorf("unknown market %q", market)
	}

	typ, err := stringField(m, "type")
	if err != nil {
		return ev, err
	}
	ev.Type = model.EventType(typ)
	if !ev.Type.Valid() {
		return ev, fmt.Errorf("unknown event type %q", typ)
	}

	trend, err := stringField(m, "trend")
	if err != nil {
		return ev, err
	}
	ev.Trend = model.TrendBias(trend)
	if !ev.Trend.Valid() {
		return ev, fmt.Errorf("unknown trend %q", trend)
	}

	if ev.Description, err = stringField(m, "description"); err != nil {
		return ev, err
	}
	if ev.Strategy, err = stringField(m, "strategy"); err != nil {
		return ev, err
	}

	// relatedStocks is optional.
	if _, present := m["relatedStocks"]; present {
		if ev.RelatedStocks, err = stringListField(m, "relatedStocks"); err != nil {
			return ev, err
		}
	}

	return ev, nil
}

// HotTrendFromMap builds a HotTrend from a parsed object.
func HotTrendFromMap(m map[string]any) (model.HotTrend, error) {
	var t model.HotTrend
	var err error

	if t.ID, err = stringField(m, "id"); err != nil {
		return t, err
	}
	if t.Name, err = stringField(m, "name"); err != nil {
		return t, err
	}

	if t.Strength, err = intField(m, "strength"); err != nil {
		return t, err
	}
	if t.Strength < 0 || t.Strength > 100 {
		return t, fmt.Errorf("strength %d out of range [0, 100]", t.Strength)
	}

	trend, err := stringField(m, "trend")
	if err != nil {
		return t, err
	}
	t.Trend = model.TrendDirection(trend)
	if !t.Trend.Valid() {
		return t, fmt.Errorf("unknown trend %q", trend)
	}

	if t.Stocks, err = stringListField(m, "stocks"); err != nil {
		return t, err
	}
	if len(t.Stocks) == 0 {
		return t, fmt.Errorf("stocks must be non-empty")
	}

	if t.Reason, err = stringField(m, "reason"); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = dateField(m, "updatedAt"); err != nil {
		return t, err
	}

	return t, nil
}

// StrategyFromMap builds a Strategy from a parsed object.
func StrategyFromMap(m map[string]any) (model.Strategy, error) {
	var s model.Strategy
	var err error

	if s.ID, err = stringField(m, "id"); err != nil {
		return s, err
	}
	if s.Title, err = stringField(m, "title"); err != nil {
		return s, err
	}

	typ, err := stringField(m, "type")
	if err != nil {
		return s, err
	}
	s.Type = model.TrendBias(typ)
	if !s.Type.Valid() {
		return s, fmt.Errorf("unknown strategy type %q", typ)
	}

	if s.Desc, err = stringField(m, "desc"); err != nil {
		return s, err
	}

	risk, err := stringField(m, "risk")
	if err != nil {
		return s, err
	}
	s.Risk = model.RiskLevel(risk)
	if !s.Risk.Valid() {
		return s, fmt.Errorf("unknown risk level %q", risk)
	}

	if s.Target, err = stringField(m, "target"); err != nil {
		return s, err
	}
	if s.UpdatedAt, err = dateField(m, "updatedAt"); err != nil {
		return s, err
	}

	return s, nil
}

func stringField(m map[string]any, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	if s == "" {
		return "", fmt.Errorf("field %q is empty", key)
	}
	return s, nil
}

func dateField(m map[string]any, key string) (string, error) {
	s, err := stringField(m, key)
	if err != nil {
		return "", err
	}
	if !model.ValidDate(s) {
		return "", fmt.Errorf("field %q is not a valid date: %q", key, s)
	}
	return s, nil
}

func intField(m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	// encoding/json decodes numbers as float64.
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	n := int(f)
	if float64(n) != f {
		return 0, fmt.Errorf("field %q is not an integer", key)
	}
	return n, nil
}

func stringListField(m map[string]any, key string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing field %q", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not a list", key)
	}
	out := make([]string, 0, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("field %q element %d is not a string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}
