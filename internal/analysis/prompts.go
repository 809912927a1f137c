package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

func analysisPrompt(kind string, record map[string]any, today string) (string, error) {
	doc, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional equity market analyst. Today is %s. Analyze the following %s in depth:

%s

Output a JSON object with these fields:
- summary: one-paragraph assessment (within 80 words)
- drivers: 2-4 bullet strings naming what moves this
- risks: 2-4 bullet strings naming what could go wrong
- outlook: one of bullish/bearish/neutral/volatile
- suggestion: actionable trading suggestion (within 60 words)

Base the analysis on current market conditions.
Output only the JSON object, no other text.`, today, kindNoun(kind), doc)
	return b.String(), nil
}

func regeneratePrompt(kind string, record map[string]any, feedback, today string) (string, error) {
	doc, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are a professional equity market analyst. Today is %s. Revise the following %s based on current market conditions:

%s

Keep the same id and the same JSON shape with all of its fields. Rewrite the
descriptive fields so they reflect the latest situation.
`, today, kindNoun(kind), doc)
	if feedback != "" {
		fmt.Fprintf(&b, "\nApply this revision instruction from the reader: %s\n", feedback)
	}
	b.WriteString("\nOutput only the revised JSON object, no other text.")
	return b.String(), nil
}

func kindNoun(kind string) string {
	switch kind {
	case "hot-trend":
		return "market trend"
	case "strategy":
		return "trading strategy"
	default:
		return "market event"
	}
}
