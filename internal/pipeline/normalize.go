package pipeline

import (
	"encoding/json"

	"github.com/hyperjump/kyoshi/internal/models"
)

// Shape tags how the model delivered its item list.
type Shape int

const (
	// ShapeWrapped is an object carrying the list under a named key.
	ShapeWrapped Shape = iota
	// ShapeBare is a bare top-level array.
	ShapeBare
	// ShapeUnrecognized is any other top-level shape; it normalizes to an
	// empty sequence, never an error.
	ShapeUnrecognized
)

// Normalize extracts the candidate item sequence from the model's parsed
// JSON. Two shapes are accepted: an object with the array under arrayKey, or
// a bare array. Anything else yields an empty sequence. Entries that are not
// objects are dropped silently.
func Normalize(raw json.RawMessage, arrayKey string) ([]map[string]any, Shape) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, ShapeUnrecognized
	}

	var entries []any
	shape := ShapeUnrecognized
	switch v := value.(type) {
	case []any:
		entries = v
		shape = ShapeBare
	case map[string]any:
		inner, ok := v[arrayKey].([]any)
		if !ok {
			return nil, ShapeUnrecognized
		}
		entries = inner
		shape = ShapeWrapped
	default:
		return nil, ShapeUnrecognized
	}

	out := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, shape
}

// WorksheetItems coerces normalized entries into worksheet items. The item
// type enumeration is closed: entries with an unrecognized type are dropped.
// The result is capped at max; under-production is accepted as-is.
func WorksheetItems(entries []map[string]any, max int) []models.WorksheetItem {
	items := make([]models.WorksheetItem, 0, min(len(entries), max))
	for _, e := range entries {
		if len(items) == max {
			break
		}
		item := models.WorksheetItem{
			Type:    asString(e["type"]),
			Q:       asString(e["q"]),
			Options: asStringList(e["options"]),
			Answer:  asString(e["answer"]),
			Rubric:  asString(e["rubric"]),
		}
		if !models.KnownItemType(item.Type) || item.Q == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// WeeklyItems coerces normalized entries into weekly plan items. Weeks
// default to their position when missing; the result is capped at max weeks.
func WeeklyItems(entries []map[string]any, max int) []models.WeeklyItem {
	items := make([]models.WeeklyItem, 0, min(len(entries), max))
	for _, e := range entries {
		if len(items) == max {
			break
		}
		week := asInt(e["week"])
		if week == 0 {
			week = len(items) + 1
		}
		items = append(items, models.WeeklyItem{
			Week:     week,
			Topics:   asStringList(e["topics"]),
			Outcomes: asStringList(e["outcomes"]),
			Checks:   asStringList(e["checks"]),
		})
	}
	return items
}

// StringMaps keeps only entries whose values are all strings, matching the
// resources shape of the plan response.
func StringMaps(v any) []map[string]string {
	entries, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		sm := make(map[string]string, len(m))
		for k, val := range m {
			if s, ok := val.(string); ok {
				sm[k] = s
			}
		}
		if len(sm) > 0 {
			out = append(out, sm)
		}
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func asStringList(v any) []string {
	entries, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
