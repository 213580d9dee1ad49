package insights

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawInsight is one daily record as delivered by the ads platform: a loosely
// typed mapping with platform-specific keys, numbers encoded as strings, and
// some metrics nested in action lists. It never travels past Normalize.
type RawInsight map[string]any

// NormalizationError reports a single raw record that could not be
// canonicalized. The batch it belongs to continues without it.
type NormalizationError struct {
	Field string
	Value any
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize insight record: field %q with value %v", e.Field, e.Value)
}

// actionCounters demultiplexes the "actions" list into named counters by
// action type. Unrecognized action types are dropped without error.
var actionCounters = map[string]func(*InsightRecord, int64){
	"post_engagement": func(r *InsightRecord, v int64) { r.PostEngagement = v },
	"post_reaction":   func(r *InsightRecord, v int64) { r.PostReactions = v },
	"comment":         func(r *InsightRecord, v int64) { r.PostComments = v },
	"post":            func(r *InsightRecord, v int64) { r.PostShares = v },
	"lead":            func(r *InsightRecord, v int64) { r.Leads = v },
	"purchase":        func(r *InsightRecord, v int64) { r.Purchases = v },
}

// valueCounters demultiplexes the "conversion_values" list the same way.
var valueCounters = map[string]func(*InsightRecord, float64){
	"purchase":           func(r *InsightRecord, v float64) { r.PurchaseValue = v },
	"offsite_conversion": func(r *InsightRecord, v float64) { r.ConversionValue = v },
}

// Normalize converts one raw platform record into exactly one canonical
// InsightRecord. Missing counters default to zero so callers can sum and
// average without nil checks. The requested breakdown keys are copied through
// verbatim as dimensions. A record without a parseable date is rejected with a
// NormalizationError; the caller decides whether to skip it or abort.
func Normalize(raw RawInsight, breakdowns []string) (InsightRecord, error) {
	rec := InsightRecord{}

	date, err := rawDate(raw)
	if err != nil {
		return InsightRecord{}, err
	}
	rec.Date = date

	rec.Impressions = rawCount(raw, "impressions")
	rec.Clicks = rawCount(raw, "clicks")
	rec.Spend = rawAmount(raw, "spend")
	rec.Reach = rawCount(raw, "reach")
	rec.Frequency = rawAmount(raw, "frequency")
	rec.LinkClicks = rawCount(raw, "inline_link_clicks")
	rec.UniqueLinkClicks = rawCount(raw, "unique_inline_link_clicks")

	rec.VideoViews = rawCount(raw, "video_30_sec_watched_actions")
	rec.VideoViewsP25 = rawCount(raw, "video_p25_watched_actions")
	rec.VideoViewsP50 = rawCount(raw, "video_p50_watched_actions")
	rec.VideoViewsP75 = rawCount(raw, "video_p75_watched_actions")
	rec.VideoViewsP100 = rawCount(raw, "video_p100_watched_actions")

	rec.Conversions = rawCount(raw, "conversions")

	for _, action := range rawActionList(raw, "actions") {
		if set, ok := actionCounters[action.Type]; ok {
			set(&rec, int64(clampNonNegative(action.Value)))
		}
	}
	for _, action := range rawActionList(raw, "conversion_values") {
		if set, ok := valueCounters[action.Type]; ok {
			set(&rec, clampNonNegative(action.Value))
		}
	}

	for _, key := range breakdowns {
		if v, ok := raw[key]; ok && v != nil {
			if rec.Dimensions == nil {
				rec.Dimensions = make(map[string]string, len(breakdowns))
			}
			rec.Dimensions[key] = fmt.Sprintf("%v", v)
		}
	}
	rec.BreakdownKey = BreakdownKey(rec.Dimensions)

	// Accepted, but flagged: never silently corrected.
	rec.Anomalous = rec.Clicks > rec.Impressions

	return rec, nil
}

// BreakdownKey builds the canonical "k=v|k=v" identity for a dimension set,
// with keys sorted so equal sets always produce equal keys.
func BreakdownKey(dims map[string]string) string {
	if len(dims) == 0 {
		return ""
	}
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+dims[k])
	}
	return strings.Join(parts, "|")
}

type rawAction struct {
	Type  string
	Value float64
}

// rawActionList reads a list of {action_type, value} entries from the raw
// record. Anything that is not shaped like an action entry is skipped.
func rawActionList(raw RawInsight, key string) []rawAction {
	list, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	actions := make([]rawAction, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		actionType, ok := entry["action_type"].(string)
		if !ok {
			continue
		}
		actions = append(actions, rawAction{Type: actionType, Value: coerceFloat(entry["value"])})
	}
	return actions
}

func rawDate(raw RawInsight) (time.Time, error) {
	for _, key := range []string{"date", "date_start"} {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			continue
		}
		d, err := time.Parse(DateLayout, strings.TrimSpace(s))
		if err != nil {
			return time.Time{}, &NormalizationError{Field: key, Value: s}
		}
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, &NormalizationError{Field: "date", Value: nil}
}

// rawCount coerces an integer counter. Some platforms deliver view tiers as a
// single-element action list; in that case the values are summed.
func rawCount(raw RawInsight, key string) int64 {
	v, ok := raw[key]
	if !ok {
		return 0
	}
	if list, isList := v.([]any); isList {
		var sum float64
		for _, item := range list {
			if entry, isMap := item.(map[string]any); isMap {
				sum += coerceFloat(entry["value"])
			}
		}
		return int64(clampNonNegative(sum))
	}
	return int64(clampNonNegative(coerceFloat(v)))
}

func rawAmount(raw RawInsight, key string) float64 {
	return clampNonNegative(coerceFloat(raw[key]))
}

// coerceFloat converts the number encodings seen in ads-platform payloads
// (JSON numbers, decimal strings, json.Number) to float64; anything else is 0.
func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func clampNonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
