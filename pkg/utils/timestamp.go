package utils

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when the provider sends a plain string.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// nestedTimeKeys are the wrapper keys AeroAPI-style payloads use when a
// timestamp arrives as an object instead of a scalar.
var nestedTimeKeys = []string{"time", "iso", "iso8601", "timestamp", "value", "datetime"}

var nestedEpochKeys = []string{"epoch", "epoch_time", "epochtime"}

// ParseProviderTimestamp normalizes the heterogeneous timestamp shapes seen in
// provider payloads: RFC3339 strings, epoch seconds as number or numeric
// string, and nested objects wrapping either. Everything is converted to UTC.
// Unparseable input yields (nil) rather than an error; the field is advisory.
func ParseProviderTimestamp(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return parseTimestampString(asString)
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		t := time.Unix(int64(asNumber), 0).UTC()
		return &t
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err == nil {
		for _, key := range nestedTimeKeys {
			if nested, ok := asObject[key]; ok {
				if t := ParseProviderTimestamp(nested); t != nil {
					return t
				}
			}
		}
		for _, key := range nestedEpochKeys {
			if nested, ok := asObject[key]; ok {
				var epoch float64
				if err := json.Unmarshal(nested, &epoch); err == nil {
					t := time.Unix(int64(epoch), 0).UTC()
					return &t
				}
			}
		}
	}

	return nil
}

func parseTimestampString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Numeric strings are epoch seconds.
	if epoch, err := strconv.ParseFloat(s, 64); err == nil {
		t := time.Unix(int64(epoch), 0).UTC()
		return &t
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
