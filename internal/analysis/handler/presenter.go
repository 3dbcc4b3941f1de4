package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const timestampLayout = "02/01/2006 15:04"

// present builds the DisplayModel for a validated result set. It never
// fails; every metadata field degrades to a placeholder instead.
func present(resultSet ResultSet, envelope *rawEnvelope, raw []byte) DisplayModel {
	tabs := make([]ModelTab, 0, len(resultSet))
	for _, entry := range resultSet {
		topScore := entry.Result.AllProbs[entry.Result.TopIntent]
		tabs = append(tabs, ModelTab{
			Key:   entry.Key,
			Label: formatTabLabel(entry.Key),
			TopIntent: TopIntentCard{
				Label:   formatLabel(entry.Result.TopIntent),
				Score:   topScore,
				Percent: formatPercent(topScore),
			},
			ChartRows: buildChartRows(entry.Result.AllProbs),
		})
	}
	return DisplayModel{
		Metadata: formatMetadata(envelope),
		RawJSON:  indentRawJSON(raw),
		Tabs:     tabs,
	}
}

// formatLabel is the display convention for intent labels: underscores become
// spaces, the first rune is upper-cased and the remainder lower-cased. Whole
// string, not per word. Applying it twice changes nothing.
func formatLabel(label string) string {
	label = strings.ToLower(strings.ReplaceAll(label, "_", " "))
	if label == "" {
		return label
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// formatTabLabel is the tab naming convention: hyphens become spaces, the
// whole key is upper-cased ("confusion-clf" -> "CONFUSION CLF").
func formatTabLabel(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", " "))
}

func formatMetadata(envelope *rawEnvelope) Metadata {
	return Metadata{
		ID:        metaString(envelope.ID),
		Owner:     metaString(envelope.Owner),
		Timestamp: formatTimestamp(envelope.Timestamp),
	}
}

func metaString(value any) string {
	switch v := value.(type) {
	case nil:
		return "N/A"
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatTimestamp renders a numeric timestamp as epoch seconds in local
// time. Anything non-numeric is rendered verbatim; values that do not map
// to a plausible date fall back to verbatim as well. Absent and zero values
// yield an empty string and the panel omits the row.
func formatTimestamp(value any) string {
	switch ts := value.(type) {
	case nil:
		return ""
	case string:
		return ts
	case json.Number:
		seconds, err := ts.Float64()
		if err != nil {
			return ts.String()
		}
		if seconds == 0 {
			return ""
		}
		sec := int64(seconds)
		nsec := int64((seconds - float64(sec)) * 1e9)
		t := time.Unix(sec, nsec)
		if t.Year() < 1 || t.Year() > 9999 {
			return ts.String()
		}
		return t.Format(timestampLayout)
	default:
		return fmt.Sprintf("%v", ts)
	}
}

func indentRawJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
