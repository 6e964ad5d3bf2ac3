package eventboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// structuredWire is the JSON shape of a [StructuredEvent]. Fields are kept
// raw so that scalar values of any JSON type can be rendered as text.
type structuredWire struct {
	EventType  json.RawMessage `json:"event_type"`
	Author     json.RawMessage `json:"author"`
	ToBranch   json.RawMessage `json:"to_branch"`
	FromBranch json.RawMessage `json:"from_branch"`
	Timestamp  json.RawMessage `json:"timestamp"`
}

// textWire is the JSON shape of a [TextEvent].
type textWire struct {
	Text    json.RawMessage `json:"text"`
	Summary json.RawMessage `json:"summary"`
}

// DecodeRecords parses an events response body into records.
//
// The body must be a JSON array; each element must be an object matching the
// shape selected by variant (see [Variant]). Elements are returned in array
// order. An empty array yields an empty, non-nil slice.
//
// Field values are read leniently: numbers and booleans are kept as their
// literal text and null reads as "". Returns an error if the body is not
// valid JSON, is not an array, or an element is not an object or holds an
// object or array where a field value is expected. With [VariantText], an
// element without a "text" value is an error.
func DecodeRecords(body []byte, variant Variant) ([]Record, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("unknown variant %q", variant)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty response body")
	}
	if trimmed[0] != '[' {
		return nil, errors.New("response is not a JSON array")
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	records := make([]Record, 0, len(elements))
	for i, raw := range elements {
		rec, err := decodeRecord(raw, variant)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(raw json.RawMessage, variant Variant) (Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("not a JSON object")
	}

	switch variant {
	case VariantText:
		return decodeText(trimmed)
	case VariantAuto:
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, err
		}
		if _, ok := probe["text"]; ok {
			return decodeText(trimmed)
		}
		return decodeStructured(trimmed)
	default:
		return decodeStructured(trimmed)
	}
}

func decodeText(raw []byte) (Record, error) {
	var w textWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if isNull(w.Text) {
		return nil, errors.New(`missing required field "text"`)
	}
	text, err := scalarText("text", w.Text)
	if err != nil {
		return nil, err
	}
	summary, err := scalarText("summary", w.Summary)
	if err != nil {
		return nil, err
	}
	return TextEvent{Text: text, Summary: summary}, nil
}

func decodeStructured(raw []byte) (Record, error) {
	var w structuredWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	var ev StructuredEvent
	var eventType string
	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *string
	}{
		{"event_type", w.EventType, &eventType},
		{"author", w.Author, &ev.Author},
		{"to_branch", w.ToBranch, &ev.ToBranch},
		{"from_branch", w.FromBranch, &ev.FromBranch},
		{"timestamp", w.Timestamp, &ev.Timestamp},
	}
	for _, f := range fields {
		v, err := scalarText(f.name, f.raw)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	ev.Type = EventType(eventType)
	return ev, nil
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// scalarText returns a field value as text: strings are unquoted, numbers
// and booleans keep their literal form, null and absent become "".
func scalarText(name string, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	raw = bytes.TrimSpace(raw)
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("%s: must be a string, number or boolean", name)
	}
	return string(raw), nil
}
