package eventboard

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InvalidDate is rendered in place of the time when a timestamp is missing
// or cannot be parsed.
const InvalidDate = "Invalid Date"

// summarySeparator joins a [TextEvent]'s text and its summary.
const summarySeparator = " — "

// displayTimeLayout renders times the way browsers' toUTCString does, with
// the zone written as UTC instead of GMT.
const displayTimeLayout = "Mon, 02 Jan 2006 15:04:05 UTC"

// maxEpochMillis bounds epoch timestamps to ±100,000,000 days, the range a
// browser Date accepts.
const maxEpochMillis = 8.64e15

// timestampLayouts are tried in order by [ParseTimestamp]. Layouts without a
// zone are read as UTC. Fractional seconds are accepted after the seconds
// field even where the layout omits them.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

var epochPattern = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// Formatter turns a [Record] into the text shown for it in a display
// container.
//
// Formatter should be a pure function. It is called inside the poll cycle's
// panic recovery boundary: a formatter that panics fails the cycle and
// leaves the display unchanged.
type Formatter func(Record) string

// DefaultFormatter renders records with the built-in message templates.
//
// For a [StructuredEvent]:
//
//	push          "<author>" pushed to "<to_branch>" on <time>
//	pull_request  "<author>" submitted a pull request from "<from_branch>" to "<to_branch>" on <time>
//	merge         "<author>" merged branch "<from_branch>" to "<to_branch>" on <time>
//	other         Unknown event by "<author>" on <time>
//
// Field values are inserted verbatim. <time> comes from [FormatTimestamp].
//
// For a [TextEvent]: the text, followed by " — <summary>" when the summary is
// non-empty.
var DefaultFormatter Formatter = func(r Record) string {
	switch rec := r.(type) {
	case StructuredEvent:
		return formatStructured(rec)
	case *StructuredEvent:
		return formatStructured(*rec)
	case TextEvent:
		return formatText(rec)
	case *TextEvent:
		return formatText(*rec)
	default:
		return ""
	}
}

func formatStructured(e StructuredEvent) string {
	when := FormatTimestamp(e.Timestamp)

	switch e.Type {
	case EventPush:
		return fmt.Sprintf(`"%s" pushed to "%s" on %s`, e.Author, e.ToBranch, when)
	case EventPullRequest:
		return fmt.Sprintf(`"%s" submitted a pull request from "%s" to "%s" on %s`,
			e.Author, e.FromBranch, e.ToBranch, when)
	case EventMerge:
		return fmt.Sprintf(`"%s" merged branch "%s" to "%s" on %s`,
			e.Author, e.FromBranch, e.ToBranch, when)
	default:
		return fmt.Sprintf(`Unknown event by "%s" on %s`, e.Author, when)
	}
}

func formatText(e TextEvent) string {
	if e.Summary == "" {
		return e.Text
	}
	return e.Text + summarySeparator + e.Summary
}

// FormatTimestamp renders a raw timestamp as a human-readable UTC time, for
// example "Mon, 01 Jan 2024 00:00:00 UTC". It returns [InvalidDate] if the
// timestamp cannot be parsed by [ParseTimestamp].
func FormatTimestamp(raw string) string {
	t, err := ParseTimestamp(raw)
	if err != nil {
		return InvalidDate
	}
	return t.UTC().Format(displayTimeLayout)
}

// ParseTimestamp interprets the timestamp text of a [StructuredEvent].
//
// Accepted forms:
//   - RFC 3339, with or without fractional seconds ("2024-01-01T00:00:00Z")
//   - ISO 8601 basic-format offsets ("2024-01-01T01:00:00+0100")
//   - ISO 8601 date-time without an offset, "T" or space separated, read as UTC
//   - a bare date ("2024-01-01"), read as UTC midnight
//   - RFC 1123 / RFC 1123Z ("Mon, 01 Jan 2024 00:00:00 GMT")
//   - epoch milliseconds ("1704067200000")
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if epochPattern.MatchString(s) {
		return parseEpochMillis(s)
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

func parseEpochMillis(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if math.Abs(float64(ms)) > maxEpochMillis {
			return time.Time{}, fmt.Errorf("epoch timestamp %s out of range", s)
		}
		return time.UnixMilli(ms).UTC(), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.Abs(f) > maxEpochMillis {
		return time.Time{}, fmt.Errorf("epoch timestamp %s out of range", s)
	}
	return time.UnixMilli(int64(math.Trunc(f))).UTC(), nil
}
