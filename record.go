package eventboard

// EventType identifies the kind of repository activity a [StructuredEvent]
// describes.
//
// EventType is a string type so that values the feed sends which this
// package does not know about survive decoding unchanged; such events are
// rendered with the "Unknown event" template.
type EventType string

const (
	// EventPush is a push of commits to a branch.
	EventPush EventType = "push"

	// EventPullRequest is a pull request opened from one branch to another.
	EventPullRequest EventType = "pull_request"

	// EventMerge is a merge of one branch into another.
	EventMerge EventType = "merge"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// Record is one unit of activity returned by the events endpoint.
//
// Record is a closed sum type: the only implementations are
// [StructuredEvent] and [TextEvent]. Use a type switch to handle each case:
//
//	switch r := rec.(type) {
//	case eventboard.StructuredEvent:
//	    fmt.Println(r.Author)
//	case eventboard.TextEvent:
//	    fmt.Println(r.Text)
//	}
type Record interface {
	isRecord()
}

// StructuredEvent is a repository event described by its fields.
//
// Fields absent from the feed are left empty. Timestamp holds the raw text
// received (a JSON number is kept as its literal digits); it is interpreted
// only when the event is formatted, see [FormatTimestamp].
type StructuredEvent struct {
	Type       EventType `json:"event_type"`
	Author     string    `json:"author"`
	ToBranch   string    `json:"to_branch,omitempty"`
	FromBranch string    `json:"from_branch,omitempty"`
	Timestamp  string    `json:"timestamp"`
}

func (StructuredEvent) isRecord() {}

// TextEvent is a notification the feed has already rendered to text.
type TextEvent struct {
	Text    string `json:"text"`
	Summary string `json:"summary,omitempty"`
}

func (TextEvent) isRecord() {}

// Variant selects which record shape a [Source] serves and how its display
// container is laid out.
type Variant string

const (
	// VariantStructured expects an array of [StructuredEvent] objects and
	// renders them as div blocks inside the "events" container.
	VariantStructured Variant = "structured"

	// VariantText expects an array of [TextEvent] objects and renders them
	// as list items inside the "event-list" container.
	VariantText Variant = "text"

	// VariantAuto accepts both shapes in the same array. An object carrying
	// a "text" key decodes as a [TextEvent], anything else as a
	// [StructuredEvent]. Layout follows [VariantStructured].
	VariantAuto Variant = "auto"
)

const (
	structuredContainerID = "events"
	textContainerID       = "event-list"
)

// String returns the string representation of the variant.
func (v Variant) String() string {
	return string(v)
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	switch v {
	case VariantStructured, VariantText, VariantAuto:
		return true
	default:
		return false
	}
}

// ContainerID returns the well-known identifier of the display container
// used by this variant.
func (v Variant) ContainerID() string {
	if v == VariantText {
		return textContainerID
	}
	return structuredContainerID
}

// ListLayout reports whether entries are rendered as list items rather than
// generic blocks.
func (v Variant) ListLayout() bool {
	return v == VariantText
}
