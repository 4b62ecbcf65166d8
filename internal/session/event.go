package session

// EventKind is the closed set of inputs the session understands.
type EventKind int

const (
	// EventOther is any input the session ignores.
	EventOther EventKind = iota
	// EventCancel ends the session.
	EventCancel
	// EventDelete removes the last typed character.
	EventDelete
	// EventPrintable appends Event.Char.
	EventPrintable
)

func (k EventKind) String() string {
	switch k {
	case EventCancel:
		return "cancel"
	case EventDelete:
		return "delete"
	case EventPrintable:
		return "printable"
	default:
		return "other"
	}
}

// Event is one classified input.
type Event struct {
	Kind EventKind
	Char byte
}

// Cancel returns a cancel event.
func Cancel() Event { return Event{Kind: EventCancel} }

// Delete returns a delete-last-character event.
func Delete() Event { return Event{Kind: EventDelete} }

// Other returns an ignored event.
func Other() Event { return Event{Kind: EventOther} }

// Printable returns an event for c, or Other when c is outside ASCII 32..126.
func Printable(c rune) Event {
	if !IsPrintable(c) {
		return Other()
	}
	return Event{Kind: EventPrintable, Char: byte(c)}
}

// IsPrintable reports whether r is printable ASCII, space included.
func IsPrintable(r rune) bool {
	return r >= ' ' && r <= '~'
}
