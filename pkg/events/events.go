// Package events carries status and output notifications from background
// tasks to the interaction loop.
package events

// StatusKind enumerates the conversation status values.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusRequesting
	StatusError
)

// Status is the conversation-level state shown in the status bar.
type Status struct {
	Kind StatusKind
	Err  string
}

// Idle returns the idle status.
func Idle() Status { return Status{Kind: StatusIdle} }

// Requesting returns the busy status.
func Requesting() Status { return Status{Kind: StatusRequesting} }

// ErrorStatus returns an error status carrying the message.
func ErrorStatus(msg string) Status { return Status{Kind: StatusError, Err: msg} }

// Event is a single message from a background task. Exactly one producer
// emits events for each spawned command; the interaction loop is the only
// consumer.
type Event interface {
	isEvent()
}

// StatusEvent reports a status transition.
type StatusEvent struct {
	Status Status
}

// NoticeEvent carries free-form text to append as a system notification.
type NoticeEvent struct {
	Text string
}

func (StatusEvent) isEvent() {}
func (NoticeEvent) isEvent() {}
