package core

import "time"

// Event is the interface for all endpoint events.
type Event interface {
	eventMarker()
}

// ReceiverBound is emitted when a receiver's registry is published.
type ReceiverBound struct {
	BindingID string
	Receiver  string
	Handlers  int
	Timestamp time.Time
}

func (*ReceiverBound) eventMarker() {}

// ReceiverUnbound is emitted when a receiver's registry is withdrawn.
type ReceiverUnbound struct {
	BindingID string
	Receiver  string
	Timestamp time.Time
}

func (*ReceiverUnbound) eventMarker() {}

// FrameHandled is emitted after a handler returns without error.
type FrameHandled struct {
	BindingID string
	Receiver  string
	Label     string
	Kind      string
	Duration  time.Duration
	Timestamp time.Time
}

func (*FrameHandled) eventMarker() {}

// FrameUnhandled is emitted when no handler of a receiver accepts a frame.
type FrameUnhandled struct {
	BindingID string
	Receiver  string
	Kind      string
	Timestamp time.Time
}

func (*FrameUnhandled) eventMarker() {}

// DispatchFailed is emitted when resolution is ambiguous or a handler fails.
type DispatchFailed struct {
	BindingID string
	Receiver  string
	Kind      string
	Error     error
	Timestamp time.Time
}

func (*DispatchFailed) eventMarker() {}
