// Package frames dispatches typed WebSocket frames to the most specific
// handler a receiver declares.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	type Socket struct{}
//
//	// Every frame not matched more specifically.
//	func (s *Socket) OnFrame(f frames.Frame) { ... }
//
//	// Text frames only.
//	func (s *Socket) OnFrameText(ctx context.Context, f *frames.TextFrame) error { ... }
//
//	ep := frames.NewEndpoint()
//	if _, err := ep.Bind(&Socket{}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Feed frames decoded by the connection layer.
//	results, err := ep.Dispatch(ctx, frames.NewText("hello"))
package frames

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/endpoint"
	"github.com/jdziat/simple-frame-handlers/pkg/frame"
	"github.com/jdziat/simple-frame-handlers/pkg/registry"
	"github.com/jdziat/simple-frame-handlers/pkg/scan"
	"github.com/jdziat/simple-frame-handlers/pkg/schedule"
	"github.com/jdziat/simple-frame-handlers/pkg/security"
	"github.com/jdziat/simple-frame-handlers/pkg/stats"
)

type (
	// Kind is a type tag identifying a frame type within a Hierarchy.
	Kind = core.Kind

	// Frame is implemented by every value that can be dispatched.
	Frame = core.Frame

	// Hierarchy is the frame type hierarchy consumed by the registry.
	Hierarchy = core.Hierarchy

	// FrameHierarchy is the extensible built-in hierarchy.
	FrameHierarchy = frame.Hierarchy

	// Candidate describes one handler offered for registration.
	Candidate = core.Candidate

	// Invoker runs a bound handler with a frame.
	Invoker = core.Invoker

	// Event is the interface for all endpoint events.
	Event = core.Event

	// ReceiverBound is emitted when a receiver's registry is published.
	ReceiverBound = core.ReceiverBound

	// ReceiverUnbound is emitted when a receiver's registry is withdrawn.
	ReceiverUnbound = core.ReceiverUnbound

	// FrameHandled is emitted after a handler returns without error.
	FrameHandled = core.FrameHandled

	// FrameUnhandled is emitted when no handler of a receiver accepts a frame.
	FrameUnhandled = core.FrameUnhandled

	// DispatchFailed is emitted when resolution is ambiguous or a handler fails.
	DispatchFailed = core.DispatchFailed

	// Header holds the fields shared by every built-in frame.
	Header = frame.Header

	// TextFrame carries UTF-8 text.
	TextFrame = frame.TextFrame

	// BinaryFrame carries binary data.
	BinaryFrame = frame.BinaryFrame

	// ContinuationFrame continues a fragmented message.
	ContinuationFrame = frame.ContinuationFrame

	// CloseFrame starts or acknowledges the closing handshake.
	CloseFrame = frame.CloseFrame

	// PingFrame is a keepalive request.
	PingFrame = frame.PingFrame

	// PongFrame answers a ping.
	PongFrame = frame.PongFrame

	// DataFrame is implemented by frames that carry application data.
	DataFrame = frame.Data

	// ControlFrame is implemented by control frames.
	ControlFrame = frame.Control

	// Registry is an immutable set of handlers for one receiver.
	Registry = registry.Registry

	// Descriptor is one validated handler.
	Descriptor = registry.Descriptor

	// Outcome is the result of a dispatch.
	Outcome = registry.Outcome

	// DispatchInfo describes the dispatch a handler is running under.
	DispatchInfo = registry.DispatchInfo

	// Endpoint publishes receiver registries and dispatches frames to them.
	Endpoint = endpoint.Endpoint

	// EndpointOption configures an Endpoint.
	EndpointOption = endpoint.Option

	// BindOption configures a binding.
	BindOption = endpoint.BindOption

	// Binding describes a bound receiver.
	Binding = endpoint.Binding

	// Result is the outcome of dispatching a frame to one binding.
	Result = endpoint.Result

	// TypeTable maps Go parameter types onto frame kinds.
	TypeTable = scan.TypeTable

	// ScanOption configures handler method discovery.
	ScanOption = scan.Option

	// Schedule defines when a recurring task runs next.
	Schedule = schedule.Schedule

	// StatsStorage is the interface for stats persistence.
	StatsStorage = stats.Storage

	// GormStatsStorage implements StatsStorage using GORM.
	GormStatsStorage = stats.GormStorage

	// DispatchStat stores dispatch counts bucketed by minute.
	DispatchStat = stats.DispatchStat

	// StatsCollector counts dispatch outcomes and flushes them to storage.
	StatsCollector = stats.Collector

	// StatsOption configures a StatsCollector.
	StatsOption = stats.CollectorOption

	// RetryConfig controls how failed stats writes are retried.
	RetryConfig = stats.RetryConfig
)

// Built-in kinds
const (
	KindFrame        = frame.KindFrame
	KindData         = frame.KindData
	KindControl      = frame.KindControl
	KindText         = frame.KindText
	KindBinary       = frame.KindBinary
	KindContinuation = frame.KindContinuation
	KindClose        = frame.KindClose
	KindPing         = frame.KindPing
	KindPong         = frame.KindPong
)

// Outcome statuses
const (
	Handled   = registry.Handled
	Unhandled = registry.Unhandled
)

// Security limits
const (
	MaxKindNameLength      = security.MaxKindNameLength
	MaxKinds               = security.MaxKinds
	MaxLabelLength         = security.MaxLabelLength
	MaxHandlersPerReceiver = security.MaxHandlersPerReceiver
	MaxErrorMessageLength  = security.MaxErrorMessageLength
)

// DefaultHierarchy returns the process-wide frame hierarchy.
func DefaultHierarchy() *FrameHierarchy {
	return frame.Default()
}

// NewHierarchy creates a hierarchy holding the built-in kinds.
func NewHierarchy() *FrameHierarchy {
	return frame.NewHierarchy()
}

// DefaultTypes returns a type table holding the built-in frame types.
func DefaultTypes() *TypeTable {
	return scan.DefaultTypes()
}

// DefaultTypesFor returns a type table over h holding the built-in frame types.
func DefaultTypesFor(h Hierarchy) *TypeTable {
	return scan.DefaultTypesFor(h)
}

// BindType maps the Go type F onto kind k in types.
func BindType[F Frame](types *TypeTable, k Kind) error {
	return scan.BindType[F](types, k)
}

// Register validates candidates and builds a Registry.
func Register(h Hierarchy, candidates []Candidate) (*Registry, error) {
	return registry.Register(h, candidates)
}

// Methods collects the handler methods of receiver.
func Methods(receiver any, types *TypeTable, opts ...ScanOption) ([]Candidate, error) {
	return scan.Methods(receiver, types, opts...)
}

// MethodPrefix sets the method name prefix Methods looks for.
func MethodPrefix(p string) ScanOption {
	return scan.WithPrefix(p)
}

// Func turns a handler function into a candidate.
func Func(label string, fn any) (Candidate, error) {
	return scan.Func(label, fn, nil)
}

// Typed builds a candidate from a statically typed handler.
func Typed[F Frame](label string, fn func(context.Context, F) error) (Candidate, error) {
	return scan.Typed(label, fn, nil)
}

// NewEndpoint creates an Endpoint with no bindings.
func NewEndpoint(opts ...EndpointOption) *Endpoint {
	return endpoint.New(opts...)
}

// NewText returns a final text frame.
func NewText(s string) *TextFrame {
	return frame.NewText(s)
}

// NewBinary returns a final binary frame.
func NewBinary(b []byte) *BinaryFrame {
	return frame.NewBinary(b)
}

// NewClose returns a close frame.
func NewClose(code uint16, reason string) *CloseFrame {
	return frame.NewClose(code, reason)
}

// FromOpcode maps an already-decoded frame onto its frame type.
func FromOpcode(op byte, fin bool, payload []byte) (Frame, error) {
	return frame.FromOpcode(op, fin, payload)
}

// InfoFromContext returns the dispatch info of the running handler.
func InfoFromContext(ctx context.Context) (DispatchInfo, bool) {
	return registry.InfoFromContext(ctx)
}

// Endpoint option functions

// WithHierarchy sets the frame hierarchy registries are validated against.
func WithHierarchy(h Hierarchy) EndpointOption {
	return endpoint.WithHierarchy(h)
}

// WithTypes sets the type table used to discover handler parameter kinds.
func WithTypes(t *TypeTable) EndpointOption {
	return endpoint.WithTypes(t)
}

// WithLogger sets the endpoint's logger.
func WithLogger(l *slog.Logger) EndpointOption {
	return endpoint.WithLogger(l)
}

// WithMethodPrefix sets the method name prefix that marks a handler.
func WithMethodPrefix(p string) EndpointOption {
	return endpoint.WithMethodPrefix(p)
}

// BindLabel names a binding.
func BindLabel(name string) BindOption {
	return endpoint.BindLabel(name)
}

// Stats

// NewGormStatsStorage creates a GORM-backed stats storage.
func NewGormStatsStorage(db *gorm.DB) *GormStatsStorage {
	return stats.NewGormStorage(db)
}

// NewStatsCollector creates a collector reading events from ep.
func NewStatsCollector(ep *Endpoint, store StatsStorage, opts ...StatsOption) *StatsCollector {
	return stats.NewCollector(ep, store, opts...)
}

// DefaultRetryConfig returns the default stats retry configuration.
func DefaultRetryConfig() RetryConfig {
	return stats.DefaultRetryConfig()
}

// Stats option functions

// StatsRetention sets how long stats rows are kept. 0 disables pruning.
func StatsRetention(d time.Duration) StatsOption {
	return stats.WithRetention(d)
}

// StatsSchedule sets when stats counters are flushed.
func StatsSchedule(s Schedule) StatsOption {
	return stats.WithSchedule(s)
}

// StatsRetry sets how failed stats writes are retried.
func StatsRetry(cfg RetryConfig) StatsOption {
	return stats.WithRetry(cfg)
}

// StatsLogger sets the logger used for stats flush failures.
func StatsLogger(l *slog.Logger) StatsOption {
	return stats.WithLogger(l)
}

// Schedule functions

// Every creates a schedule that runs at fixed intervals.
func Every(d time.Duration) Schedule {
	return schedule.Every(d)
}

// Cron creates a schedule from a cron expression.
func Cron(expr string) Schedule {
	return schedule.Cron(expr)
}

// Validation

// ValidateKindName validates a frame kind name.
func ValidateKindName(name string) error {
	return security.ValidateKindName(name)
}

// ValidateLabel validates a handler or receiver label.
func ValidateLabel(label string) error {
	return security.ValidateLabel(label)
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage.
func SanitizeErrorMessage(msg string) string {
	return security.SanitizeErrorMessage(msg)
}
