package endpoint

import (
	"log/slog"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/frame"
	"github.com/jdziat/simple-frame-handlers/pkg/scan"
)

// Options holds endpoint configuration.
type Options struct {
	Hierarchy    core.Hierarchy
	Types        *scan.TypeTable
	Logger       *slog.Logger
	MethodPrefix string
}

// NewOptions creates Options with defaults. A nil Types is replaced by the
// built-in types over Hierarchy when the endpoint is created.
func NewOptions() *Options {
	return &Options{
		Hierarchy:    frame.Default(),
		Logger:       slog.Default(),
		MethodPrefix: scan.DefaultPrefix,
	}
}

// Option modifies Options.
type Option interface {
	Apply(*Options)
}

type optionFunc func(*Options)

func (f optionFunc) Apply(o *Options) { f(o) }

// WithHierarchy sets the frame hierarchy registries are validated against.
func WithHierarchy(h core.Hierarchy) Option {
	return optionFunc(func(o *Options) {
		if h != nil {
			o.Hierarchy = h
		}
	})
}

// WithTypes sets the type table used to discover handler parameter kinds.
// The table should be built over the endpoint's hierarchy.
func WithTypes(t *scan.TypeTable) Option {
	return optionFunc(func(o *Options) {
		if t != nil {
			o.Types = t
		}
	})
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	})
}

// WithMethodPrefix sets the method name prefix that marks a handler.
func WithMethodPrefix(p string) Option {
	return optionFunc(func(o *Options) {
		if p != "" {
			o.MethodPrefix = p
		}
	})
}

// BindOptions holds per-binding configuration.
type BindOptions struct {
	Label string
}

// BindOption modifies BindOptions.
type BindOption interface {
	ApplyBind(*BindOptions)
}

type bindOptionFunc func(*BindOptions)

func (f bindOptionFunc) ApplyBind(o *BindOptions) { f(o) }

// BindLabel names the binding. The default is the receiver's type name.
func BindLabel(name string) BindOption {
	return bindOptionFunc(func(o *BindOptions) {
		o.Label = name
	})
}
