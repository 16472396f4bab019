package rewrite

import (
	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/source"
	"pyfix/internal/trace"
)

type config struct {
	reporter diag.Reporter
	tracer   trace.Tracer
	parent   uint64
	file     *source.File
	index    *fixer.Index
}

// Option configures Apply.
type Option func(*config)

// WithReporter receives RwTransformFailed and RwPrefixLost diagnostics.
func WithReporter(r diag.Reporter) Option {
	return func(c *config) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithTracer emits a node-scope point per replacement under parent.
func WithTracer(t trace.Tracer, parent uint64) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
			c.parent = parent
		}
	}
}

// WithFile resolves spans to line and column.
func WithFile(f *source.File) Option {
	return func(c *config) { c.file = f }
}

// WithIndex reuses a dispatch index built for the same ordered fixers.
func WithIndex(ix *fixer.Index) Option {
	return func(c *config) { c.index = ix }
}
