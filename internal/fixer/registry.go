package fixer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pyfix/internal/diag"
	"pyfix/internal/pattern"
	"pyfix/internal/source"
)

// ErrDuplicateName is returned when a fixer name is registered twice.
var ErrDuplicateName = errors.New("duplicate fixer name")

// All selects every non-explicit fixer when used as a name in Select.
const All = "all"

// Rejection records a fixer that failed validation.
type Rejection struct {
	Name    string
	Pattern string
	Err     error
}

// UnknownFixerError reports a selection naming a fixer that does not exist.
type UnknownFixerError struct {
	Name string
}

func (e *UnknownFixerError) Error() string {
	return fmt.Sprintf("unknown fixer %q", e.Name)
}

// Registry stores validated fixers in registration order.
type Registry struct {
	fixers   []*Fixer
	byName   map[string]*Fixer
	rejected []Rejection
	reporter diag.Reporter
	compile  func(string) (*pattern.Pattern, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithReporter sends rejections to r as diagnostics.
func WithReporter(r diag.Reporter) Option {
	return func(reg *Registry) { reg.reporter = r }
}

// WithPatternCache compiles patterns through c instead of the shared cache.
func WithPatternCache(c *pattern.Cache) Option {
	return func(reg *Registry) { reg.compile = c.Compile }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byName:   make(map[string]*Fixer),
		reporter: diag.NopReporter{},
		compile:  pattern.Cached,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register validates f, compiles its pattern and stores a copy. A rejected
// fixer is recorded and excluded; the registry stays usable.
func (r *Registry) Register(f Fixer) error {
	if err := r.validate(&f); err != nil {
		r.reject(f, err)
		return err
	}
	p, err := r.compile(f.Pattern)
	if err != nil {
		err = fmt.Errorf("fixer %q: %w", f.Name, err)
		r.reject(f, err)
		return err
	}
	f.compiled = p
	f.seq = len(r.fixers)
	stored := f
	r.fixers = append(r.fixers, &stored)
	r.byName[f.Name] = &stored
	return nil
}

// MustRegister registers every fixer and panics on the first failure.
// It is meant for built-in fixer sets whose patterns are fixed at build time.
func (r *Registry) MustRegister(fs ...Fixer) {
	for _, f := range fs {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) validate(f *Fixer) error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return errors.New("fixer has no name")
	case f.Transform == nil:
		return fmt.Errorf("fixer %q has no transform", f.Name)
	case f.Name == All:
		return fmt.Errorf("fixer name %q is reserved", All)
	}
	if _, dup := r.byName[f.Name]; dup {
		return fmt.Errorf("fixer %q: %w", f.Name, ErrDuplicateName)
	}
	return nil
}

func (r *Registry) reject(f Fixer, err error) {
	r.rejected = append(r.rejected, Rejection{Name: f.Name, Pattern: f.Pattern, Err: err})

	code := diag.FixRuleInvalid
	var se *pattern.SyntaxError
	switch {
	case errors.As(err, &se):
		code = diag.PatSyntax
	case errors.Is(err, ErrDuplicateName):
		code = diag.FixDuplicateName
	}
	r.reporter.Report(code, diag.SevError, source.NoSpan, err.Error(), nil)
}

// Rejected lists the fixers that failed registration, oldest first.
func (r *Registry) Rejected() []Rejection {
	return append([]Rejection(nil), r.rejected...)
}

// Lookup finds a registered fixer by name.
func (r *Registry) Lookup(name string) (*Fixer, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Fixers returns the registered fixers in registration order.
func (r *Registry) Fixers() []*Fixer {
	return append([]*Fixer(nil), r.fixers...)
}

// Len returns the number of registered fixers.
func (r *Registry) Len() int { return len(r.fixers) }

// Names returns the registered names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fixers))
	for _, f := range r.fixers {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Select picks the active fixers and returns them ordered. With no names
// every non-explicit fixer is active; "all" means the same inside a list.
// Explicit fixers run only when named. Names in exclude are dropped last.
func (r *Registry) Select(names, exclude []string) ([]*Fixer, error) {
	chosen := make(map[*Fixer]bool)
	if len(names) == 0 {
		names = []string{All}
	}
	for _, name := range names {
		if name == All {
			for _, f := range r.fixers {
				if !f.Explicit {
					chosen[f] = true
				}
			}
			continue
		}
		f, ok := r.byName[name]
		if !ok {
			return nil, &UnknownFixerError{Name: name}
		}
		chosen[f] = true
	}
	for _, name := range exclude {
		f, ok := r.byName[name]
		if !ok {
			return nil, &UnknownFixerError{Name: name}
		}
		delete(chosen, f)
	}

	out := make([]*Fixer, 0, len(chosen))
	for _, f := range r.fixers {
		if chosen[f] {
			out = append(out, f)
		}
	}
	return Order(out), nil
}
