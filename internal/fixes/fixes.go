package fixes

import (
	"pyfix/internal/fixer"
)

// All returns fresh copies of the built-in fixers in registration order.
func All() []fixer.Fixer {
	return []fixer.Fixer{
		Division(),
		Ne(),
		NumLiterals(),
		Long(),
		Xrange(),
		RawInput(),
		HasKey(),
		Dict(),
		FilterMap(),
		Except(),
		Raise(),
		Print(),
		Exec(),
		Repr(),
		Idioms(),
	}
}

// Register adds every built-in fixer to r. It stops at the first error.
func Register(r *fixer.Registry) error {
	for _, f := range All() {
		if err := r.Register(f); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a registry holding the built-in fixers.
func Default(opts ...fixer.Option) *fixer.Registry {
	r := fixer.NewRegistry(opts...)
	r.MustRegister(All()...)
	return r
}
