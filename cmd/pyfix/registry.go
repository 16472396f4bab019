package main

import (
	"errors"
	"fmt"

	"pyfix/internal/config"
	"pyfix/internal/diag"
	"pyfix/internal/fixer"
	"pyfix/internal/fixes"
	"pyfix/internal/pattern"
	"pyfix/internal/rules"
	"pyfix/internal/source"
)

// buildRegistry registers the built-in fixers and then the rule files from
// cfg and extra. Broken rules are reported to bag and left out; the
// registry stays usable.
func buildRegistry(cfg *config.Config, extra []string, bag *diag.Bag) *fixer.Registry {
	reporter := &diag.BagReporter{Bag: bag}
	reg := fixes.Default(fixer.WithReporter(reporter))

	paths := append(cfg.RuleFiles(), extra...)
	if len(paths) == 0 {
		return reg
	}
	loaded, err := rules.LoadFiles(paths)
	for _, e := range unjoin(err) {
		code := diag.FixRuleInvalid
		var se *pattern.SyntaxError
		if errors.As(e, &se) {
			code = diag.PatSyntax
		}
		diag.ReportError(reporter, code, source.NoSpan, e.Error()).Emit()
	}
	for _, f := range loaded {
		// отказ уже в bag через WithReporter
		_ = reg.Register(f)
	}
	return reg
}

// selectFixers resolves names and exclude against reg. Unknown names are
// reported to bag and returned as an error.
func selectFixers(reg *fixer.Registry, names, exclude []string, bag *diag.Bag) ([]*fixer.Fixer, error) {
	selected, err := reg.Select(names, exclude)
	if err != nil {
		var unknown *fixer.UnknownFixerError
		if errors.As(err, &unknown) {
			bag.Add(diag.NewError(diag.FixUnknownName, source.NoSpan, err.Error()))
		}
		return nil, err
	}
	for _, f := range selected {
		if f.Explicit {
			bag.Add(diag.New(diag.SevInfo, diag.FixExplicitSelected, source.NoSpan,
				fmt.Sprintf("explicit fixer %q enabled", f.Name)))
		}
	}
	return selected, nil
}

func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
