package rules

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"pyfix/internal/fixer"
	"pyfix/internal/pattern"
	"pyfix/internal/tree"
)

// Rule is one declarative fixer as written in a rule file.
type Rule struct {
	Name      string `yaml:"name"`
	Pattern   string `yaml:"pattern"`
	Replace   string `yaml:"replace"`
	Priority  int    `yaml:"priority,omitempty"`
	Traversal string `yaml:"traversal,omitempty"`
	Explicit  bool   `yaml:"explicit,omitempty"`
	Doc       string `yaml:"doc,omitempty"`
}

type yamlFile struct {
	Fixers []Rule `yaml:"fixers"`
}

// RuleError reports a rule that could not be turned into a fixer.
type RuleError struct {
	Origin string
	Index  int
	Name   string
	Err    error
}

func (e *RuleError) Error() string {
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s: rule %d (%s): %v", e.Origin, e.Index, name, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Parse decodes a rule file in mapping or shorthand form.
func Parse(data []byte, origin string) ([]Rule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", origin, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var rules []Rule
		if err := root.Decode(&rules); err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
		return rules, nil
	case yaml.MappingNode:
		var f yamlFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("%s: %w", origin, err)
		}
		return f.Fixers, nil
	default:
		return nil, fmt.Errorf("%s: expected a list of rules", origin)
	}
}

// ParseTraversal accepts pre_order/top_down and post_order/bottom_up.
// An empty string means bottom-up.
func ParseTraversal(s string) (fixer.Traversal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "post_order", "bottom_up", "bottom-up":
		return fixer.BottomUp, nil
	case "pre_order", "top_down", "top-down":
		return fixer.TopDown, nil
	}
	return fixer.BottomUp, fmt.Errorf("unknown traversal %q", s)
}

// Fixer turns the rule into a fixer. The pattern is compiled here so that
// holes naming unknown captures are caught at load time.
func (r Rule) Fixer() (fixer.Fixer, error) {
	if strings.TrimSpace(r.Name) == "" {
		return fixer.Fixer{}, errors.New("missing name")
	}
	if strings.TrimSpace(r.Pattern) == "" {
		return fixer.Fixer{}, errors.New("missing pattern")
	}
	trav, err := ParseTraversal(r.Traversal)
	if err != nil {
		return fixer.Fixer{}, err
	}
	p, err := pattern.Cached(r.Pattern)
	if err != nil {
		return fixer.Fixer{}, err
	}
	tmpl, err := ParseTemplate(r.Replace)
	if err != nil {
		return fixer.Fixer{}, err
	}
	captures := p.Captures()
	for _, h := range tmpl.Holes() {
		if !slices.Contains(captures, h) {
			return fixer.Fixer{}, fmt.Errorf("replacement refers to unknown capture $%s", h)
		}
	}
	doc := r.Doc
	if doc == "" {
		doc = "-> " + r.Replace
	}
	return fixer.Fixer{
		Name:      r.Name,
		Pattern:   r.Pattern,
		Traversal: trav,
		Priority:  r.Priority,
		Explicit:  r.Explicit,
		Doc:       doc,
		Revision:  r.Replace,
		Transform: func(_ tree.Node, b pattern.Bindings) (tree.Node, error) {
			return tmpl.Instantiate(b)
		},
	}, nil
}

// Fixers converts every rule, collecting one RuleError per bad rule.
func Fixers(rules []Rule, origin string) ([]fixer.Fixer, error) {
	var out []fixer.Fixer
	var errs []error
	for i, r := range rules {
		f, err := r.Fixer()
		if err != nil {
			errs = append(errs, &RuleError{Origin: origin, Index: i, Name: r.Name, Err: err})
			continue
		}
		out = append(out, f)
	}
	return out, errors.Join(errs...)
}

// Load reads one rule file.
func Load(path string) ([]fixer.Fixer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	rules, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return Fixers(rules, path)
}

// LoadFiles reads every file in order. Valid rules are returned even when
// some rules or files fail.
func LoadFiles(paths []string) ([]fixer.Fixer, error) {
	var out []fixer.Fixer
	var errs []error
	for _, p := range paths {
		fs, err := Load(p)
		out = append(out, fs...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return out, errors.Join(errs...)
}
