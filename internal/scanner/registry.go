package scanner

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// Registry is an immutable, ordered set of compiled patterns and labels.
type Registry struct {
	patterns []domain.DetectionPattern
	labels   []domain.LabelPattern
}

// NewRegistry compiles every expression up front. Any malformed expression,
// empty name or duplicate pattern name fails the whole registry.
func NewRegistry(patterns []domain.PatternSpec, labels []domain.LabelSpec) (*Registry, error) {
	r := &Registry{
		patterns: make([]domain.DetectionPattern, 0, len(patterns)),
		labels:   make([]domain.LabelPattern, 0, len(labels)),
	}

	seen := make(map[string]bool, len(patterns))
	for _, spec := range patterns {
		if spec.Name == "" {
			return nil, fmt.Errorf("%w: pattern %q has no name", domain.ErrInvalidPattern, spec.Expr)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate pattern name %q", domain.ErrInvalidPattern, spec.Name)
		}
		seen[spec.Name] = true

		re, err := compile(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %s: %w", domain.ErrInvalidPattern, spec.Name, err)
		}
		r.patterns = append(r.patterns, domain.DetectionPattern{Name: spec.Name, Matcher: re})
	}

	for _, spec := range labels {
		if spec.Label == "" {
			return nil, fmt.Errorf("%w: label expression %q has no label", domain.ErrInvalidPattern, spec.Expr)
		}
		re, err := compile(spec.Expr)
		if err != nil {
			return nil, fmt.Errorf("%w: label %s: %w", domain.ErrInvalidPattern, spec.Label, err)
		}
		r.labels = append(r.labels, domain.LabelPattern{Matcher: re, Label: spec.Label})
	}

	return r, nil
}

// DefaultRegistry builds the registry of built-in patterns and labels.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultPatterns(), DefaultLabels())
	if err != nil {
		panic(fmt.Sprintf("scanner: built-in patterns do not compile: %v", err))
	}
	return r
}

func compile(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	return regexp.Compile(expr)
}

// Patterns returns a copy of the generic patterns in registry order.
func (r *Registry) Patterns() []domain.DetectionPattern {
	return append([]domain.DetectionPattern(nil), r.patterns...)
}

// Labels returns a copy of the label patterns in registry order.
func (r *Registry) Labels() []domain.LabelPattern {
	return append([]domain.LabelPattern(nil), r.labels...)
}

// Len returns the total number of compiled expressions.
func (r *Registry) Len() int {
	return len(r.patterns) + len(r.labels)
}
