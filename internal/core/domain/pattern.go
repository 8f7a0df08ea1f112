package domain

import "regexp"

// PatternSpec is an uncompiled generic detection pattern as read from configuration.
type PatternSpec struct {
	Name string
	Expr string
}

// LabelSpec is an uncompiled label expression as read from configuration.
// Expr matches a parameter name; Label names the finding.
type LabelSpec struct {
	Expr  string
	Label string
}

// DetectionPattern is a compiled generic pattern matched against raw text.
type DetectionPattern struct {
	Name    string
	Matcher *regexp.Regexp
}

// LabelPattern is a compiled parameter-name matcher paired with value extraction.
type LabelPattern struct {
	Matcher *regexp.Regexp
	Label   string
}
