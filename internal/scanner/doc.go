// Package scanner detects sensitive tokens in line-oriented text.
//
// Detection runs two independent passes over the same lines:
//
//   - Generic pass: every DetectionPattern against every line, pattern-major.
//   - Label pass: every LabelPattern against every line, line-major, with the
//     value assigned to the matched parameter name appended when one can be
//     extracted ("db_password=hunter2").
//
// Findings of the generic pass come first. Nothing is deduplicated, so one
// substring can be reported by several patterns. Scanning is purely lexical
// and holds no state between calls.
package scanner
