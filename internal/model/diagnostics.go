package model

import "fmt"

// DiagnosticKind classifies the non-fatal conditions a run can report.
type DiagnosticKind string

const (
	// DiagUnsupportedConstruct marks a member declaration pattern the
	// extractor does not model (nested class, multi-target assignment, ...).
	DiagUnsupportedConstruct DiagnosticKind = "unsupported_construct"
	// DiagDuplicateQualifiedName marks a registry collision.
	DiagDuplicateQualifiedName DiagnosticKind = "duplicate_qualified_name"
	// DiagMalformedAnnotation marks an annotation the model cannot
	// stringify cleanly.
	DiagMalformedAnnotation DiagnosticKind = "malformed_annotation"
)

// Diagnostic is a non-fatal report attached to a run. Diagnostics never
// abort extraction of sibling members, classes or source units.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Filepath string         `json:"filepath"`
	Line     int            `json:"line,omitempty"`
	Detail   string         `json:"detail,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", d.Filepath, d.Line, d.Kind, d.Detail)
}
