package model

import "fmt"

// Visibility of a class member, inferred from the Python naming convention.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
)

// ClassType distinguishes concrete classes from abstract ones.
type ClassType string

const (
	ClassConcrete ClassType = "class"
	ClassAbstract ClassType = "abstract"
)

// TypeRef is an opaque type-annotation string carried verbatim from the
// source. Empty means no annotation. It is never parsed or validated.
type TypeRef string

// Parameter is a single formal argument of a method.
type Parameter struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type,omitempty"`
}

// Attribute is a class or instance attribute. IsStatic is true for
// class-level bindings and false for instance bindings.
type Attribute struct {
	Name       string     `json:"name"`
	Type       TypeRef    `json:"type,omitempty"`
	Visibility Visibility `json:"visibility"`
	IsStatic   bool       `json:"is_static"`
}

// Method is a callable member of a class. Receiver records the instance (or
// class) binding of the first parameter; it is excluded from Parameters and
// never appears in rendered signatures.
type Method struct {
	Name       string      `json:"name"`
	ReturnType TypeRef     `json:"return_type,omitempty"`
	Parameters []Parameter `json:"parameters"`
	Visibility Visibility  `json:"visibility"`
	IsStatic   bool        `json:"is_static"`
	IsAbstract bool        `json:"is_abstract"`
	Receiver   string      `json:"receiver,omitempty"`
}

// ClassModel is the extracted structural model of one class declaration.
// Attribute and method order is declaration order; it drives diagram layout.
// Instances are immutable once returned by the extractor.
type ClassModel struct {
	QualifiedName string      `json:"qualified_name"`
	Name          string      `json:"name"`
	Filepath      string      `json:"filepath"`
	StartLine     int         `json:"start_line"`
	EndLine       int         `json:"end_line"`
	ClassType     ClassType   `json:"class_type"`
	Attributes    []Attribute `json:"attributes"`
	Methods       []Method    `json:"methods"`
}

// QualifiedName combines a source-unit path with a declared class name so
// that identically named classes in different files stay distinct.
func QualifiedName(filepath, name string) string {
	return fmt.Sprintf("%s:%s", filepath, name)
}
