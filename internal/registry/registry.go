// Package registry aggregates class models from multiple source units into
// one ordered collection.
package registry

import (
	"fmt"

	"pyuml/internal/model"
)

// Registry keeps class models in insertion order and rejects qualified-name
// collisions, keeping the first-seen entry.
type Registry struct {
	classes []*model.ClassModel
	index   map[string]*model.ClassModel
	diags   []model.Diagnostic
}

func New() *Registry {
	return &Registry{index: make(map[string]*model.ClassModel)}
}

// Add inserts a class model. A duplicate qualified name is rejected and
// recorded as a diagnostic naming both declaration sites.
func (r *Registry) Add(class *model.ClassModel) bool {
	if existing, ok := r.index[class.QualifiedName]; ok {
		r.diags = append(r.diags, model.Diagnostic{
			Kind:     model.DiagDuplicateQualifiedName,
			Filepath: class.Filepath,
			Line:     class.StartLine,
			Detail: fmt.Sprintf("%s already declared at %s:%d",
				class.QualifiedName, existing.Filepath, existing.StartLine),
		})
		return false
	}
	r.index[class.QualifiedName] = class
	r.classes = append(r.classes, class)
	return true
}

// All returns the class models in insertion order.
func (r *Registry) All() []*model.ClassModel {
	return r.classes
}

// Diagnostics returns the collision diagnostics recorded so far.
func (r *Registry) Diagnostics() []model.Diagnostic {
	return r.diags
}

func (r *Registry) Len() int {
	return len(r.classes)
}
