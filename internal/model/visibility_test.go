package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferVisibility(t *testing.T) {
	cases := []struct {
		name string
		want Visibility
	}{
		{"speak", VisibilityPublic},
		{"name", VisibilityPublic},
		{"_cache", VisibilityProtected},
		{"_", VisibilityProtected},
		{"__size", VisibilityPrivate},
		{"___deep", VisibilityPrivate},
		{"__init__", VisibilityPublic},
		{"__eq__", VisibilityPublic},
		{"__", VisibilityPrivate},
		{"____", VisibilityPrivate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, InferVisibility(tc.name))
		})
	}
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "src/models.py:User", QualifiedName("src/models.py", "User"))
}
