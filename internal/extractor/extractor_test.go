package extractor

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyuml/internal/model"
)

func TestExtractor_ExtractFromFile(t *testing.T) {
	testFile := filepath.Join("testdata", "sample.py")

	ext, err := NewExtractor("python")
	require.NoError(t, err)

	classes, diags, err := ext.ExtractFromFile(context.Background(), testFile)
	require.NoError(t, err)

	classesByName := make(map[string]*model.ClassModel)
	for _, class := range classes {
		classesByName[class.Name] = class
	}

	t.Run("Overall Count", func(t *testing.T) {
		assert.Equal(t, 4, len(classes), "Should extract Animal, _Cache, Shape and Broken")
	})

	t.Run("Declaration Order", func(t *testing.T) {
		var names []string
		for _, class := range classes {
			names = append(names, class.Name)
		}
		assert.Equal(t, []string{"Animal", "_Cache", "Shape", "Broken"}, names)
	})

	t.Run("Qualified Names", func(t *testing.T) {
		for _, class := range classes {
			assert.Equal(t, testFile+":"+class.Name, class.QualifiedName)
			assert.Equal(t, testFile, class.Filepath)
			assert.Greater(t, class.StartLine, 0)
		}
	})

	t.Run("Animal Attributes", func(t *testing.T) {
		animal, ok := classesByName["Animal"]
		require.True(t, ok)
		assert.Equal(t, model.ClassConcrete, animal.ClassType)

		require.Len(t, animal.Attributes, 2)
		assert.Equal(t, "name", animal.Attributes[0].Name)
		assert.Equal(t, model.TypeRef("str"), animal.Attributes[0].Type)
		assert.Equal(t, model.VisibilityPublic, animal.Attributes[0].Visibility)
		assert.False(t, animal.Attributes[0].IsStatic, "annotation-only declarations bind on the instance")

		assert.Equal(t, "kind", animal.Attributes[1].Name)
		assert.Equal(t, model.TypeRef(""), animal.Attributes[1].Type)
		assert.True(t, animal.Attributes[1].IsStatic, "class-body assignments are class-level bindings")
	})

	t.Run("Animal Methods", func(t *testing.T) {
		animal := classesByName["Animal"]
		require.Len(t, animal.Methods, 2)

		speak := animal.Methods[0]
		assert.Equal(t, "speak", speak.Name)
		assert.Equal(t, model.TypeRef("str"), speak.ReturnType)
		assert.Equal(t, model.VisibilityPublic, speak.Visibility)
		assert.Equal(t, "self", speak.Receiver)
		assert.Empty(t, speak.Parameters, "the instance binding is excluded from parameters")

		move := animal.Methods[1]
		assert.Equal(t, "move", move.Name)
		assert.Equal(t, model.TypeRef("None"), move.ReturnType)
		require.Len(t, move.Parameters, 2)
		assert.Equal(t, model.Parameter{Name: "dx", Type: "int"}, move.Parameters[0])
		assert.Equal(t, model.Parameter{Name: "dy", Type: "int"}, move.Parameters[1])
	})

	t.Run("Cache Instance Attributes", func(t *testing.T) {
		cache, ok := classesByName["_Cache"]
		require.True(t, ok)
		assert.Equal(t, model.ClassConcrete, cache.ClassType)

		require.Len(t, cache.Attributes, 3)
		assert.Equal(t, "__size", cache.Attributes[0].Name)
		assert.Equal(t, model.VisibilityPrivate, cache.Attributes[0].Visibility)
		assert.Equal(t, model.TypeRef(""), cache.Attributes[0].Type)
		assert.False(t, cache.Attributes[0].IsStatic)

		assert.Equal(t, "_entries", cache.Attributes[1].Name)
		assert.Equal(t, model.VisibilityProtected, cache.Attributes[1].Visibility)
		assert.Equal(t, model.TypeRef("dict"), cache.Attributes[1].Type)

		assert.Equal(t, "limit", cache.Attributes[2].Name)
		assert.Equal(t, model.VisibilityPublic, cache.Attributes[2].Visibility)
	})

	t.Run("Cache Methods", func(t *testing.T) {
		cache := classesByName["_Cache"]
		require.Len(t, cache.Methods, 2)
		assert.Equal(t, "__init__", cache.Methods[0].Name)
		assert.Equal(t, model.VisibilityPublic, cache.Methods[0].Visibility, "dunder names stay public")
		assert.Equal(t, "_evict", cache.Methods[1].Name)
		assert.Equal(t, model.VisibilityProtected, cache.Methods[1].Visibility)
	})

	t.Run("Abstract Class", func(t *testing.T) {
		shape, ok := classesByName["Shape"]
		require.True(t, ok)
		assert.Equal(t, model.ClassAbstract, shape.ClassType)

		require.Len(t, shape.Methods, 3)
		area := shape.Methods[0]
		assert.True(t, area.IsAbstract)
		assert.False(t, area.IsStatic)
		assert.Equal(t, model.TypeRef("float"), area.ReturnType)

		unit := shape.Methods[1]
		assert.True(t, unit.IsStatic)
		assert.Empty(t, unit.Receiver, "staticmethods have no instance binding")
		assert.Empty(t, unit.Parameters)

		fromWKT := shape.Methods[2]
		assert.True(t, fromWKT.IsStatic, "classmethods are class-level bindings")
		assert.Equal(t, "cls", fromWKT.Receiver)
		require.Len(t, fromWKT.Parameters, 1)
		assert.Equal(t, model.Parameter{Name: "text", Type: "str"}, fromWKT.Parameters[0])
	})

	t.Run("Unsupported Constructs", func(t *testing.T) {
		broken, ok := classesByName["Broken"]
		require.True(t, ok)
		assert.Empty(t, broken.Attributes)
		assert.Empty(t, broken.Methods)

		var kinds []model.DiagnosticKind
		for _, d := range diags {
			kinds = append(kinds, d.Kind)
		}
		assert.Len(t, diags, 3, "chained assignment, tuple target and nested class each report once")
		for _, k := range kinds {
			assert.Equal(t, model.DiagUnsupportedConstruct, k)
		}
	})
}

func TestExtractor_EmptyClass(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	source := []byte("class Empty:\n    pass\n")
	classes, diags, err := ext.ExtractFromSource(context.Background(), source, "empty.py")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Empty(t, diags)

	empty := classes[0]
	assert.Equal(t, "Empty", empty.Name)
	assert.Equal(t, model.ClassConcrete, empty.ClassType)
	assert.NotNil(t, empty.Attributes)
	assert.NotNil(t, empty.Methods)
	assert.Empty(t, empty.Attributes)
	assert.Empty(t, empty.Methods)
}

func TestExtractor_AbstractMetaclass(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	source := []byte("import abc\n\n\nclass Repo(metaclass=abc.ABCMeta):\n    pass\n")
	classes, _, err := ext.ExtractFromSource(context.Background(), source, "repo.py")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, model.ClassAbstract, classes[0].ClassType)
}

func TestExtractor_MultilineAnnotation(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	source := []byte("class Table:\n    def rows(self) -> dict[\n        str,\n        int]:\n        ...\n")
	classes, diags, err := ext.ExtractFromSource(context.Background(), source, "table.py")
	require.NoError(t, err)
	require.Len(t, classes, 1)

	require.Len(t, classes[0].Methods, 1)
	assert.Equal(t, model.TypeRef(""), classes[0].Methods[0].ReturnType,
		"an annotation spanning lines degrades to an empty type")

	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagMalformedAnnotation, diags[0].Kind)
	assert.Equal(t, "table.py", diags[0].Filepath)
}

func TestExtractor_ModuleWithoutClasses(t *testing.T) {
	ext, err := NewExtractor("python")
	require.NoError(t, err)

	source := []byte("def helper():\n    return 1\n")
	classes, diags, err := ext.ExtractFromSource(context.Background(), source, "util.py")
	require.NoError(t, err)
	assert.Empty(t, classes)
	assert.Empty(t, diags)
}

func TestExtractor_UnsupportedLanguage(t *testing.T) {
	_, err := NewExtractor("cobol")
	assert.Error(t, err)
}
