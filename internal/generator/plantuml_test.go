package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyuml/internal/extractor"
	"pyuml/internal/model"
	"pyuml/internal/registry"
)

func TestPlantUMLGenerator_Scenario(t *testing.T) {
	// models.py with a concrete annotated class and a protected class
	// holding a private instance attribute.
	source := []byte(`class Animal:
    name: str

    def speak(self) -> str:
        return self.name


class _Cache:
    def __init__(self):
        self.__size = 0
`)

	ext, err := extractor.NewExtractor("python")
	require.NoError(t, err)
	classes, diags, err := ext.ExtractFromSource(context.Background(), source, "models.py")
	require.NoError(t, err)
	assert.Empty(t, diags)

	reg := registry.New()
	for _, class := range classes {
		require.True(t, reg.Add(class))
	}
	require.Equal(t, 2, reg.Len())

	gen := &PlantUMLGenerator{}
	markup := gen.Generate(reg.All())

	assert.True(t, strings.HasPrefix(markup, "@startuml\n"))
	assert.True(t, strings.HasSuffix(markup, "@enduml\n"))
	assert.Contains(t, markup, "class Animal {\n")
	assert.Contains(t, markup, "    +name : str\n")
	assert.Contains(t, markup, "    +speak() : str\n")
	assert.Contains(t, markup, "class _Cache {\n")
	assert.Contains(t, markup, "    -__size : \n")
	assert.NotContains(t, markup, "abstract class")
	assert.NotContains(t, markup, "self", "the instance binding never reaches the signature")

	// Animal was declared first; its block must render first.
	assert.Less(t, strings.Index(markup, "class Animal"), strings.Index(markup, "class _Cache"))
}

func TestPlantUMLGenerator_Idempotent(t *testing.T) {
	classes := []*model.ClassModel{
		{
			Name:      "Order",
			ClassType: model.ClassConcrete,
			Attributes: []model.Attribute{
				{Name: "total", Type: "float", Visibility: model.VisibilityPublic},
			},
			Methods: []model.Method{
				{Name: "submit", Visibility: model.VisibilityPublic, Parameters: []model.Parameter{}},
			},
		},
	}

	gen := &PlantUMLGenerator{}
	first := gen.Generate(classes)
	second := gen.Generate(classes)
	assert.Equal(t, first, second, "same input must yield byte-identical markup")
}

func TestPlantUMLGenerator_EmptyClass(t *testing.T) {
	classes := []*model.ClassModel{
		{Name: "Marker", ClassType: model.ClassConcrete, Attributes: []model.Attribute{}, Methods: []model.Method{}},
	}

	gen := &PlantUMLGenerator{}
	markup := gen.Generate(classes)
	assert.Equal(t, "@startuml\n\nclass Marker {\n}\n\n@enduml\n", markup)
}

func TestPlantUMLGenerator_MemberOrderPreserved(t *testing.T) {
	classes := []*model.ClassModel{
		{
			Name:      "Config",
			ClassType: model.ClassConcrete,
			Attributes: []model.Attribute{
				{Name: "a", Visibility: model.VisibilityPublic},
				{Name: "b", Visibility: model.VisibilityPublic},
				{Name: "c", Visibility: model.VisibilityPublic},
			},
			Methods: []model.Method{},
		},
	}

	gen := &PlantUMLGenerator{}
	markup := gen.Generate(classes)

	ia := strings.Index(markup, "+a : ")
	ib := strings.Index(markup, "+b : ")
	ic := strings.Index(markup, "+c : ")
	assert.True(t, ia < ib && ib < ic, "attributes must keep declaration order")
}

func TestPlantUMLGenerator_Markers(t *testing.T) {
	classes := []*model.ClassModel{
		{
			Name:      "Shape",
			ClassType: model.ClassAbstract,
			Attributes: []model.Attribute{
				{Name: "sides", Type: "int", Visibility: model.VisibilityPublic, IsStatic: true},
			},
			Methods: []model.Method{
				{Name: "area", ReturnType: "float", Parameters: []model.Parameter{}, Visibility: model.VisibilityPublic, IsAbstract: true},
				{Name: "unit", Parameters: []model.Parameter{}, Visibility: model.VisibilityPublic, IsStatic: true},
				{Name: "_scale", Parameters: []model.Parameter{{Name: "factor", Type: "float"}}, Visibility: model.VisibilityProtected},
			},
		},
	}

	gen := &PlantUMLGenerator{}
	markup := gen.Generate(classes)

	assert.Contains(t, markup, "abstract class Shape {\n")
	assert.Contains(t, markup, "    {static} +sides : int\n")
	assert.Contains(t, markup, "    {abstract} +area() : float\n")
	assert.Contains(t, markup, "    {static} +unit()\n")
	assert.Contains(t, markup, "    #_scale(factor : float)\n")
}
