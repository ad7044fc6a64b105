package generator

import (
	"fmt"
	"strings"

	"pyuml/internal/model"
)

// PlantUMLGenerator serializes class models into PlantUML class-diagram
// markup. Generation is pure: the same input always yields byte-identical
// output.
type PlantUMLGenerator struct{}

var visibilityMarks = map[model.Visibility]string{
	model.VisibilityPublic:    "+",
	model.VisibilityProtected: "#",
	model.VisibilityPrivate:   "-",
}

const (
	staticMark   = "{static}"
	abstractMark = "{abstract}"
	memberIndent = "    "
)

// Generate renders one class block per model, in the given order. Blocks
// are never resorted.
func (g *PlantUMLGenerator) Generate(classes []*model.ClassModel) string {
	var sb strings.Builder
	sb.WriteString("@startuml\n\n")
	for _, class := range classes {
		g.writeClass(&sb, class)
		sb.WriteString("\n")
	}
	sb.WriteString("@enduml\n")
	return sb.String()
}

func (g *PlantUMLGenerator) writeClass(sb *strings.Builder, class *model.ClassModel) {
	if class.ClassType == model.ClassAbstract {
		sb.WriteString(fmt.Sprintf("abstract class %s {\n", class.Name))
	} else {
		sb.WriteString(fmt.Sprintf("class %s {\n", class.Name))
	}
	for _, attr := range class.Attributes {
		sb.WriteString(memberIndent + attributeLine(attr) + "\n")
	}
	for _, method := range class.Methods {
		sb.WriteString(memberIndent + methodLine(method) + "\n")
	}
	sb.WriteString("}\n")
}

func attributeLine(attr model.Attribute) string {
	line := fmt.Sprintf("%s%s : %s", visibilityMarks[attr.Visibility], attr.Name, attr.Type)
	if attr.IsStatic {
		line = staticMark + " " + line
	}
	return line
}

func methodLine(method model.Method) string {
	params := make([]string, 0, len(method.Parameters))
	for _, p := range method.Parameters {
		if p.Type == "" {
			params = append(params, p.Name)
		} else {
			params = append(params, fmt.Sprintf("%s : %s", p.Name, p.Type))
		}
	}

	line := fmt.Sprintf("%s%s(%s)", visibilityMarks[method.Visibility], method.Name, strings.Join(params, ", "))
	if method.ReturnType != "" {
		line += " : " + string(method.ReturnType)
	}
	if method.IsAbstract {
		line = abstractMark + " " + line
	}
	if method.IsStatic {
		line = staticMark + " " + line
	}
	return line
}
