package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"pyuml/internal/model"
)

// PythonExtractor implements LanguageExtractor for Python.
type PythonExtractor struct{}

const (
	constructorName   = "__init__"
	abstractBaseName  = "ABC"
	abstractMetaName  = "ABCMeta"
	staticDecorator   = "staticmethod"
	classDecorator    = "classmethod"
	abstractDecorator = "abstractmethod"
	metaclassKeyword  = "metaclass"
)

func (p *PythonExtractor) GetLanguage() *sitter.Language {
	return python.GetLanguage()
}

func (p *PythonExtractor) GetQuery() string {
	return `(class_definition) @class`
}

// ExtractClass builds a class model from one class_definition node. Classes
// nested inside another class are not modeled; they yield a single
// diagnostic and no model.
func (p *PythonExtractor) ExtractClass(node *sitter.Node, sourceCode []byte, filepath string) (*model.ClassModel, []model.Diagnostic) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil, nil
	}
	name := nameNode.Content(sourceCode)

	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if anc.Type() == "class_definition" {
			return nil, []model.Diagnostic{{
				Kind:     model.DiagUnsupportedConstruct,
				Filepath: filepath,
				Line:     int(node.StartPoint().Row + 1),
				Detail:   fmt.Sprintf("nested class %s is not modeled", name),
			}}
		}
	}

	class := &model.ClassModel{
		QualifiedName: model.QualifiedName(filepath, name),
		Name:          name,
		Filepath:      filepath,
		StartLine:     int(node.StartPoint().Row + 1),
		EndLine:       int(node.EndPoint().Row + 1),
		ClassType:     model.ClassConcrete,
		Attributes:    []model.Attribute{},
		Methods:       []model.Method{},
	}
	if p.hasAbstractBase(node, sourceCode) {
		class.ClassType = model.ClassAbstract
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return class, nil
	}

	var diags []model.Diagnostic
	seenAttributes := map[string]bool{}
	type methodKey struct {
		name  string
		arity int
	}
	seenMethods := map[methodKey]bool{}

	addAttribute := func(attr model.Attribute) {
		if seenAttributes[attr.Name] {
			return
		}
		seenAttributes[attr.Name] = true
		class.Attributes = append(class.Attributes, attr)
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		switch stmt.Type() {
		case "function_definition", "decorated_definition":
			method, fn, methodDiags := p.extractMethod(stmt, sourceCode, filepath)
			diags = append(diags, methodDiags...)
			if method == nil {
				continue
			}
			key := methodKey{name: method.Name, arity: len(method.Parameters)}
			if seenMethods[key] {
				continue
			}
			seenMethods[key] = true
			if method.IsAbstract {
				class.ClassType = model.ClassAbstract
			}
			class.Methods = append(class.Methods, *method)

			if method.Name == constructorName && method.Receiver != "" {
				attrs, attrDiags := p.extractInstanceAttributes(fn, method.Receiver, sourceCode, filepath)
				diags = append(diags, attrDiags...)
				for _, attr := range attrs {
					addAttribute(attr)
				}
			}
		case "expression_statement":
			attr, attrDiags := p.extractClassAttribute(stmt, sourceCode, filepath)
			diags = append(diags, attrDiags...)
			if attr != nil {
				addAttribute(*attr)
			}
		}
		// Nested class_definition statements are reported once, when the
		// query capture for the inner class reaches ExtractClass.
	}

	return class, diags
}

// hasAbstractBase reports whether the superclass list carries a recognized
// abstract-base marker (ABC, abc.ABC or an ABCMeta metaclass).
func (p *PythonExtractor) hasAbstractBase(node *sitter.Node, sourceCode []byte) bool {
	supers := node.ChildByFieldName("superclasses")
	if supers == nil {
		return false
	}
	for i := 0; i < int(supers.NamedChildCount()); i++ {
		base := supers.NamedChild(i)
		switch base.Type() {
		case "identifier", "attribute":
			name := base.Content(sourceCode)
			if name == abstractBaseName || strings.HasSuffix(name, "."+abstractBaseName) {
				return true
			}
		case "keyword_argument":
			nameNode := base.ChildByFieldName("name")
			valueNode := base.ChildByFieldName("value")
			if nameNode != nil && valueNode != nil &&
				nameNode.Content(sourceCode) == metaclassKeyword &&
				strings.Contains(valueNode.Content(sourceCode), abstractMetaName) {
				return true
			}
		}
	}
	return false
}

// extractMethod builds a Method from a function_definition, optionally
// wrapped in a decorated_definition. It also returns the underlying
// function node so the caller can mine the constructor body.
func (p *PythonExtractor) extractMethod(node *sitter.Node, sourceCode []byte, filepath string) (*model.Method, *sitter.Node, []model.Diagnostic) {
	fn := node
	var decorators []string
	if node.Type() == "decorated_definition" {
		fn = node.ChildByFieldName("definition")
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() == "decorator" {
				decorators = append(decorators, decoratorName(child.Content(sourceCode)))
			}
		}
	}
	if fn == nil || fn.Type() != "function_definition" {
		return nil, nil, nil
	}

	nameNode := fn.ChildByFieldName("name")
	if nameNode == nil {
		return nil, nil, []model.Diagnostic{{
			Kind:     model.DiagUnsupportedConstruct,
			Filepath: filepath,
			Line:     int(fn.StartPoint().Row + 1),
			Detail:   "function definition without a name",
		}}
	}
	name := nameNode.Content(sourceCode)

	method := &model.Method{
		Name:       name,
		Visibility: model.InferVisibility(name),
		Parameters: []model.Parameter{},
	}

	isStaticMethod := false
	for _, d := range decorators {
		switch d {
		case staticDecorator:
			method.IsStatic = true
			isStaticMethod = true
		case classDecorator:
			// Bound to the class rather than the instance, so it renders
			// as a static member.
			method.IsStatic = true
		case abstractDecorator:
			method.IsAbstract = true
		}
	}

	var diags []model.Diagnostic
	if rt := fn.ChildByFieldName("return_type"); rt != nil {
		ret, retDiags := annotationText(rt, sourceCode, filepath)
		method.ReturnType = ret
		diags = append(diags, retDiags...)
	}

	params, paramDiags := p.extractParameters(fn, sourceCode, filepath)
	diags = append(diags, paramDiags...)
	if len(params) > 0 && !isStaticMethod {
		// The first parameter is the instance (or class) binding. It is
		// recorded but never part of the emitted signature.
		method.Receiver = params[0].Name
		params = params[1:]
	}
	method.Parameters = params

	return method, fn, diags
}

// extractParameters returns the formal argument list in declaration order.
func (p *PythonExtractor) extractParameters(fn *sitter.Node, sourceCode []byte, filepath string) ([]model.Parameter, []model.Diagnostic) {
	params := []model.Parameter{}
	paramsNode := fn.ChildByFieldName("parameters")
	if paramsNode == nil {
		return params, nil
	}

	var diags []model.Diagnostic
	for i := 0; i < int(paramsNode.NamedChildCount()); i++ {
		child := paramsNode.NamedChild(i)
		switch child.Type() {
		case "identifier":
			params = append(params, model.Parameter{Name: child.Content(sourceCode)})
		case "list_splat_pattern", "dictionary_splat_pattern":
			params = append(params, model.Parameter{Name: child.Content(sourceCode)})
		case "typed_parameter":
			var name string
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				if inner.Type() == "identifier" || inner.Type() == "list_splat_pattern" || inner.Type() == "dictionary_splat_pattern" {
					name = inner.Content(sourceCode)
					break
				}
			}
			if name == "" {
				continue
			}
			param := model.Parameter{Name: name}
			if t := child.ChildByFieldName("type"); t != nil {
				typeRef, typeDiags := annotationText(t, sourceCode, filepath)
				param.Type = typeRef
				diags = append(diags, typeDiags...)
			}
			params = append(params, param)
		case "default_parameter", "typed_default_parameter":
			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			param := model.Parameter{Name: nameNode.Content(sourceCode)}
			if t := child.ChildByFieldName("type"); t != nil {
				typeRef, typeDiags := annotationText(t, sourceCode, filepath)
				param.Type = typeRef
				diags = append(diags, typeDiags...)
			}
			params = append(params, param)
		}
		// Bare separators (* and /) bind nothing and are skipped.
	}
	return params, diags
}

// extractClassAttribute builds a static Attribute from a class-body
// assignment. Annotation-only declarations (name: str) declare instance
// state and yield a non-static attribute.
func (p *PythonExtractor) extractClassAttribute(stmt *sitter.Node, sourceCode []byte, filepath string) (*model.Attribute, []model.Diagnostic) {
	expr := stmt.NamedChild(0)
	if expr == nil || expr.Type() != "assignment" {
		// Docstrings and bare expressions are not attributes.
		return nil, nil
	}
	left := expr.ChildByFieldName("left")
	if left == nil {
		return nil, nil
	}
	line := int(expr.StartPoint().Row + 1)

	switch left.Type() {
	case "identifier":
		right := expr.ChildByFieldName("right")
		if right != nil && right.Type() == "assignment" {
			return nil, []model.Diagnostic{{
				Kind:     model.DiagUnsupportedConstruct,
				Filepath: filepath,
				Line:     line,
				Detail:   "chained assignment target is not modeled",
			}}
		}
		name := left.Content(sourceCode)
		attr := &model.Attribute{
			Name:       name,
			Visibility: model.InferVisibility(name),
			IsStatic:   right != nil,
		}
		var diags []model.Diagnostic
		if t := expr.ChildByFieldName("type"); t != nil {
			typeRef, typeDiags := annotationText(t, sourceCode, filepath)
			attr.Type = typeRef
			diags = append(diags, typeDiags...)
		}
		return attr, diags
	case "pattern_list", "tuple_pattern":
		return nil, []model.Diagnostic{{
			Kind:     model.DiagUnsupportedConstruct,
			Filepath: filepath,
			Line:     line,
			Detail:   "multi-target assignment is not modeled",
		}}
	default:
		return nil, []model.Diagnostic{{
			Kind:     model.DiagUnsupportedConstruct,
			Filepath: filepath,
			Line:     line,
			Detail:   fmt.Sprintf("unsupported assignment target (%s)", left.Type()),
		}}
	}
}

// extractInstanceAttributes mines the constructor body for bindings on the
// instance parameter (self.x = ...). Local variables are ignored; anything
// beyond a single dotted access rooted at the receiver is reported as an
// unsupported construct rather than guessed at.
func (p *PythonExtractor) extractInstanceAttributes(fn *sitter.Node, receiver string, sourceCode []byte, filepath string) ([]model.Attribute, []model.Diagnostic) {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil, nil
	}

	var attrs []model.Attribute
	var diags []model.Diagnostic

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "function_definition", "class_definition", "lambda":
				// Closures hold their own locals.
				continue
			case "assignment":
				attr, assignDiags := p.parseInstanceAssignment(child, receiver, sourceCode, filepath)
				diags = append(diags, assignDiags...)
				if attr != nil {
					attrs = append(attrs, *attr)
				}
				continue
			}
			walk(child)
		}
	}
	walk(body)

	return attrs, diags
}

func (p *PythonExtractor) parseInstanceAssignment(node *sitter.Node, receiver string, sourceCode []byte, filepath string) (*model.Attribute, []model.Diagnostic) {
	left := node.ChildByFieldName("left")
	if left == nil {
		return nil, nil
	}
	line := int(node.StartPoint().Row + 1)

	switch left.Type() {
	case "attribute":
		obj := left.ChildByFieldName("object")
		attrNode := left.ChildByFieldName("attribute")
		if obj == nil || attrNode == nil {
			return nil, nil
		}
		if obj.Type() != "identifier" {
			// self.a.b = ... style chains bind the instance but fall
			// outside the single dotted-access pattern.
			if strings.HasPrefix(left.Content(sourceCode), receiver+".") {
				return nil, []model.Diagnostic{{
					Kind:     model.DiagUnsupportedConstruct,
					Filepath: filepath,
					Line:     line,
					Detail:   "nested attribute target is not modeled",
				}}
			}
			return nil, nil
		}
		if obj.Content(sourceCode) != receiver {
			return nil, nil
		}
		if right := node.ChildByFieldName("right"); right != nil && right.Type() == "assignment" {
			return nil, []model.Diagnostic{{
				Kind:     model.DiagUnsupportedConstruct,
				Filepath: filepath,
				Line:     line,
				Detail:   "chained assignment target is not modeled",
			}}
		}
		name := attrNode.Content(sourceCode)
		attr := &model.Attribute{
			Name:       name,
			Visibility: model.InferVisibility(name),
			IsStatic:   false,
		}
		var diags []model.Diagnostic
		if t := node.ChildByFieldName("type"); t != nil {
			typeRef, typeDiags := annotationText(t, sourceCode, filepath)
			attr.Type = typeRef
			diags = append(diags, typeDiags...)
		}
		return attr, diags
	case "pattern_list", "tuple_pattern":
		if strings.Contains(left.Content(sourceCode), receiver+".") {
			return nil, []model.Diagnostic{{
				Kind:     model.DiagUnsupportedConstruct,
				Filepath: filepath,
				Line:     line,
				Detail:   "multi-target assignment on the instance is not modeled",
			}}
		}
		return nil, nil
	default:
		// Plain locals, subscripts and the like carry no instance state.
		return nil, nil
	}
}

// annotationText stringifies an annotation node. Annotations the model
// cannot represent on one line degrade to an empty TypeRef plus a
// diagnostic instead of failing the unit.
func annotationText(node *sitter.Node, sourceCode []byte, filepath string) (model.TypeRef, []model.Diagnostic) {
	text := strings.TrimSpace(node.Content(sourceCode))
	if strings.ContainsAny(text, "\n\r") {
		return "", []model.Diagnostic{{
			Kind:     model.DiagMalformedAnnotation,
			Filepath: filepath,
			Line:     int(node.StartPoint().Row + 1),
			Detail:   "annotation spans multiple lines",
		}}
	}
	return model.TypeRef(text), nil
}

// decoratorName normalizes "@abc.abstractmethod(...)" to "abstractmethod".
func decoratorName(raw string) string {
	name := strings.TrimSpace(strings.TrimPrefix(raw, "@"))
	if idx := strings.Index(name, "("); idx != -1 {
		name = name[:idx]
	}
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return name
}
