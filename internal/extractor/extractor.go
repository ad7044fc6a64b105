package extractor

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"pyuml/internal/model"
)

// Extractor orchestrates the extraction process using language-specific
// extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "python":
		langExt = &PythonExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// ExtractFromFile parses a single source file and extracts the class models
// it declares.
func (e *Extractor) ExtractFromFile(ctx context.Context, filepath string) ([]*model.ClassModel, []model.Diagnostic, error) {
	sourceCode, err := os.ReadFile(filepath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file %s: %w", filepath, err)
	}
	return e.ExtractFromSource(ctx, sourceCode, filepath)
}

// ExtractFromSource parses one source unit and returns its class models in
// declaration order. Per-member problems degrade to diagnostics; only a
// failure of the underlying parser surfaces as an error.
func (e *Extractor) ExtractFromSource(ctx context.Context, sourceCode []byte, filepath string) ([]*model.ClassModel, []model.Diagnostic, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, sourceCode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse file %s: %w", filepath, err)
	}

	query, err := sitter.NewQuery([]byte(e.langExtractor.GetQuery()), e.langExtractor.GetLanguage())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create query: %w", err)
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var classes []*model.ClassModel
	var diags []model.Diagnostic
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			class, classDiags := e.langExtractor.ExtractClass(c.Node, sourceCode, filepath)
			diags = append(diags, classDiags...)
			if class != nil {
				classes = append(classes, class)
			}
		}
	}

	return classes, diags, nil
}
