package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"

	"pyuml/internal/model"
)

// LanguageExtractor defines the interface that each language front end must
// implement. The query selects class-like declarations; ExtractClass turns
// one captured node into a class model plus any diagnostics.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	ExtractClass(node *sitter.Node, sourceCode []byte, filepath string) (*model.ClassModel, []model.Diagnostic)
}
