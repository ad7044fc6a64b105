package generator

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"pyuml/internal/model"
)

const diagramModelSchemaVersion = "v0.1.0"

//go:embed diagram_model.schema.json
var diagramModelSchemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// DiagramModel is the machine-readable counterpart of the PlantUML output:
// the full extracted class collection plus the run's diagnostics.
type DiagramModel struct {
	SchemaVersion string              `json:"schema_version"`
	Classes       []*model.ClassModel `json:"classes"`
	Diagnostics   []model.Diagnostic  `json:"diagnostics"`
	Meta          DiagramMeta         `json:"meta"`
}

type DiagramMeta struct {
	Root        string `json:"root"`
	GeneratedAt string `json:"generated_at"`
}

// NewDiagramModel assembles an export document. Classes keep their registry
// order.
func NewDiagramModel(root string, classes []*model.ClassModel, diags []model.Diagnostic) *DiagramModel {
	if classes == nil {
		classes = []*model.ClassModel{}
	}
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	return &DiagramModel{
		SchemaVersion: diagramModelSchemaVersion,
		Classes:       classes,
		Diagnostics:   diags,
		Meta: DiagramMeta{
			Root:        root,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// SaveDiagramModel validates the document against the embedded schema and
// writes it as indented JSON.
func SaveDiagramModel(path string, m *DiagramModel) error {
	if err := ValidateDiagramModel(m); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// LoadDiagramModel reads a previously exported document.
func LoadDiagramModel(path string) (*DiagramModel, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m DiagramModel
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ValidateDiagramModel checks the document against the diagram-model JSON
// schema.
func ValidateDiagramModel(m *DiagramModel) error {
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile diagram model schema: %w", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("diagram model failed schema validation: %w", err)
	}
	return nil
}

func loadCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("diagram_model.schema.json", strings.NewReader(diagramModelSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("diagram_model.schema.json")
	})
	return compiledSchema, schemaErr
}
