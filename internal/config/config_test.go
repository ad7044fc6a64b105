package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyuml.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "project:\n  root: src\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Project.Root)
	assert.Equal(t, "docs", cfg.Output.Dir)
	assert.Equal(t, "diagram.puml", cfg.Output.Diagram)
	assert.Empty(t, cfg.Output.Model)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "project:\n  root: src\noutput:\n  dir: out\n  model: model.json\n")

	t.Setenv("PYUML_PROJECT_ROOT", "lib")
	t.Setenv("PYUML_OUTPUT_DIR", "build")
	t.Setenv("PYUML_DIAGRAM_FILE", "classes.puml")
	t.Setenv("PYUML_MODEL_FILE", "classes.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "lib", cfg.Project.Root)
	assert.Equal(t, "build", cfg.Output.Dir)
	assert.Equal(t, "classes.puml", cfg.Output.Diagram)
	assert.Equal(t, "classes.json", cfg.Output.Model)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
