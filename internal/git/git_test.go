package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTo(t *testing.T) {
	repoRoot := filepath.Join("/", "home", "dev", "project")

	t.Run("Workdir At Repo Root", func(t *testing.T) {
		paths := RelativeTo(repoRoot, repoRoot, []string{
			filepath.Join("pkg", "users.py"),
			"main.py",
		})
		assert.Equal(t, []string{
			filepath.Join("pkg", "users.py"),
			"main.py",
		}, paths)
	})

	t.Run("Workdir In Subdirectory", func(t *testing.T) {
		workdir := filepath.Join(repoRoot, "pkg")
		paths := RelativeTo(repoRoot, workdir, []string{
			filepath.Join("pkg", "users.py"),
			"main.py",
		})
		assert.Equal(t, []string{
			"users.py",
			filepath.Join("..", "main.py"),
		}, paths)
	})

	t.Run("Empty Input", func(t *testing.T) {
		assert.Empty(t, RelativeTo(repoRoot, repoRoot, nil))
	})
}
