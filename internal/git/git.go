package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GetChangedFiles returns the paths changed since baseRef, as reported by
// git diff. Paths are repository-relative.
func GetChangedFiles(baseRef string) ([]string, error) {
	cmd := exec.Command("git", "diff", "--name-only", baseRef)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff failed: %w", err)
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}

// RepoRoot returns the top-level directory of the enclosing repository.
func RepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RelativeTo rebases repository-relative paths onto workdir, so they match
// the paths a directory walk started from workdir produces. Paths that
// cannot be expressed relative to workdir are kept absolute.
func RelativeTo(repoRoot, workdir string, paths []string) []string {
	rebased := make([]string, 0, len(paths))
	for _, path := range paths {
		abs := filepath.Join(repoRoot, path)
		rel, err := filepath.Rel(workdir, abs)
		if err != nil {
			rel = abs
		}
		rebased = append(rebased, rel)
	}
	return rebased
}
