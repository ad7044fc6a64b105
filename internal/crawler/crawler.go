// Package crawler discovers Python source units under a project root and
// runs extraction over them.
package crawler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"pyuml/internal/extractor"
	"pyuml/internal/model"
)

// Unit is the result of extracting one source file.
type Unit struct {
	Path        string
	ContentHash string
	Classes     []*model.ClassModel
	Diagnostics []model.Diagnostic
}

// Crawler scans a directory tree for Python files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", "__pycache__", ".venv", "venv", ".tox", "node_modules"},
	}
}

// Ignore adds directory names to skip during the walk.
func (c *Crawler) Ignore(names ...string) {
	c.ignored = append(c.ignored, names...)
}

// ScanProject walks the root directory, extracts every Python file and
// streams the results through the callback. Extraction fans out across a
// worker pool, but units are always delivered in sorted path order so the
// resulting registry order is deterministic. A file that cannot be read or
// parsed is logged and skipped; it never fails the scan.
func (c *Crawler) ScanProject(ctx context.Context, root string, onUnit func(Unit)) error {
	paths, err := c.collectFiles(root)
	if err != nil {
		return err
	}

	results := make([]*Unit, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := runtime.NumCPU()
	if workers > len(paths) {
		workers = len(paths)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.extractUnit(ctx, paths[i])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, unit := range results {
		if unit != nil {
			onUnit(*unit)
		}
	}
	return nil
}

func (c *Crawler) collectFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".py") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func (c *Crawler) extractUnit(ctx context.Context, path string) *Unit {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		log.Printf("skipping %s: %v", path, err)
		return nil
	}

	classes, diags, err := c.extractor.ExtractFromSource(ctx, sourceCode, path)
	if err != nil {
		log.Printf("skipping %s: %v", path, err)
		return nil
	}

	hash := sha256.Sum256(sourceCode)
	return &Unit{
		Path:        path,
		ContentHash: hex.EncodeToString(hash[:]),
		Classes:     classes,
		Diagnostics: diags,
	}
}
