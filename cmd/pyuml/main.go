package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pyuml/internal/config"
	"pyuml/internal/crawler"
	"pyuml/internal/extractor"
	"pyuml/internal/generator"
	"pyuml/internal/git"
	"pyuml/internal/model"
	"pyuml/internal/registry"
	"pyuml/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pyuml",
		Short: "UML class diagram generator for Python projects",
	}
	dbPath    string
	cfgPath   string
	withJSON  bool
	useCached bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "pyuml.db", "Path to the local class model cache (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "pyuml.yaml", "Path to the config file")

	generateCmd.Flags().BoolVar(&withJSON, "json", false, "Also export the class model as JSON")
	generateCmd.Flags().BoolVar(&useCached, "cached", false, "Render from the cache instead of re-scanning")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(updateCmd)
}

func loadCfg() *config.Config {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return config.Default()
	}
	return cfg
}

// scanResult carries everything one crawl produced.
type scanResult struct {
	units   map[string]string // path -> content hash
	reg     *registry.Registry
	diags   []model.Diagnostic
	classes int
}

func runScan(ctx context.Context, root string, cfg *config.Config) (*scanResult, error) {
	ext, err := extractor.NewExtractor("python")
	if err != nil {
		return nil, err
	}

	cr := crawler.NewCrawler(ext)
	cr.Ignore(cfg.Project.Ignore...)

	res := &scanResult{
		units: make(map[string]string),
		reg:   registry.New(),
	}
	err = cr.ScanProject(ctx, root, func(unit crawler.Unit) {
		res.units[unit.Path] = unit.ContentHash
		res.diags = append(res.diags, unit.Diagnostics...)
		for _, class := range unit.Classes {
			if res.reg.Add(class) {
				res.classes++
			}
		}
	})
	if err != nil {
		return nil, err
	}
	res.diags = append(res.diags, res.reg.Diagnostics()...)
	return res, nil
}

func reportDiagnostics(diags []model.Diagnostic) {
	for _, d := range diags {
		log.Printf("⚠️  %s", d)
	}
}

func writeDiagram(cfg *config.Config, root string, classes []*model.ClassModel, diags []model.Diagnostic) error {
	gen := &generator.PlantUMLGenerator{}
	markup := gen.Generate(classes)

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return err
	}
	diagramPath := filepath.Join(cfg.Output.Dir, cfg.Output.Diagram)
	if err := os.WriteFile(diagramPath, []byte(markup), 0644); err != nil {
		return err
	}
	fmt.Printf("✅ Diagram written to %s (%d classes).\n", diagramPath, len(classes))

	if withJSON || cfg.Output.Model != "" {
		name := cfg.Output.Model
		if name == "" {
			name = "diagram.json"
		}
		modelPath := filepath.Join(cfg.Output.Dir, name)
		doc := generator.NewDiagramModel(root, classes, diags)
		if err := generator.SaveDiagramModel(modelPath, doc); err != nil {
			return err
		}
		fmt.Printf("✅ Class model exported to %s.\n", modelPath)
	}
	return nil
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a Python project and cache the extracted class models",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadCfg()
		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}

		fmt.Printf("📂 Scanning directory: %s\n", root)

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer store.Close()

		ctx := context.Background()
		start := time.Now()
		res, err := runScan(ctx, root, cfg)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		fmt.Printf("🚀 Extracted %d classes from %d files in %v.\n", res.classes, len(res.units), time.Since(start))
		reportDiagnostics(res.diags)

		if err := store.SaveSnapshot(ctx, res.units, res.reg.All()); err != nil {
			log.Fatalf("Failed to save class models: %v", err)
		}
		fmt.Printf("🎉 Scan complete! Database: %s\n", dbPath)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate a PlantUML class diagram",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadCfg()
		root := cfg.Project.Root
		if len(args) > 0 {
			root = args[0]
		}

		ctx := context.Background()

		if useCached {
			store, err := storage.NewSQLiteStore(dbPath)
			if err != nil {
				log.Fatalf("Failed to open database: %v", err)
			}
			defer store.Close()

			fmt.Println("🔄 Loading cached class models...")
			classes, err := store.LoadClasses(ctx)
			if err != nil {
				log.Fatalf("Failed to load class models: %v", err)
			}
			if err := writeDiagram(cfg, root, classes, nil); err != nil {
				log.Fatalf("Failed to write diagram: %v", err)
			}
			return
		}

		fmt.Printf("📂 Scanning directory: %s\n", root)
		res, err := runScan(ctx, root, cfg)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		reportDiagnostics(res.diags)

		if err := writeDiagram(cfg, root, res.reg.All(), res.diags); err != nil {
			log.Fatalf("Failed to write diagram: %v", err)
		}
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the cache from git changes and regenerate the diagram",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadCfg()
		ctx := context.Background()

		changes, err := git.GetChangedFiles("HEAD")
		if err != nil {
			log.Fatalf("Failed to get git changes: %v", err)
		}

		// git reports paths relative to the repository root; the cache keys
		// units by the paths a scan from the working directory produced.
		repoRoot, err := git.RepoRoot()
		if err != nil {
			log.Fatalf("Failed to locate repository root: %v", err)
		}
		workdir, err := os.Getwd()
		if err != nil {
			log.Fatalf("Failed to get working directory: %v", err)
		}
		changes = git.RelativeTo(repoRoot, workdir, changes)

		var pyChanges []string
		for _, path := range changes {
			if strings.HasSuffix(path, ".py") {
				pyChanges = append(pyChanges, path)
			}
		}
		if len(pyChanges) == 0 {
			fmt.Println("✅ No Python changes detected.")
			return
		}
		fmt.Printf("📝 Detected %d changed Python files.\n", len(pyChanges))

		store, err := storage.NewSQLiteStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		ext, err := extractor.NewExtractor("python")
		if err != nil {
			log.Fatalf("Failed to create extractor: %v", err)
		}

		var diags []model.Diagnostic
		updated, removed := 0, 0
		for _, path := range pyChanges {
			sourceCode, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				if err := store.DeleteUnit(ctx, path); err != nil {
					log.Fatalf("Failed to remove %s from cache: %v", path, err)
				}
				removed++
				continue
			}
			if err != nil {
				log.Printf("⚠️ Failed to read %s: %v", path, err)
				continue
			}

			classes, unitDiags, err := ext.ExtractFromSource(ctx, sourceCode, path)
			if err != nil {
				log.Printf("⚠️ Failed to parse %s: %v", path, err)
				continue
			}
			diags = append(diags, unitDiags...)

			hash := sha256.Sum256(sourceCode)
			if err := store.SaveUnit(ctx, path, hex.EncodeToString(hash[:]), classes); err != nil {
				log.Fatalf("Failed to update %s in cache: %v", path, err)
			}
			updated++
		}
		fmt.Printf("📊 Cache update: %d files refreshed, %d removed.\n", updated, removed)
		reportDiagnostics(diags)

		classes, err := store.LoadClasses(ctx)
		if err != nil {
			log.Fatalf("Failed to load class models: %v", err)
		}
		if err := writeDiagram(cfg, cfg.Project.Root, classes, diags); err != nil {
			log.Fatalf("Failed to write diagram: %v", err)
		}
	},
}
