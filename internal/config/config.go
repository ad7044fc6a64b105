package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root   string   `yaml:"root"`
		Ignore []string `yaml:"ignore"`
	} `yaml:"project"`
	Output struct {
		Dir     string `yaml:"dir"`
		Diagram string `yaml:"diagram"`
		Model   string `yaml:"model"` // optional JSON export file name
	} `yaml:"output"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Output.Dir = "docs"
	cfg.Output.Diagram = "diagram.puml"
	return &cfg
}

// LoadConfig reads the YAML config file and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if root := os.Getenv("PYUML_PROJECT_ROOT"); root != "" {
		cfg.Project.Root = root
	}
	if dir := os.Getenv("PYUML_OUTPUT_DIR"); dir != "" {
		cfg.Output.Dir = dir
	}
	if name := os.Getenv("PYUML_DIAGRAM_FILE"); name != "" {
		cfg.Output.Diagram = name
	}
	if name := os.Getenv("PYUML_MODEL_FILE"); name != "" {
		cfg.Output.Model = name
	}
}
