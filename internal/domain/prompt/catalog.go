package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CalorieAnalysis names the prompt sent with every image analysis.
const CalorieAnalysis = "calorie_analysis"

//go:embed prompts.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Prompts map[string]string `yaml:"prompts"`
}

// Catalog is an immutable set of named prompts. It is safe for concurrent reads.
type Catalog struct {
	prompts map[string]string
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Load reads a catalog from path, or falls back to the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file %s: %w", path, err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prompt file %s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes YAML and validates that the analysis prompt is present and non-blank.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	prompts := make(map[string]string, len(file.Prompts))
	for name, text := range file.Prompts {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("prompt with empty name")
		}
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("prompt %q is empty", name)
		}
		prompts[name] = text
	}

	if _, ok := prompts[CalorieAnalysis]; !ok {
		return nil, fmt.Errorf("prompt catalog is missing %q", CalorieAnalysis)
	}

	return &Catalog{prompts: prompts}, nil
}

// CalorieAnalysis returns the prompt sent with every image analysis.
func (c *Catalog) CalorieAnalysis() string {
	return c.prompts[CalorieAnalysis]
}

// Names lists the registered prompt names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.prompts))
	for name := range c.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
