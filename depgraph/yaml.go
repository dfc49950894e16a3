package depgraph

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dod-acq/orchestrator/doctype"
)

// GenerationBatch is a named, priority-ordered group from the optional
// generation_batches section of a DependencySpec file. It is informative
// only - Plan always recomputes batches from the dependency relation via
// Kahn's algorithm, rather than trusting a possibly-stale named grouping.
type GenerationBatch struct {
	Name           string         `yaml:"name"`
	Priority       int            `yaml:"priority"`
	Documents      []doctype.Type `yaml:"documents"`
	CanParallelize bool           `yaml:"can_parallelize"`
}

type specFile struct {
	Dependencies      map[doctype.Type]Spec `yaml:"dependencies"`
	GenerationBatches []GenerationBatch     `yaml:"generation_batches"`
}

// LoadYAML parses a DependencySpec document (YAML, or JSON - a valid
// subset of YAML) and validates it via Load.
func LoadYAML(data []byte) (*Graph, error) {
	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &Error{Reason: fmt.Sprintf("parse: %v", err)}
	}
	return Load(f.Dependencies)
}
