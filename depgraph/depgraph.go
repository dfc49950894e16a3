// Package depgraph loads the declarative DependencySpec and computes
// parallelizable generation batches from it via Kahn's topological sort.
package depgraph

import (
	"fmt"
	"sort"

	"github.com/dod-acq/orchestrator/doctype"
)

// Spec is one DocumentType's entry in the dependency configuration.
type Spec struct {
	DependsOn  []doctype.Type `yaml:"depends_on"`
	Priority   int            `yaml:"priority"`
	References []string       `yaml:"references"`
}

// rawFile mirrors the on-disk DependencySpec document shape.
type rawFile struct {
	Dependencies map[doctype.Type]Spec `yaml:"dependencies"`
}

// Graph is a loaded, validated dependency configuration.
type Graph struct {
	specs map[doctype.Type]Spec
}

// Error is a load-time configuration fault: a cycle, an unknown
// DocumentType, or a duplicate entry. Graph construction fails fast on
// these; there is no partial/degraded Graph.
type Error struct {
	Reason string
}

func (e *Error) Error() string { return fmt.Sprintf("depgraph: %s", e.Reason) }

// Load validates raw (as parsed from YAML/JSON) and returns a Graph.
// Validation checks: every referenced DocumentType (as key or as a
// depends_on entry) is a recognized doctype.Type, no duplicate top-level
// keys (impossible to express in a Go map, so this reduces to key
// validity), and the induced depends_on relation is acyclic.
func Load(specs map[doctype.Type]Spec) (*Graph, error) {
	for t, s := range specs {
		if !doctype.Known(t) {
			return nil, &Error{Reason: fmt.Sprintf("unknown document type %q", t)}
		}
		for _, dep := range s.DependsOn {
			if !doctype.Known(dep) {
				return nil, &Error{Reason: fmt.Sprintf("%s depends_on unknown document type %q", t, dep)}
			}
		}
	}

	g := &Graph{specs: specs}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Graph) checkAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[doctype.Type]int, len(g.specs))
	var visit func(t doctype.Type) error
	visit = func(t doctype.Type) error {
		switch color[t] {
		case black:
			return nil
		case gray:
			return &Error{Reason: fmt.Sprintf("cycle detected at %s", t)}
		}
		color[t] = gray
		for _, dep := range g.specs[t].DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[t] = black
		return nil
	}
	for t := range g.specs {
		if err := visit(t); err != nil {
			return err
		}
	}
	return nil
}

// dependsOn returns t's declared upstream dependencies, or nil if t has no
// entry in the graph (an unconfigured type has no declared dependencies).
func (g *Graph) dependsOn(t doctype.Type) []doctype.Type {
	return g.specs[t].DependsOn
}

func (g *Graph) priority(t doctype.Type) int {
	return g.specs[t].Priority
}

// Dependencies returns the full transitive closure of t's upstream
// dependencies.
func (g *Graph) Dependencies(t doctype.Type) []doctype.Type {
	seen := map[doctype.Type]bool{}
	var out []doctype.Type
	var walk func(doctype.Type)
	walk = func(cur doctype.Type) {
		for _, dep := range g.dependsOn(cur) {
			if !seen[dep] {
				seen[dep] = true
				out = append(out, dep)
				walk(dep)
			}
		}
	}
	walk(t)
	return out
}

// Dependents returns every DocumentType whose transitive dependency set
// includes t.
func (g *Graph) Dependents(t doctype.Type) []doctype.Type {
	var out []doctype.Type
	for candidate := range g.specs {
		for _, dep := range g.Dependencies(candidate) {
			if dep == t {
				out = append(out, candidate)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Plan computes execution batches for selected via Kahn's algorithm,
// restricted strictly to the selected set itself: a dependency that was
// not selected is never implicitly added to the plan, even if selected
// transitively requires it. An unselected dependency is instead either
// satisfied from a prior MetadataStore artifact or left as an empty
// context at execution time (see Validate, and the caller's
// pre-population step) - Plan never regenerates a document the caller
// didn't ask for. Within a batch, ties are broken by (priority, type
// name) ascending so that runs over identical input are deterministic.
func (g *Graph) Plan(selected []doctype.Type) [][]doctype.Type {
	nodes := map[doctype.Type]bool{}
	for _, t := range selected {
		nodes[t] = true
	}

	indegree := make(map[doctype.Type]int, len(nodes))
	forward := make(map[doctype.Type][]doctype.Type, len(nodes))
	for t := range nodes {
		indegree[t] = 0
	}
	for t := range nodes {
		for _, dep := range g.dependsOn(t) {
			if !nodes[dep] {
				continue
			}
			indegree[t]++
			forward[dep] = append(forward[dep], t)
		}
	}

	var batches [][]doctype.Type
	remaining := len(nodes)
	for remaining > 0 {
		var ready []doctype.Type
		for t := range nodes {
			if indegree[t] == 0 {
				ready = append(ready, t)
			}
		}
		if len(ready) == 0 {
			// checkAcyclic at Load time should make this unreachable.
			break
		}
		sort.Slice(ready, func(i, j int) bool {
			pi, pj := g.priority(ready[i]), g.priority(ready[j])
			if pi != pj {
				return pi < pj
			}
			return ready[i] < ready[j]
		})
		batches = append(batches, ready)
		for _, t := range ready {
			delete(nodes, t)
			indegree[t] = -1
			for _, next := range forward[t] {
				indegree[next]--
			}
			remaining--
		}
	}
	return batches
}

// Validation summarizes how well a selection's dependencies are covered,
// without mutating the Graph or rejecting the selection - an incomplete
// selection still generates, with warnings.
type Validation struct {
	Complete          bool
	MissingRequired   []doctype.Type
	MissingRecommended []doctype.Type
	Warnings          []string
}

// Validate reports, for selected, which direct dependencies are absent
// from the selection itself (the caller is expected to cross-check
// "missing" entries against the MetadataStore separately, since a fresh
// prior artifact also satisfies a dependency).
func (g *Graph) Validate(selected []doctype.Type) Validation {
	selectedSet := map[doctype.Type]bool{}
	for _, t := range selected {
		selectedSet[t] = true
	}

	v := Validation{Complete: true}
	for _, t := range selected {
		for _, dep := range g.dependsOn(t) {
			if !selectedSet[dep] {
				v.Complete = false
				v.MissingRequired = append(v.MissingRequired, dep)
				v.Warnings = append(v.Warnings, fmt.Sprintf("%s depends on %s, which is not in the selection", t, dep))
			}
		}
	}
	return v
}
