package llm

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// PromptTemplate is a small builder for rendering the system-role and
// instruction prompts sent to the Model, distinct from the document
// scaffold's `{{placeholder}}` holes (see agent's populateScaffold): this one
// uses Go's text/template dot-notation, in the style of a chat
// PromptTemplate builder.
type PromptTemplate struct {
	raw       string
	variables map[string]any
}

// NewPromptTemplate returns an empty PromptTemplate.
func NewPromptTemplate() *PromptTemplate {
	return &PromptTemplate{variables: make(map[string]any)}
}

// WithTemplate sets the Go-template source text.
func (p *PromptTemplate) WithTemplate(t string) *PromptTemplate {
	p.raw = t
	return p
}

// WithVariable binds a single template variable.
func (p *PromptTemplate) WithVariable(name string, value any) *PromptTemplate {
	p.variables[name] = value
	return p
}

// WithVariables merges the given variables into the template's variable
// set.
func (p *PromptTemplate) WithVariables(vars map[string]any) *PromptTemplate {
	for k, v := range vars {
		p.variables[k] = v
	}
	return p
}

// RequireVariables verifies every named variable appears in the template
// source as "{{.Name}}" (or a Go-template expression starting with it).
// Literal string matching only; a variable referenced only indirectly
// (through a helper template or a computed key) is not detected.
func (p *PromptTemplate) RequireVariables(names ...string) error {
	for _, n := range names {
		if !strings.Contains(p.raw, "."+n) {
			return fmt.Errorf("prompt template: missing required variable %q", n)
		}
	}
	return nil
}

// Clone returns a deep-enough copy safe to mutate independently, so
// evaluators can specialize a shared base template per call via
// Clone().WithVariable(...) without racing other callers of the original.
func (p *PromptTemplate) Clone() *PromptTemplate {
	if p == nil {
		return nil
	}
	vars := make(map[string]any, len(p.variables))
	for k, v := range p.variables {
		vars[k] = v
	}
	return &PromptTemplate{raw: p.raw, variables: vars}
}

// Render executes the Go template against the bound variables.
func (p *PromptTemplate) Render() (string, error) {
	tmpl, err := template.New("prompt").Parse(p.raw)
	if err != nil {
		return "", fmt.Errorf("prompt template: parse: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p.variables); err != nil {
		return "", fmt.Errorf("prompt template: execute: %w", err)
	}
	return buf.String(), nil
}
