// Package template loads and renders the JSON event templates that define
// the shape (and kind) of published assertion and attestation events.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vouchrb/vouch/pkg/nostr"
)

// NotFoundError indicates a template document is missing on disk.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Path)
}

// IsNotFound returns true if the error is a missing-template error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Template is a JSON event template. Content and every tag element may
// carry {{name}} placeholders. The event kind is defined here, not in code.
type Template struct {
	Kind    int        `json:"kind"`
	Content string     `json:"content"`
	Tags    [][]string `json:"tags"`
}

// Load reads and parses a template document. Templates are loaded once per
// run and rendered repeatedly.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	return &t, nil
}

// Render substitutes placeholders and returns a new template; the receiver
// is never mutated and can be rendered again with different vars.
//
// For each var key the four placeholder forms {{k}}, {{ k }}, {{K}} and
// {{ K }} are replaced by the value's string form, in Content and in every
// tag element. Replacement is plain substring substitution, not
// token-aware. Placeholders without a matching var are left verbatim.
func (t *Template) Render(vars map[string]any) *Template {
	out := &Template{
		Kind:    t.Kind,
		Content: substitute(t.Content, vars),
		Tags:    make([][]string, len(t.Tags)),
	}
	for i, tag := range t.Tags {
		rendered := make([]string, len(tag))
		for j, item := range tag {
			rendered[j] = substitute(item, vars)
		}
		out.Tags[i] = rendered
	}
	return out
}

// Event builds an event skeleton from the rendered template. Pubkey,
// created_at and the identifier are the orchestrator's responsibility.
func (t *Template) Event() *nostr.Event {
	tags := make([][]string, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = append([]string(nil), tag...)
	}
	return &nostr.Event{
		Kind:    t.Kind,
		Content: t.Content,
		Tags:    tags,
	}
}

func substitute(s string, vars map[string]any) string {
	for key, value := range vars {
		str := fmt.Sprint(value)
		upper := strings.ToUpper(key)
		s = strings.ReplaceAll(s, "{{"+key+"}}", str)
		s = strings.ReplaceAll(s, "{{ "+key+" }}", str)
		s = strings.ReplaceAll(s, "{{"+upper+"}}", str)
		s = strings.ReplaceAll(s, "{{ "+upper+" }}", str)
	}
	return s
}
