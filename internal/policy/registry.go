// Package policy loads the embedded operation -> access level table.
package policy

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	models "drive/internal/domain/models/drive"
)

//go:embed policy.yaml
var policyFile []byte

// Registry answers which access level an operation requires
type Registry struct {
	required map[string]models.AccessLevel
	public   map[string]bool
	mu       sync.RWMutex
}

// NewRegistry parses the embedded policy document
func NewRegistry() (*Registry, error) {
	return Parse(policyFile)
}

// Parse builds a registry from a YAML policy document
func Parse(data []byte) (*Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy: %w", err)
	}

	r := &Registry{
		required: make(map[string]models.AccessLevel, len(doc.Operations)),
		public:   make(map[string]bool, len(doc.Public)),
	}
	for op, level := range doc.Operations {
		if _, err := models.ParseAccessLevel(string(level)); err != nil {
			return nil, fmt.Errorf("operation %s: %w", op, err)
		}
		r.required[op] = level
	}
	for _, op := range doc.Public {
		if _, ok := r.required[op]; !ok {
			return nil, fmt.Errorf("public operation %s has no required level", op)
		}
		r.public[op] = true
	}

	return r, nil
}

// Required returns the minimum level for op. Unknown operations require owner.
func (r *Registry) Required(op string) models.AccessLevel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if level, ok := r.required[op]; ok {
		return level
	}
	return models.AccessOwner
}

// AllowsPublic reports whether op is open to everyone on a public folder
func (r *Registry) AllowsPublic(op string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.public[op]
}

// Operations lists the configured operation names, sorted
func (r *Registry) Operations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]string, 0, len(r.required))
	for op := range r.required {
		ops = append(ops, op)
	}
	slices.Sort(ops)
	return ops
}
