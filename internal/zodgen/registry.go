// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package zodgen

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/api2spec/swaggen/internal/parser"
)

// Registry stores declarations by name, keeping source order.
type Registry struct {
	// content is the source the declaration nodes point into
	content []byte
	decls   map[string]parser.Declaration
	names   []string
}

// NewRegistry creates an empty registry for declarations parsed from content.
func NewRegistry(content []byte) *Registry {
	return &Registry{content: content, decls: make(map[string]parser.Declaration)}
}

// Add registers a declaration. It reports false when the name is already taken.
func (r *Registry) Add(decl parser.Declaration) bool {
	if _, ok := r.decls[decl.Name]; ok {
		return false
	}
	r.decls[decl.Name] = decl
	r.names = append(r.names, decl.Name)
	return true
}

// Get returns a declaration by name.
func (r *Registry) Get(name string) (parser.Declaration, bool) {
	decl, ok := r.decls[name]
	return decl, ok
}

// Has checks if a declaration exists in the registry.
func (r *Registry) Has(name string) bool {
	_, ok := r.decls[name]
	return ok
}

// Names returns all declaration names in source order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Count returns the number of declarations in the registry.
func (r *Registry) Count() int {
	return len(r.names)
}

// Dependencies returns the registered names a declaration refers to, sorted.
func (r *Registry) Dependencies(name string) []string {
	decl, ok := r.decls[name]
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var collect func(*sitter.Node)
	collect = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "type_identifier" {
			if ident := n.Content(r.content); r.Has(ident) {
				seen[ident] = true
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			collect(n.NamedChild(i))
		}
	}

	for _, base := range decl.Extends {
		if r.Has(base) {
			seen[base] = true
		}
	}
	for _, p := range decl.Properties {
		collect(p.Type)
	}
	collect(decl.IndexType)
	collect(decl.Type)

	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// Order returns the names so that every declaration follows the ones it
// depends on. Ties keep source order; cycles are broken at the first
// declaration reached again.
func (r *Registry) Order() []string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.names))
	order := make([]string, 0, len(r.names))

	var visit func(string)
	visit = func(name string) {
		if state[name] != unvisited {
			return
		}
		state[name] = visiting
		for _, dep := range r.Dependencies(name) {
			visit(dep)
		}
		state[name] = done
		order = append(order, name)
	}
	for _, name := range r.names {
		visit(name)
	}
	return order
}
