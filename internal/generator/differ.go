// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package generator

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/api2spec/swaggen/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// RouteChange represents a change to a generated client method.
type RouteChange struct {
	Type        DiffType
	Method      string
	Path        string
	RouteName   string
	Description string
}

// FileChange represents a change to a generated file.
type FileChange struct {
	Type DiffType
	Name string
}

// DiffResult contains the differences between two generations.
type DiffResult struct {
	RouteChanges []RouteChange
	FileChanges  []FileChange

	// HasBreakingChanges is set when a route or file disappeared
	HasBreakingChanges bool

	// Summary provides a human-readable summary of changes.
	Summary string
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.RouteChanges) == 0 && len(d.FileChanges) == 0
}

func routeKey(r types.Route) string {
	return strings.ToUpper(r.Request.Method) + " " + r.Request.Path
}

// DiffRoutes compares the routes of two generations by method and path.
func DiffRoutes(before, after []types.Route) *DiffResult {
	result := &DiffResult{RouteChanges: []RouteChange{}, FileChanges: []FileChange{}}

	old := make(map[string]types.Route, len(before))
	for _, r := range before {
		old[routeKey(r)] = r
	}
	seen := make(map[string]bool, len(after))

	for _, r := range after {
		key := routeKey(r)
		seen[key] = true
		prev, ok := old[key]
		switch {
		case !ok:
			result.RouteChanges = append(result.RouteChanges, routeChange(DiffTypeAdded, r, "Added "+key))
		case signatureChanged(prev, r):
			result.RouteChanges = append(result.RouteChanges, routeChange(DiffTypeModified, r, "Modified "+key))
		}
	}
	for _, r := range before {
		if key := routeKey(r); !seen[key] {
			result.RouteChanges = append(result.RouteChanges, routeChange(DiffTypeRemoved, r, "Removed "+key))
		}
	}

	sort.SliceStable(result.RouteChanges, func(i, j int) bool {
		a, b := result.RouteChanges[i], result.RouteChanges[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})
	result.finish()
	return result
}

func routeChange(t DiffType, r types.Route, desc string) RouteChange {
	return RouteChange{
		Type:        t,
		Method:      strings.ToUpper(r.Request.Method),
		Path:        r.Request.Path,
		RouteName:   r.RouteName,
		Description: desc,
	}
}

// signatureChanged reports whether the emitted method of a route would differ.
func signatureChanged(a, b types.Route) bool {
	if a.RouteName != b.RouteName || a.ModuleName != b.ModuleName || a.Deprecated != b.Deprecated {
		return true
	}
	if a.Response != b.Response {
		return true
	}
	ra, rb := a.Request, b.Request
	if ra.Security != rb.Security || ra.ContentKind != rb.ContentKind {
		return true
	}
	return !reflect.DeepEqual(ra.Parameters, rb.Parameters) ||
		!reflect.DeepEqual(ra.Query, rb.Query) ||
		!reflect.DeepEqual(ra.Payload, rb.Payload) ||
		!reflect.DeepEqual(ra.RequestParams, rb.RequestParams)
}

// DiffFiles compares two sets of generated files keyed by name.
func DiffFiles(before, after map[string][]byte) *DiffResult {
	result := &DiffResult{RouteChanges: []RouteChange{}, FileChanges: []FileChange{}}

	for name, content := range after {
		prev, ok := before[name]
		switch {
		case !ok:
			result.FileChanges = append(result.FileChanges, FileChange{Type: DiffTypeAdded, Name: name})
		case !bytes.Equal(prev, content):
			result.FileChanges = append(result.FileChanges, FileChange{Type: DiffTypeModified, Name: name})
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			result.FileChanges = append(result.FileChanges, FileChange{Type: DiffTypeRemoved, Name: name})
		}
	}

	sort.Slice(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Name < result.FileChanges[j].Name
	})
	result.finish()
	return result
}

func (d *DiffResult) finish() {
	for _, c := range d.RouteChanges {
		if c.Type == DiffTypeRemoved {
			d.HasBreakingChanges = true
		}
	}
	for _, c := range d.FileChanges {
		if c.Type == DiffTypeRemoved {
			d.HasBreakingChanges = true
		}
	}
	d.Summary = d.summary()
}

func countByType[T any](items []T, typeOf func(T) DiffType) (added, removed, modified int) {
	for _, item := range items {
		switch typeOf(item) {
		case DiffTypeAdded:
			added++
		case DiffTypeRemoved:
			removed++
		case DiffTypeModified:
			modified++
		}
	}
	return added, removed, modified
}

func (d *DiffResult) summary() string {
	if d.IsEmpty() {
		return "No changes detected"
	}

	var parts []string
	if len(d.RouteChanges) > 0 {
		a, r, m := countByType(d.RouteChanges, func(c RouteChange) DiffType { return c.Type })
		parts = append(parts, fmt.Sprintf("Routes: +%d -%d ~%d", a, r, m))
	}
	if len(d.FileChanges) > 0 {
		a, r, m := countByType(d.FileChanges, func(c FileChange) DiffType { return c.Type })
		parts = append(parts, fmt.Sprintf("Files: +%d -%d ~%d", a, r, m))
	}
	if d.HasBreakingChanges {
		parts = append(parts, "(breaking changes detected)")
	}
	return strings.Join(parts, ", ")
}
