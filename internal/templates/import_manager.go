package templates

import (
	"fmt"
	"sort"
	"strings"
)

// Import paths the generated registrations depend on
const (
	// RuntimeImportPath is the runtime package generated code registers into
	RuntimeImportPath = "github.com/toyz/synapse/pkg/synapse"

	// PriorityImportPath is the opt-in standard-priority side table, imported
	// only when a scanned listener carries -Priority
	PriorityImportPath = RuntimeImportPath + "/priority"

	// FXImportPath is the dependency injection framework generated modules target
	FXImportPath = "go.uber.org/fx"
)

// ImportManager collects the imports a generated file needs and renders them
// as a grouped import block: standard library first, then everything else.
type ImportManager struct {
	standardImports map[string]bool
	packageImports  map[string]bool
	aliasedImports  map[string]string // path -> alias
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standardImports: make(map[string]bool),
		packageImports:  make(map[string]bool),
		aliasedImports:  make(map[string]string),
	}
}

// AddImport adds an import path, classifying it as standard library or not
func (im *ImportManager) AddImport(importPath string) {
	if importPath == "" {
		return
	}
	if isStandardLibraryPath(importPath) {
		im.standardImports[importPath] = true
	} else {
		im.packageImports[importPath] = true
	}
}

// AddPackageImport adds an import under the identifier the scanned source
// referenced it by. The alias is only emitted when it differs from the
// path's final segment.
func (im *ImportManager) AddPackageImport(alias, path string) {
	if path == "" {
		return
	}
	if alias == "" || alias == lastPathSegment(path) {
		im.packageImports[path] = true
		return
	}
	im.aliasedImports[path] = alias
}

// GenerateImports renders the collected imports as an import declaration,
// returning the empty string when there is nothing to import
func (im *ImportManager) GenerateImports() string {
	std := sortedKeys(im.standardImports)

	rest := sortedKeys(im.packageImports)
	for path := range im.aliasedImports {
		rest = append(rest, path)
	}
	sort.Strings(rest)

	lines := make([]string, 0, len(std)+len(rest))
	for _, path := range std {
		lines = append(lines, fmt.Sprintf("\t%q", path))
	}
	if len(std) > 0 && len(rest) > 0 {
		lines = append(lines, "")
	}
	for _, path := range rest {
		if alias, ok := im.aliasedImports[path]; ok {
			lines = append(lines, fmt.Sprintf("\t%s %q", alias, path))
		} else {
			lines = append(lines, fmt.Sprintf("\t%q", path))
		}
	}

	switch len(lines) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("import %s\n", strings.TrimPrefix(lines[0], "\t"))
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, line := range lines {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(")\n")

	return result.String()
}

// isEmpty checks if there are any imports to generate
func (im *ImportManager) isEmpty() bool {
	return len(im.standardImports) == 0 &&
		len(im.packageImports) == 0 &&
		len(im.aliasedImports) == 0
}

// isStandardLibraryPath reports whether an import path belongs to the
// standard library. Module paths carry a dot in their first segment;
// standard library paths never do.
func isStandardLibraryPath(path string) bool {
	first := path
	if idx := strings.Index(path, "/"); idx != -1 {
		first = path[:idx]
	}
	return !strings.Contains(first, ".")
}

func lastPathSegment(path string) string {
	if idx := strings.LastIndex(path, "/"); idx != -1 {
		return path[idx+1:]
	}
	return path
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
