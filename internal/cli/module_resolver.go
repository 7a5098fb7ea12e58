package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/synapse/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goModParser *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{
		goModParser: utils.NewGoModParser(utils.NewFileReader()),
	}
}

// ResolveModuleName resolves the module name for imports. If customModule is
// provided it wins; otherwise the name is read from the nearest go.mod.
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	moduleName, err := r.readGoModFile()
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using the -module flag)", err)
	}

	return moduleName, nil
}

// readGoModFile locates the nearest go.mod and reads the module name from it
func (r *ModuleResolver) readGoModFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	goModPath, err := r.goModParser.FindGoModFile(currentDir)
	if err != nil {
		return "", err
	}

	return r.goModParser.ParseModuleName(goModPath)
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	// Import paths are relative to the module root, which is where the
	// generator runs from.
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(currentDir, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)

	if importPath == "." {
		return moduleName, nil
	}

	return fmt.Sprintf("%s/%s", moduleName, importPath), nil
}
