package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/generator"
	"github.com/toyz/synapse/internal/models"
	"github.com/toyz/synapse/internal/parser"
	"github.com/toyz/synapse/internal/registry"
	"github.com/toyz/synapse/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.AnnotationParser
	scanReporter   *parser.ScanErrorReporter
	codeGenerator  generator.CodeGenerator
	eventRegistry  registry.EventRegistry
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	customModule   string
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(verbose bool) *Generator {
	annotationParser := parser.NewParser()
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		parser:         annotationParser,
		scanReporter:   parser.NewScanErrorReporter(annotationParser),
		codeGenerator:  generator.NewGenerator(),
		eventRegistry:  registry.NewEventRegistry(),
		reporter:       NewDiagnosticReporter(verbose),
		summary:        GenerationSummary{GeneratedFiles: make([]string, 0)},
	}
}

// NewGeneratorWithDiagnostics creates a new CLI generator with the diagnostic system
func NewGeneratorWithDiagnostics(verbose bool, diagnostics *utils.DiagnosticSystem) *Generator {
	g := NewGenerator(verbose)
	g.diagnostics = diagnostics
	return g
}

// Generate executes the generation process for the given directories
func (g *Generator) Generate(directories []string) error {
	config := Config{
		Directories: directories,
		Verbose:     g.reporter != nil && g.reporter.verbose,
		ModuleName:  g.customModule,
	}

	return g.Run(config)
}

// SetCustomModule sets a custom module name for import resolution
func (g *Generator) SetCustomModule(moduleName string) {
	g.customModule = moduleName
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	startTime := time.Now()

	g.summary = GenerationSummary{RunID: uuid.NewString(), GeneratedFiles: make([]string, 0)}
	g.eventRegistry.Clear()

	if g.diagnostics != nil {
		g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
		g.diagnostics.Debug("Generation run %s", g.summary.RunID)
		g.diagnostics.Debug("Scanning directories: %v", config.Directories)
		if config.ModuleName != "" {
			g.diagnostics.Debug("Using custom module name: %s", config.ModuleName)
		}
	} else if config.Verbose {
		fmt.Printf("Starting code generation at %s (run %s)\n", startTime.Format("15:04:05"), g.summary.RunID)
		fmt.Printf("Scanning directories: %v\n", config.Directories)
		if config.ModuleName != "" {
			fmt.Printf("Using custom module name: %s\n", config.ModuleName)
		}
		fmt.Printf("\n")
	}

	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		if g.diagnostics != nil {
			g.diagnostics.Error("Failed to resolve module name: %v", err)
		}
		return errors.NewGeneratorError(
			errors.Wrap(errors.ConfigurationErrorCode, "failed to resolve module name", err).
				WithContext("provided_module", config.ModuleName).
				WithContext("directories", config.Directories).
				WithSuggestions(
					"Check your go.mod file exists and is valid",
					"Ensure you're running from the module root",
					"Try specifying the -module flag explicitly",
				))
	}

	if g.diagnostics != nil {
		g.diagnostics.Debug("Resolved module name: %s", moduleName)
	} else if config.Verbose {
		fmt.Printf("Resolved module name: %s\n", moduleName)
	}

	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		if g.diagnostics != nil {
			g.diagnostics.Error("Failed to scan directories: %v", err)
		}
		return errors.NewGeneratorError(
			errors.Wrap(errors.FileSystemErrorCode, "failed to scan directories", err).
				WithContext("directories", config.Directories).
				WithSuggestions(
					"Check that the specified directories exist",
					"Ensure you have read permissions for the directories",
				))
	}

	if len(packageDirs) == 0 {
		if g.diagnostics != nil {
			g.diagnostics.Warn("No Go packages found in specified directories")
		}
		return errors.NewGeneratorError(
			errors.New(errors.ValidationErrorCode, "no Go packages found in specified directories").
				WithContext("directories", config.Directories).
				WithSuggestions(
					"Ensure the directories contain Go files",
					"Try scanning parent directories or use the './...' pattern",
				))
	}

	if g.diagnostics != nil {
		g.diagnostics.Info("Found %d packages to process", len(packageDirs))
		g.diagnostics.Indent()
		for _, dir := range packageDirs {
			g.diagnostics.List("%s", dir)
		}
		g.diagnostics.Unindent()
	} else {
		fmt.Printf("Found %d packages to process\n", len(packageDirs))
		if config.Verbose {
			for i, dir := range packageDirs {
				fmt.Printf("  %d. %s\n", i+1, dir)
			}
			fmt.Printf("\n")
		}
	}

	g.summary.PackagesProcessed = len(packageDirs)

	// First pass: scan every package and register its events, so
	// cross-package references can be validated no matter which
	// package was scanned first.
	if g.diagnostics != nil {
		g.diagnostics.Subsection("Scan Phase")
	} else if config.Verbose {
		fmt.Printf("Phase 1: Scanning packages for annotations\n")
	}

	allPackageMetadata := make([]*models.PackageMetadata, 0, len(packageDirs))
	for i, packageDir := range packageDirs {
		if config.Verbose && g.diagnostics == nil {
			fmt.Printf("  Scanning package %d/%d: %s\n", i+1, len(packageDirs), packageDir)
		}

		metadata, err := g.parser.ParseDirectory(packageDir)
		if err != nil {
			return g.wrapScanError(err, packageDir, moduleName)
		}

		// Stamp the import path so event references can be matched
		// across packages.
		importPath, err := g.moduleResolver.BuildPackagePath(moduleName, packageDir)
		if err != nil {
			return fmt.Errorf("failed to build package path for %s: %w", packageDir, err)
		}
		metadata.ImportPath = importPath

		if err := g.eventRegistry.RegisterPackage(metadata); err != nil {
			return err
		}

		allPackageMetadata = append(allPackageMetadata, metadata)
		g.collectSummaryInfo(metadata)

		if config.Verbose {
			fmt.Printf("    Found: %d listeners, %d events\n",
				len(metadata.Listeners), len(metadata.Events))
			for _, diagnostic := range g.scanReporter.GenerateScanDiagnostics(metadata) {
				fmt.Printf("    note: %s\n", diagnostic)
			}
		}
	}

	fmt.Printf("Discovered %d events across all packages\n", len(g.eventRegistry.KnownEvents()))

	// Second pass: validate cross-package event references against the
	// complete registry.
	if g.diagnostics != nil {
		g.diagnostics.Subsection("Validation Phase")
	} else if config.Verbose {
		fmt.Printf("Phase 2: Validating event references\n")
	}
	for _, metadata := range allPackageMetadata {
		if err := g.eventRegistry.ValidateListeners(metadata); err != nil {
			return err
		}
	}

	// Third pass: generate and write registration files.
	if g.diagnostics != nil {
		g.diagnostics.Subsection("Generation Phase")
	} else if config.Verbose {
		fmt.Printf("Phase 3: Code generation\n")
	}

	for i, metadata := range allPackageMetadata {
		packageDir := packageDirs[i]
		fmt.Printf("Processing package: %s\n", packageDir)

		if !metadata.HasAnnotations() {
			fmt.Printf("  Skipping package %s (no annotations found)\n", metadata.PackageName)
			continue
		}

		generatedModule, err := g.codeGenerator.GenerateModule(metadata)
		if err != nil {
			if genErr, ok := err.(*errors.GeneratorError); ok {
				return genErr
			}
			return errors.NewGeneratorError(
				errors.Wrap(errors.GenerationErrorCode,
					fmt.Sprintf("failed to generate module for package %s", metadata.PackageName), err).
					WithContext("package_name", metadata.PackageName).
					WithContext("package_path", packageDir).
					WithSuggestions(
						"Check that all annotations are valid",
						"Verify that all referenced event types exist",
					))
		}

		if err := g.writeModuleFile(generatedModule); err != nil {
			return errors.NewGeneratorError(
				errors.Wrap(errors.FileSystemErrorCode,
					fmt.Sprintf("failed to write module file for package %s", metadata.PackageName), err).
					WithContext("package_name", metadata.PackageName).
					WithContext("file_path", generatedModule.FilePath).
					WithSuggestions(
						"Check write permissions for the target directory",
						"Verify there's enough disk space",
					))
		}

		fmt.Printf("  Generated module: %s\n", generatedModule.FilePath)
		g.summary.ModulesGenerated++
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, generatedModule.FilePath)
	}

	if config.Verbose {
		duration := time.Since(startTime)
		fmt.Printf("\nGeneration completed in %v\n", duration)
		fmt.Printf("Total packages processed: %d\n", len(packageDirs))
		fmt.Printf("Total modules generated: %d\n", g.summary.ModulesGenerated)
	}

	return nil
}

// wrapScanError attaches package context to a scan failure, preserving rich
// errors that already carry their own location and suggestions
func (g *Generator) wrapScanError(err error, packageDir, moduleName string) error {
	if genErr, ok := err.(*errors.GeneratorError); ok {
		return genErr
	}
	return errors.NewGeneratorError(
		errors.Wrap(errors.ValidationErrorCode,
			fmt.Sprintf("failed to scan package %s", packageDir), err).
			WithContext("package_directory", packageDir).
			WithContext("module_name", moduleName).
			WithSuggestions(
				"Check for syntax errors in Go files",
				"Ensure all files have valid package declarations",
				"Verify annotation syntax is correct",
			))
}

// writeModuleFile formats a generated module and writes it to disk
func (g *Generator) writeModuleFile(module *models.GeneratedModule) error {
	dir := filepath.Dir(module.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return utils.FormatAndWriteGoFile(module.FilePath, module.Content)
}

// collectSummaryInfo collects summary information from package metadata
func (g *Generator) collectSummaryInfo(metadata *models.PackageMetadata) {
	g.summary.ListenersFound += len(metadata.Listeners)
	g.summary.EventsFound += len(metadata.Events)
}

// ReportSuccess reports successful generation using the diagnostic reporter
func (g *Generator) ReportSuccess() {
	g.reporter.ReportSuccess(g.summary)
}
