package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toyz/synapse/internal/cli"
	"github.com/toyz/synapse/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command and returns the process exit code. Kept separate
// from main so tests can drive the full command in-process.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("synapse", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		moduleFlag  = flags.String("module", "", "Custom module name for imports (defaults to go.mod module)")
		verboseFlag = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flags.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flags.Bool("clean", false, "Delete all autogen_listeners.go files from the specified directories")
		helpFlag    = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options] <directory-paths...>\n\n", flags.Name())
		fmt.Fprintf(stderr, "Synapse Event Listener Generator\n")
		fmt.Fprintf(stderr, "Recursively scans directories for Go files with synapse:: annotations and generates listener modules.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nDirectory Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Scan current directory and all subdirectories recursively\n")
		fmt.Fprintf(stderr, "  ./internal/...     Scan internal directory and all its subdirectories\n")
		fmt.Fprintf(stderr, "  ./pkg/listeners    Scan only the specific directory (no recursion)\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s ./...                                      # Scan everything recursively\n", flags.Name())
		fmt.Fprintf(stderr, "  %s ./internal/...                             # Scan internal directory recursively\n", flags.Name())
		fmt.Fprintf(stderr, "  %s ./internal/listeners ./internal/events     # Scan specific directories\n", flags.Name())
		fmt.Fprintf(stderr, "  %s --module github.com/myorg/myapp ./...      # Specify custom module name\n", flags.Name())
		fmt.Fprintf(stderr, "  %s --verbose ./internal/...                   # Enable detailed output\n", flags.Name())
		fmt.Fprintf(stderr, "  %s --quiet ./...                              # Minimal output\n", flags.Name())
		fmt.Fprintf(stderr, "  %s --clean ./...                              # Delete all autogen_listeners.go files\n", flags.Name())
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *helpFlag {
		flags.Usage()
		return 0
	}

	dirs := flags.Args()
	if len(dirs) == 0 {
		fmt.Fprintf(stderr, "Error: At least one directory path is required\n\n")
		flags.Usage()
		return 1
	}

	// Create diagnostic system based on flags
	var diagnostics *utils.DiagnosticSystem
	if *quietFlag {
		diagnostics = utils.NewQuietDiagnostics()
	} else if *verboseFlag {
		diagnostics = utils.NewVerboseDiagnostics()
	} else {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	diagnostics.Section("Synapse Code Generator")

	// Handle clean operation
	if *cleanFlag {
		diagnostics.Info("Starting cleanup operation...")

		cleaner := cli.NewCleaner()
		if err := cleaner.CleanGeneratedFiles(dirs); err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			return 1
		}

		diagnostics.Success("All autogen_listeners.go files have been removed")
		return 0
	}

	// Show configuration
	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(dirs, ", "))
		if *moduleFlag != "" {
			diagnostics.List("Custom module: %s", *moduleFlag)
		}
		diagnostics.List("Verbose mode: enabled")
	}

	generator := cli.NewGeneratorWithDiagnostics(*verboseFlag, diagnostics)

	if *moduleFlag != "" {
		generator.SetCustomModule(*moduleFlag)
		diagnostics.Debug("Using custom module: %s", *moduleFlag)
	}

	// Run the generation process
	diagnostics.Subsection("Code Generation")

	if err := generator.Generate(dirs); err != nil {
		cli.NewDiagnosticReporter(*verboseFlag).ReportError(err)
		return 1
	}

	// Show final summary
	summary := generator.GetSummary()
	stats := map[string]interface{}{
		"Packages processed": summary.PackagesProcessed,
		"Modules generated":  len(summary.GeneratedFiles),
		"Listeners found":    summary.ListenersFound,
		"Events found":       summary.EventsFound,
	}

	diagnostics.Summary("Generation Complete!", stats)

	// Show generated files in verbose mode
	if *verboseFlag && len(summary.GeneratedFiles) > 0 {
		diagnostics.Subsection("Generated Files")
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
	}

	diagnostics.Success("Your synapse application is ready to use!")
	return 0
}
