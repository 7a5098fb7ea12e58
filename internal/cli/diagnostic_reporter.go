package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/toyz/synapse/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
	}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprint(os.Stderr, "! ")
	fmt.Fprintf(os.Stderr, "%s\n", message)
	for _, suggestion := range suggestions {
		fmt.Fprintf(os.Stderr, "  %s\n", suggestion)
	}
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(os.Stderr, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(os.Stderr, "=============================\n\n")

	if synErr := r.findSynapseError(err); synErr != nil {
		r.reportSynapseError(synErr)
	} else {
		r.reportBasicError(err)
	}

	fmt.Fprintf(os.Stderr, "\n")
}

// reportSynapseError reports a framework error with full context and suggestions
func (r *DiagnosticReporter) reportSynapseError(synErr errors.SynapseError) {
	r.printErrorHeader(synErr.ErrorCode())

	// The error text already carries the source location when one is known
	fmt.Fprintf(os.Stderr, "Message: %s\n\n", synErr.Error())

	if r.verbose && synErr.Unwrap() != nil {
		fmt.Fprintf(os.Stderr, "Underlying cause: %s\n\n", synErr.Unwrap().Error())
	}

	if context := synErr.Context(); len(context) > 0 {
		r.printContext(context)
	}

	if suggestions := synErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	r.printAdditionalHelp(synErr.ErrorCode())

	if r.verbose {
		r.printVerboseDebuggingInfo(synErr)
	}
}

// reportBasicError reports a basic error without rich context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(os.Stderr, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())

	if strings.Contains(errorMsg, "annotation") {
		fmt.Fprintf(os.Stderr, "This appears to be an annotation-related issue.\n")
		fmt.Fprintf(os.Stderr, "Common solutions:\n")
		fmt.Fprintf(os.Stderr, "  - Check your //synapse:: annotation syntax\n")
		fmt.Fprintf(os.Stderr, "  - Ensure annotations are properly formatted\n")
		fmt.Fprintf(os.Stderr, "  - Verify annotation targets are struct types\n\n")
	} else if strings.Contains(errorMsg, "condition") {
		fmt.Fprintf(os.Stderr, "This appears to be a condition-related issue.\n")
		fmt.Fprintf(os.Stderr, "Common solutions:\n")
		fmt.Fprintf(os.Stderr, "  - Check your -Condition expression syntax\n")
		fmt.Fprintf(os.Stderr, "  - Conditions are expressions over 'event' and 'source'\n")
		fmt.Fprintf(os.Stderr, "  - Quote the whole expression: -Condition=\"event.Total > 100\"\n\n")
	} else if strings.Contains(errorMsg, "module") {
		fmt.Fprintf(os.Stderr, "This appears to be a module-related issue.\n")
		fmt.Fprintf(os.Stderr, "Common solutions:\n")
		fmt.Fprintf(os.Stderr, "  - Check your go.mod file\n")
		fmt.Fprintf(os.Stderr, "  - Ensure module paths are correct\n")
		fmt.Fprintf(os.Stderr, "  - Try specifying the -module flag explicitly\n\n")
	}
}

// printErrorHeader prints a formatted error header based on the error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var errorTypeStr string

	switch code {
	case errors.SyntaxErrorCode:
		errorTypeStr = "Annotation Syntax Error"
	case errors.ValidationErrorCode:
		errorTypeStr = "Validation Error"
	case errors.RegistrationErrorCode:
		errorTypeStr = "Registration Error"
	case errors.ListenerSignatureErrorCode:
		errorTypeStr = "Listener Signature Error"
	case errors.ListenerConflictErrorCode:
		errorTypeStr = "Listener Conflict Error"
	case errors.EventConflictErrorCode:
		errorTypeStr = "Event Conflict Error"
	case errors.EventImportErrorCode:
		errorTypeStr = "Event Reference Error"
	case errors.ConditionErrorCode:
		errorTypeStr = "Condition Error"
	case errors.GenerationErrorCode:
		errorTypeStr = "Code Generation Error"
	case errors.TemplateErrorCode:
		errorTypeStr = "Template Error"
	case errors.FileSystemErrorCode:
		errorTypeStr = "File System Error"
	case errors.ConfigurationErrorCode:
		errorTypeStr = "Configuration Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(os.Stderr, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(os.Stderr, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(os.Stderr, "Context:\n")

	// Print important context items first
	importantKeys := []string{"listener", "listener_type", "event_type", "event_name", "condition", "method_name"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(os.Stderr, "   %s: %v\n", r.formatContextKey(key), value)
			printed[key] = true
		}
	}

	for key, value := range context {
		if !printed[key] {
			fmt.Fprintf(os.Stderr, "   %s: %v\n", r.formatContextKey(key), value)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
}

// formatContextKey formats context keys to be more readable
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "listener", "listener_type":
		return "Listener"
	case "event_type":
		return "Event Type"
	case "event_name":
		return "Event Name"
	case "condition":
		return "Condition"
	case "method_name":
		return "Method"
	case "expected_signature":
		return "Expected Signature"
	case "actual_signature":
		return "Actual Signature"
	default:
		// Convert snake_case to Title Case
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(os.Stderr, "Suggestions:\n")

	for i, suggestion := range suggestions {
		// Format multi-line suggestions nicely
		lines := strings.Split(suggestion, "\n")
		if len(lines) == 1 {
			fmt.Fprintf(os.Stderr, "   %d. %s\n", i+1, suggestion)
		} else {
			fmt.Fprintf(os.Stderr, "   %d. %s\n", i+1, lines[0])
			for _, line := range lines[1:] {
				if strings.TrimSpace(line) != "" {
					fmt.Fprintf(os.Stderr, "      %s\n", line)
				}
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
}

// printAdditionalHelp prints additional help based on the error code
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.ListenerSignatureErrorCode:
		fmt.Fprintf(os.Stderr, "Handler Method Requirements:\n")
		fmt.Fprintf(os.Stderr, "  - Must have exactly 2 parameters: (context.Context, YourEvent)\n")
		fmt.Fprintf(os.Stderr, "  - Must return exactly 1 value: error\n")
		fmt.Fprintf(os.Stderr, "  - Must be an exported method on the annotated struct\n")
		fmt.Fprintf(os.Stderr, "  - The event parameter is typically a pointer to the event struct\n\n")

	case errors.EventImportErrorCode:
		fmt.Fprintf(os.Stderr, "Event Reference Requirements:\n")
		fmt.Fprintf(os.Stderr, "  - Events in other packages must be annotated with //synapse::event\n")
		fmt.Fprintf(os.Stderr, "  - Include the package that defines the event in the scan directories\n")
		fmt.Fprintf(os.Stderr, "  - Check that import paths are correct\n\n")

	case errors.EventConflictErrorCode:
		fmt.Fprintf(os.Stderr, "Resolving Event Name Conflicts:\n")
		fmt.Fprintf(os.Stderr, "  - Each event name can only map to one struct\n")
		fmt.Fprintf(os.Stderr, "  - Use -Name to give one of the events a different name\n\n")

	case errors.ConditionErrorCode:
		fmt.Fprintf(os.Stderr, "Condition Syntax Help:\n")
		fmt.Fprintf(os.Stderr, "  - Conditions are expressions over 'event' and 'source'\n")
		fmt.Fprintf(os.Stderr, "  - Comparison, boolean and arithmetic operators are supported\n")
		fmt.Fprintf(os.Stderr, "  - Example: -Condition=\"event.Total > 100 && event.Region == 'EU'\"\n\n")

	case errors.SyntaxErrorCode:
		fmt.Fprintf(os.Stderr, "Annotation Syntax Help:\n")
		fmt.Fprintf(os.Stderr, "  - Annotations must start with //synapse::\n")
		fmt.Fprintf(os.Stderr, "  - Parameters use -Name=value, flags are bare -Name\n")
		fmt.Fprintf(os.Stderr, "  - Ensure proper spacing and parameter format\n\n")
	}

	// Always show general help
	fmt.Fprintf(os.Stderr, "For more help:\n")
	fmt.Fprintf(os.Stderr, "  - Run with -verbose for more detailed output\n")
	fmt.Fprintf(os.Stderr, "  - Review example implementations in the examples/ directory\n")
}

// findSynapseError searches the unwrap chain for a framework error
func (r *DiagnosticReporter) findSynapseError(err error) errors.SynapseError {
	for err != nil {
		if synErr, ok := err.(errors.SynapseError); ok {
			return synErr
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}

// printVerboseDebuggingInfo prints additional debugging information in verbose mode
func (r *DiagnosticReporter) printVerboseDebuggingInfo(synErr errors.SynapseError) {
	fmt.Fprintf(os.Stderr, "Verbose Debug Information:\n")
	fmt.Fprintf(os.Stderr, "  Error Code: %s (%d)\n", synErr.ErrorCode().String(), int(synErr.ErrorCode()))

	if context := synErr.Context(); len(context) > 0 {
		fmt.Fprintf(os.Stderr, "  Full Context Data:\n")
		for key, value := range context {
			fmt.Fprintf(os.Stderr, "    %s: %+v\n", key, value)
		}
	}

	if cause := synErr.Unwrap(); cause != nil {
		fmt.Fprintf(os.Stderr, "  Error Chain:\n")
		err := cause
		level := 1
		for err != nil {
			fmt.Fprintf(os.Stderr, "    %d. %s\n", level, err.Error())
			if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
				err = unwrapper.Unwrap()
				level++
			} else {
				break
			}
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// DebugSection prints a debug section header when verbose mode is enabled
func (r *DiagnosticReporter) DebugSection(section string) {
	if r.verbose {
		fmt.Fprintf(os.Stderr, "[DEBUG] === %s ===\n", section)
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Printf("\nCode Generation Completed Successfully!\n")
	fmt.Printf("=======================================\n\n")

	if summary.RunID != "" {
		fmt.Printf("Run ID: %s\n", summary.RunID)
	}

	if summary.PackagesProcessed > 0 {
		fmt.Printf("Processed %d packages\n", summary.PackagesProcessed)
	}

	if summary.ModulesGenerated > 0 {
		fmt.Printf("Generated %d listener modules\n", summary.ModulesGenerated)
	}

	if summary.ListenersFound > 0 {
		fmt.Printf("Found %d listeners\n", summary.ListenersFound)
	}

	if summary.EventsFound > 0 {
		fmt.Printf("Found %d events\n", summary.EventsFound)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Printf("\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Printf("  - %s\n", file)
		}
	}

	fmt.Printf("\nYour listeners are wired and ready to use!\n")
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	RunID             string
	PackagesProcessed int
	ModulesGenerated  int
	ListenersFound    int
	EventsFound       int
	GeneratedFiles    []string
}
