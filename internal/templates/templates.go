package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/toyz/synapse/internal/models"
)

// GeneratedFileHeader marks emitted files as machine-written. Tooling keys
// on the first line, so its wording follows the generated-code convention.
const GeneratedFileHeader = "// Code generated by synapse. DO NOT EDIT.\n" +
	"// This file was automatically generated and should not be modified manually.\n\n"

// GenerateListenerModule assembles the complete generated source for one
// scanned package: the DO-NOT-EDIT header, the import block, compile-time
// event assertions, the init function populating the runtime registries,
// and the fx module wiring listeners into the dispatcher.
//
// The result is raw source; formatting happens when the file is written.
func GenerateListenerModule(metadata *models.PackageMetadata) (string, error) {
	if metadata == nil {
		return "", fmt.Errorf("metadata cannot be nil")
	}

	data := BuildListenerModuleData(metadata)

	var content strings.Builder

	assertions, err := GenerateEventAssertions(data)
	if err != nil {
		return "", err
	}
	if assertions != "" {
		content.WriteString(assertions)
		content.WriteString("\n\n")
	}

	initFunc, err := GenerateInitFunction(data)
	if err != nil {
		return "", err
	}
	if initFunc != "" {
		content.WriteString(initFunc)
		content.WriteString("\n\n")
	}

	subscribeFunc, err := GenerateSubscribeFunction(data)
	if err != nil {
		return "", err
	}
	if subscribeFunc != "" {
		content.WriteString(subscribeFunc)
		content.WriteString("\n\n")
	}

	moduleVar, err := GenerateModuleVariable(data)
	if err != nil {
		return "", err
	}
	content.WriteString(moduleVar)
	content.WriteString("\n")

	var moduleBuilder strings.Builder
	moduleBuilder.WriteString(GeneratedFileHeader)
	moduleBuilder.WriteString(fmt.Sprintf("package %s\n\n", metadata.PackageName))

	importManager := NewImportManager()
	collectModuleImports(importManager, metadata)
	if block := importManager.GenerateImports(); block != "" {
		moduleBuilder.WriteString(block)
		moduleBuilder.WriteString("\n")
	}

	moduleBuilder.WriteString(content.String())

	return moduleBuilder.String(), nil
}

// collectModuleImports records every import the generated file will need,
// derived from the scanned metadata rather than sniffed from emitted text
func collectModuleImports(importManager *ImportManager, metadata *models.PackageMetadata) {
	importManager.AddImport(FXImportPath)

	if len(metadata.Events) > 0 || len(metadata.Listeners) > 0 {
		importManager.AddImport("reflect")
		importManager.AddImport(RuntimeImportPath)
	}
	if len(metadata.Listeners) > 0 {
		importManager.AddImport("context")
	}

	for _, listener := range metadata.Listeners {
		if _, hasPriority := listener.StandardPriority(); hasPriority {
			importManager.AddImport(PriorityImportPath)
		}
		if !listener.EventType.IsLocal() {
			importManager.AddPackageImport(listener.EventType.PackageName, listener.EventType.Package)
		}
	}
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data interface{}) (string, error) {
	return executeTemplate(name, templateStr, data)
}
