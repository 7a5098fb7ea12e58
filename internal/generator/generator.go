package generator

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/toyz/synapse/internal/errors"
	"github.com/toyz/synapse/internal/models"
	"github.com/toyz/synapse/internal/templates"
	"github.com/toyz/synapse/pkg/synapse"
	"github.com/toyz/synapse/pkg/synapse/expr"
)

// GeneratedFileName is the name of the file written into each annotated
// package.
const GeneratedFileName = "autogen_listeners.go"

// Generator implements the CodeGenerator interface
type Generator struct{}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateModule generates the registration file for a scanned package.
// Listeners are emitted in dispatch order and every guard expression is
// compiled before any code is rendered, so a bad -Condition fails the
// generation run instead of the generated build.
func (g *Generator) GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}

	if err := g.compileConditions(metadata); err != nil {
		return nil, err
	}

	// Sort listeners by effective dispatch order (lower values first).
	// The stable sort keeps declaration order for ties.
	sort.SliceStable(metadata.Listeners, func(i, j int) bool {
		return effectiveOrder(metadata.Listeners[i]) < effectiveOrder(metadata.Listeners[j])
	})

	filePath := filepath.Join(metadata.PackagePath, GeneratedFileName)

	var content string
	var err error
	if metadata.HasAnnotations() {
		content, err = templates.GenerateListenerModule(metadata)
	} else {
		content = g.generateEmptyModule(metadata)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate module content: %w", err)
	}

	return &models.GeneratedModule{
		PackageName:   metadata.PackageName,
		FilePath:      filePath,
		Content:       content,
		ListenerCount: len(metadata.Listeners),
		EventCount:    len(metadata.Events),
	}, nil
}

// compileConditions compiles every -Condition expression in the package and
// collects all failures before reporting, so one run surfaces every bad guard.
func (g *Generator) compileConditions(metadata *models.PackageMetadata) error {
	collection := errors.NewGeneratorErrorCollection()

	for _, listener := range metadata.Listeners {
		if !listener.HasCondition() {
			continue
		}
		if _, err := expr.Compile(listener.Condition); err != nil {
			collection.AddGenerator(errors.NewConditionCompileError(
				listener.StructName,
				listener.Condition,
				listener.FileName,
				listener.Line,
				err,
			))
		}
	}

	if genErr := collection.ToGeneratorError(); genErr != nil {
		return genErr
	}
	return nil
}

// effectiveOrder resolves the order the dispatcher will use for a listener:
// an explicit order wins, a standard priority fills in behind it, and
// everything else runs last.
func effectiveOrder(listener models.ListenerMetadata) int {
	if order, ok := listener.ExplicitOrder(); ok {
		return order
	}
	if priority, ok := listener.StandardPriority(); ok {
		return priority
	}
	return synapse.LowestPrecedence
}

// generateEmptyModule generates an empty module for packages with no annotations
func (g *Generator) generateEmptyModule(metadata *models.PackageMetadata) string {
	return fmt.Sprintf(`// Code generated by synapse. DO NOT EDIT.
// This file was automatically generated and should not be modified manually.

package %s

import "go.uber.org/fx"

// AutogenModule provides an empty module for this package
var AutogenModule = fx.Module("%s")
`, metadata.PackageName, metadata.PackageName)
}
