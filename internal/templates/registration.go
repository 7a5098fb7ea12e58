package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/synapse/internal/models"
)

// EventTemplateData carries one annotated event's registration fields
type EventTemplateData struct {
	StructName string
	EventName  string
}

// ListenerTemplateData carries one listener's registration fields
type ListenerTemplateData struct {
	StructName     string
	VarName        string // parameter name in the generated wiring function
	MethodName     string
	EventQualified string // event type as referenced from the generated file
	Dereference    bool   // handler takes the event by value
	Order          int
	HasOrder       bool
	Priority       int
	HasPriority    bool
	Async          bool
	ConditionLit   string // Go string literal of the guard source, empty when none
	Constructor    string // declared constructor name, empty when the provider is inlined
}

// ListenerModuleData is the root template payload for one generated file
type ListenerModuleData struct {
	PackageName string
	Events      []EventTemplateData
	Listeners   []ListenerTemplateData
}

// HasListeners reports whether the package declared any listeners
func (d ListenerModuleData) HasListeners() bool {
	return len(d.Listeners) > 0
}

// HasEvents reports whether the package declared any events
func (d ListenerModuleData) HasEvents() bool {
	return len(d.Events) > 0
}

// BuildListenerModuleData converts scanned package metadata into the
// template payload, preserving the metadata's declaration order
func BuildListenerModuleData(metadata *models.PackageMetadata) ListenerModuleData {
	data := ListenerModuleData{
		PackageName: metadata.PackageName,
	}

	for _, event := range metadata.Events {
		data.Events = append(data.Events, DefaultTemplateUtils.ConvertEvent(event))
	}
	for _, listener := range metadata.Listeners {
		data.Listeners = append(data.Listeners, DefaultTemplateUtils.ConvertListener(listener))
	}

	return data
}

// GenerateEventAssertions generates the compile-time interface checks for
// the package's annotated events
func GenerateEventAssertions(data ListenerModuleData) (string, error) {
	if !data.HasEvents() {
		return "", nil
	}
	return executeTemplate("event-assertions", DefaultTemplateRegistry.MustGet("event-assertions"), data)
}

// GenerateEventRegistration generates the init-time name registration for
// one annotated event
func GenerateEventRegistration(event EventTemplateData) (string, error) {
	return executeTemplate("event-registration", DefaultTemplateRegistry.MustGet("event-registration"), event)
}

// GenerateListenerRegistration generates the init-time side-table
// registration for one listener, including its order, priority and
// condition entries when present
func GenerateListenerRegistration(listener ListenerTemplateData) (string, error) {
	return executeTemplate("listener-registration", DefaultTemplateRegistry.MustGet("listener-registration"), listener)
}

// GenerateInitFunction generates the init function that populates the
// runtime registries, or nothing when the package registers nothing
func GenerateInitFunction(data ListenerModuleData) (string, error) {
	if !data.HasEvents() && !data.HasListeners() {
		return "", nil
	}

	var builder strings.Builder
	builder.WriteString("func init() {\n")

	for _, event := range data.Events {
		line, err := GenerateEventRegistration(event)
		if err != nil {
			return "", fmt.Errorf("failed to generate registration for event %s: %w", event.StructName, err)
		}
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	for i, listener := range data.Listeners {
		if data.HasEvents() || i > 0 {
			builder.WriteString("\n")
		}
		block, err := GenerateListenerRegistration(listener)
		if err != nil {
			return "", fmt.Errorf("failed to generate registration for listener %s: %w", listener.StructName, err)
		}
		builder.WriteString(block)
		builder.WriteString("\n")
	}

	builder.WriteString("}")
	return builder.String(), nil
}

// GenerateSubscribeFunction generates the fx.Invoke target that subscribes
// every provided listener to the dispatcher
func GenerateSubscribeFunction(data ListenerModuleData) (string, error) {
	if !data.HasListeners() {
		return "", nil
	}
	return executeTemplate("subscribe-function", DefaultTemplateRegistry.MustGet("subscribe-function"), data)
}

// GenerateModuleVariable generates the AutogenModule fx.Module declaration.
// Packages with listeners provide each one, through its declared
// constructor when the scanner found a NewX, inline otherwise.
func GenerateModuleVariable(data ListenerModuleData) (string, error) {
	if !data.HasListeners() {
		return executeTemplate("event-module", DefaultTemplateRegistry.MustGet("event-module"), data)
	}
	return executeTemplate("listener-module", DefaultTemplateRegistry.MustGet("listener-module"), data)
}
