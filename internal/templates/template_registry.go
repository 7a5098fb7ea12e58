package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerRegistrationTemplates()
	registry.registerModuleTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerRegistrationTemplates registers the init-time registration templates
func (tr *TemplateRegistry) registerRegistrationTemplates() {
	// Interface assertions for annotated event structs. The scanner checks
	// embedding textually; this line makes the compiler confirm it.
	tr.templates["event-assertions"] = `// Compile-time checks that annotated events satisfy the event interface
var (
{{range .Events}}	_ synapse.Event = (*{{.StructName}})(nil)
{{end}})`

	// Event name registration, one line per annotated event
	tr.templates["event-registration"] = `	synapse.MustRegisterEventType("{{.EventName}}", reflect.TypeOf({{.StructName}}{}))`

	// Listener side-table registration. The invoker references the handler
	// method and the event type directly, so a signature that drifts after
	// generation fails to compile instead of misdispatching.
	tr.templates["listener-registration"] = `	synapse.RegisterListenerType(reflect.TypeOf(&{{.StructName}}{}), synapse.ListenerInfo{
		EventType: reflect.TypeOf(&{{.EventQualified}}{}),
{{- if .HasOrder}}
		Order: {{.Order}},
		HasOrder: true,
{{- end}}
{{- if .Async}}
		Async: true,
{{- end}}
{{- if .ConditionLit}}
		Condition: synapse.MustCondition({{.ConditionLit}}),
{{- end}}
		Invoke: func(listener any, ctx context.Context, event synapse.Event) error {
			return listener.(*{{.StructName}}).{{.MethodName}}(ctx, {{if .Dereference}}*{{end}}event.(*{{.EventQualified}}))
		},
	})
{{- if .HasOrder}}
	synapse.RegisterOrder(reflect.TypeOf(&{{.StructName}}{}), {{.Order}})
{{- end}}
{{- if .HasPriority}}
	priority.Register(reflect.TypeOf(&{{.StructName}}{}), {{.Priority}})
{{- end}}`
}

// registerModuleTemplates registers the fx wiring templates
func (tr *TemplateRegistry) registerModuleTemplates() {
	tr.templates["subscribe-function"] = `// subscribeListeners wires every listener in this package into the dispatcher
func subscribeListeners(dispatcher *synapse.Dispatcher{{range .Listeners}}, {{.VarName}} *{{.StructName}}{{end}}) error {
{{range .Listeners}}	if err := dispatcher.Subscribe({{.VarName}}); err != nil {
		return err
	}
{{end}}	return nil
}`

	tr.templates["listener-module"] = `// AutogenModule provides all listeners in this package and subscribes them
// when the application starts
var AutogenModule = fx.Module("{{.PackageName}}",
{{range .Listeners}}{{if .Constructor}}	fx.Provide({{.Constructor}}),
{{else}}	fx.Provide(func() *{{.StructName}} { return &{{.StructName}}{} }),
{{end}}{{end}}	fx.Invoke(subscribeListeners),
)`

	tr.templates["event-module"] = `// AutogenModule provides an empty module; this package only declares events
var AutogenModule = fx.Module("{{.PackageName}}")`
}

// Global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
