package templates

import (
	"strings"
	"testing"

	"github.com/toyz/synapse/internal/models"
)

func TestGenerateListenerModule_FullPackage(t *testing.T) {
	metadata := &models.PackageMetadata{
		PackageName: "shop",
		PackagePath: "internal/shop",
		Events: []models.EventMetadata{
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "order.created", StructName: "OrderCreated"},
				EventName:         "order.created",
			},
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "payment.settled", StructName: "PaymentSettled"},
				EventName:         "payment.settled",
			},
		},
		Listeners: []models.ListenerMetadata{
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderAuditListener", StructName: "OrderAuditListener"},
				OrderTrait:        models.OrderTrait{Order: 10, HasOrder: true},
				EventType:         models.EventTypeRef{TypeName: "OrderCreated", IsPointer: true},
				MethodName:        "Handle",
				Condition:         "event.Total > 100",
				Constructor:       "NewOrderAuditListener",
			},
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "SettlementListener", StructName: "SettlementListener"},
				PriorityTrait:     models.PriorityTrait{Priority: 5, HasPriority: true},
				EventType:         models.EventTypeRef{TypeName: "PaymentSettled", IsPointer: false},
				MethodName:        "OnPaymentSettled",
				Async:             true,
			},
		},
	}

	content, err := GenerateListenerModule(metadata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(content, "// Code generated by synapse. DO NOT EDIT.\n") {
		t.Errorf("generated file does not start with the DO NOT EDIT header:\n%s", content)
	}

	expectedFragments := []string{
		"package shop",
		"\"context\"",
		"\"reflect\"",
		"\"go.uber.org/fx\"",
		"\"github.com/toyz/synapse/pkg/synapse\"",
		"\"github.com/toyz/synapse/pkg/synapse/priority\"",
		"_ synapse.Event = (*OrderCreated)(nil)",
		"_ synapse.Event = (*PaymentSettled)(nil)",
		"func init() {",
		`synapse.MustRegisterEventType("order.created", reflect.TypeOf(OrderCreated{}))`,
		`synapse.MustRegisterEventType("payment.settled", reflect.TypeOf(PaymentSettled{}))`,
		"synapse.RegisterListenerType(reflect.TypeOf(&OrderAuditListener{}), synapse.ListenerInfo{",
		"EventType: reflect.TypeOf(&OrderCreated{}),",
		"Order: 10,",
		"HasOrder: true,",
		`Condition: synapse.MustCondition("event.Total > 100"),`,
		"return listener.(*OrderAuditListener).Handle(ctx, event.(*OrderCreated))",
		"synapse.RegisterOrder(reflect.TypeOf(&OrderAuditListener{}), 10)",
		"synapse.RegisterListenerType(reflect.TypeOf(&SettlementListener{}), synapse.ListenerInfo{",
		"Async: true,",
		"return listener.(*SettlementListener).OnPaymentSettled(ctx, *event.(*PaymentSettled))",
		"priority.Register(reflect.TypeOf(&SettlementListener{}), 5)",
		"func subscribeListeners(dispatcher *synapse.Dispatcher, orderAuditListener *OrderAuditListener, settlementListener *SettlementListener) error {",
		"if err := dispatcher.Subscribe(orderAuditListener); err != nil {",
		`var AutogenModule = fx.Module("shop",`,
		"fx.Provide(NewOrderAuditListener),",
		"fx.Provide(func() *SettlementListener { return &SettlementListener{} }),",
		"fx.Invoke(subscribeListeners),",
	}

	for _, fragment := range expectedFragments {
		if !strings.Contains(content, fragment) {
			t.Errorf("generated code missing %q\ngenerated:\n%s", fragment, content)
		}
	}
}

func TestGenerateListenerModule_EventsOnly(t *testing.T) {
	metadata := &models.PackageMetadata{
		PackageName: "events",
		PackagePath: "internal/events",
		Events: []models.EventMetadata{
			{
				BaseMetadataTrait: models.BaseMetadataTrait{Name: "order.created", StructName: "OrderCreated"},
				EventName:         "order.created",
			},
		},
	}

	content, err := GenerateListenerModule(metadata)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedFragments := []string{
		"package events",
		"\"reflect\"",
		"\"github.com/toyz/synapse/pkg/synapse\"",
		"_ synapse.Event = (*OrderCreated)(nil)",
		`synapse.MustRegisterEventType("order.created", reflect.TypeOf(OrderCreated{}))`,
		`var AutogenModule = fx.Module("events")`,
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(content, fragment) {
			t.Errorf("generated code missing %q\ngenerated:\n%s", fragment, content)
		}
	}

	unexpectedFragments := []string{
		"\"context\"",
		"subscribeListeners",
		"priority.Register",
	}
	for _, fragment := range unexpectedFragments {
		if strings.Contains(content, fragment) {
			t.Errorf("generated code should not contain %q\ngenerated:\n%s", fragment, content)
		}
	}
}

func TestGenerateListenerModule_ImportedEventTypes(t *testing.T) {
	tests := []struct {
		name              string
		eventType         models.EventTypeRef
		expectedImport    string
		expectedInvoker   string
		expectedEventType string
	}{
		{
			name: "plain package identifier",
			eventType: models.EventTypeRef{
				TypeName:    "OrderCreated",
				Package:     "example.com/shop/internal/events",
				PackageName: "events",
				IsPointer:   true,
			},
			expectedImport:    "\t\"example.com/shop/internal/events\"\n",
			expectedInvoker:   "return listener.(*AuditListener).Handle(ctx, event.(*events.OrderCreated))",
			expectedEventType: "EventType: reflect.TypeOf(&events.OrderCreated{}),",
		},
		{
			name: "aliased import",
			eventType: models.EventTypeRef{
				TypeName:    "OrderCreated",
				Package:     "example.com/shop/internal/events",
				PackageName: "evt",
				IsPointer:   true,
			},
			expectedImport:    "\tevt \"example.com/shop/internal/events\"\n",
			expectedInvoker:   "return listener.(*AuditListener).Handle(ctx, event.(*evt.OrderCreated))",
			expectedEventType: "EventType: reflect.TypeOf(&evt.OrderCreated{}),",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := &models.PackageMetadata{
				PackageName: "audit",
				PackagePath: "internal/audit",
				Listeners: []models.ListenerMetadata{
					{
						BaseMetadataTrait: models.BaseMetadataTrait{Name: "AuditListener", StructName: "AuditListener"},
						EventType:         tt.eventType,
						MethodName:        "Handle",
					},
				},
			}

			content, err := GenerateListenerModule(metadata)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, fragment := range []string{tt.expectedImport, tt.expectedInvoker, tt.expectedEventType} {
				if !strings.Contains(content, fragment) {
					t.Errorf("generated code missing %q\ngenerated:\n%s", fragment, content)
				}
			}
		})
	}
}

func TestGenerateListenerModule_NilMetadata(t *testing.T) {
	_, err := GenerateListenerModule(nil)
	if err == nil {
		t.Fatal("expected error for nil metadata")
	}
	if !strings.Contains(err.Error(), "metadata cannot be nil") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGenerateInitFunction_MinimalListener(t *testing.T) {
	data := ListenerModuleData{
		PackageName: "ping",
		Listeners: []ListenerTemplateData{
			{
				StructName:     "PlainListener",
				VarName:        "plainListener",
				MethodName:     "Handle",
				EventQualified: "Ping",
			},
		},
	}

	content, err := GenerateInitFunction(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `func init() {
	synapse.RegisterListenerType(reflect.TypeOf(&PlainListener{}), synapse.ListenerInfo{
		EventType: reflect.TypeOf(&Ping{}),
		Invoke: func(listener any, ctx context.Context, event synapse.Event) error {
			return listener.(*PlainListener).Handle(ctx, event.(*Ping))
		},
	})
}`
	if content != expected {
		t.Errorf("generated init function does not match.\nexpected:\n%s\ngot:\n%s", expected, content)
	}
}

func TestGenerateInitFunction_Empty(t *testing.T) {
	content, err := GenerateInitFunction(ListenerModuleData{PackageName: "empty"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "" {
		t.Errorf("expected no init function for empty package, got:\n%s", content)
	}
}

func TestGenerateSubscribeFunction(t *testing.T) {
	data := ListenerModuleData{
		PackageName: "shop",
		Listeners: []ListenerTemplateData{
			{StructName: "FirstListener", VarName: "firstListener"},
			{StructName: "SecondListener", VarName: "secondListener"},
		},
	}

	content, err := GenerateSubscribeFunction(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `// subscribeListeners wires every listener in this package into the dispatcher
func subscribeListeners(dispatcher *synapse.Dispatcher, firstListener *FirstListener, secondListener *SecondListener) error {
	if err := dispatcher.Subscribe(firstListener); err != nil {
		return err
	}
	if err := dispatcher.Subscribe(secondListener); err != nil {
		return err
	}
	return nil
}`
	if content != expected {
		t.Errorf("generated subscribe function does not match.\nexpected:\n%s\ngot:\n%s", expected, content)
	}
}

func TestGenerateModuleVariable(t *testing.T) {
	tests := []struct {
		name     string
		data     ListenerModuleData
		expected string
	}{
		{
			name: "constructor and inline providers",
			data: ListenerModuleData{
				PackageName: "shop",
				Listeners: []ListenerTemplateData{
					{StructName: "AuditListener", VarName: "auditListener", Constructor: "NewAuditListener"},
					{StructName: "PlainListener", VarName: "plainListener"},
				},
			},
			expected: `// AutogenModule provides all listeners in this package and subscribes them
// when the application starts
var AutogenModule = fx.Module("shop",
	fx.Provide(NewAuditListener),
	fx.Provide(func() *PlainListener { return &PlainListener{} }),
	fx.Invoke(subscribeListeners),
)`,
		},
		{
			name: "events only",
			data: ListenerModuleData{PackageName: "events"},
			expected: `// AutogenModule provides an empty module; this package only declares events
var AutogenModule = fx.Module("events")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := GenerateModuleVariable(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if content != tt.expected {
				t.Errorf("generated module variable does not match.\nexpected:\n%s\ngot:\n%s", tt.expected, content)
			}
		})
	}
}

func TestConditionLiteral(t *testing.T) {
	utils := NewTemplateUtils()

	tests := []struct {
		name      string
		condition string
		expected  string
	}{
		{
			name:      "empty condition",
			condition: "",
			expected:  "",
		},
		{
			name:      "simple comparison",
			condition: "event.Total > 100",
			expected:  `"event.Total > 100"`,
		},
		{
			name:      "single quoted string operand",
			condition: "event.Status == 'paid'",
			expected:  `"event.Status == 'paid'"`,
		},
		{
			name:      "double quotes are escaped",
			condition: `event.Status == "paid"`,
			expected:  `"event.Status == \"paid\""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := utils.ConditionLiteral(tt.condition)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConvertListener(t *testing.T) {
	listener := models.ListenerMetadata{
		BaseMetadataTrait: models.BaseMetadataTrait{Name: "OrderAuditListener", StructName: "OrderAuditListener"},
		OrderTrait:        models.OrderTrait{Order: -5, HasOrder: true},
		PriorityTrait:     models.PriorityTrait{Priority: 3, HasPriority: true},
		EventType: models.EventTypeRef{
			TypeName:    "OrderCreated",
			Package:     "example.com/shop/internal/events",
			PackageName: "events",
			IsPointer:   false,
		},
		MethodName:  "Handle",
		Async:       true,
		Condition:   "event.Total > 100",
		Constructor: "NewOrderAuditListener",
	}

	data := DefaultTemplateUtils.ConvertListener(listener)

	if data.StructName != "OrderAuditListener" {
		t.Errorf("expected struct name OrderAuditListener, got %s", data.StructName)
	}
	if data.VarName != "orderAuditListener" {
		t.Errorf("expected var name orderAuditListener, got %s", data.VarName)
	}
	if data.EventQualified != "events.OrderCreated" {
		t.Errorf("expected qualified event events.OrderCreated, got %s", data.EventQualified)
	}
	if !data.Dereference {
		t.Error("expected value-parameter handler to dereference")
	}
	if data.Order != -5 || !data.HasOrder {
		t.Errorf("expected order -5 set, got %d (set=%v)", data.Order, data.HasOrder)
	}
	if data.Priority != 3 || !data.HasPriority {
		t.Errorf("expected priority 3 set, got %d (set=%v)", data.Priority, data.HasPriority)
	}
	if !data.Async {
		t.Error("expected async listener")
	}
	if data.ConditionLit != `"event.Total > 100"` {
		t.Errorf("unexpected condition literal: %s", data.ConditionLit)
	}
	if data.Constructor != "NewOrderAuditListener" {
		t.Errorf("expected constructor NewOrderAuditListener, got %s", data.Constructor)
	}
}
