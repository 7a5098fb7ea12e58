package models

// EventTypeRef identifies the event struct a listener handles, as it
// appeared in the Handle method signature. Package is the import path of
// the defining package and is empty when the event lives in the same
// package as the listener.
type EventTypeRef struct {
	TypeName    string `json:"type_name"`
	Package     string `json:"package,omitempty"`
	PackageName string `json:"package_name,omitempty"`
	IsPointer   bool   `json:"is_pointer"`
}

// IsLocal reports whether the event type is declared in the listener's
// own package.
func (r EventTypeRef) IsLocal() bool {
	return r.Package == ""
}

// Qualified returns the type name qualified with its package identifier
// when the event is imported, e.g. "events.OrderCreated".
func (r EventTypeRef) Qualified() string {
	if r.IsLocal() || r.PackageName == "" {
		return r.TypeName
	}
	return r.PackageName + "." + r.TypeName
}

// TypeExpr returns the Go type expression used in generated code,
// including the pointer marker when the listener handles a pointer.
func (r EventTypeRef) TypeExpr() string {
	if r.IsPointer {
		return "*" + r.Qualified()
	}
	return r.Qualified()
}
