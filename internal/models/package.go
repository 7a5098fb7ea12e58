package models

// PackageMetadata represents all annotations found in a package
type PackageMetadata struct {
	PackageName string             // name of the Go package
	PackagePath string             // file system path to the package
	ImportPath  string             // Go import path for the package
	Listeners   []ListenerMetadata // all listeners found in the package
	Events      []EventMetadata    // all events found in the package
}

// HasAnnotations reports whether the package declared any listeners or
// events at all.
func (p *PackageMetadata) HasAnnotations() bool {
	return len(p.Listeners) > 0 || len(p.Events) > 0
}

// EventByStructName returns the event declared in this package with the
// given struct name, if any.
func (p *PackageMetadata) EventByStructName(name string) (*EventMetadata, bool) {
	for i := range p.Events {
		if p.Events[i].StructName == name {
			return &p.Events[i], true
		}
	}
	return nil, false
}

// ModuleReference represents a reference to a generated module
type ModuleReference struct {
	PackageName string // name of the package
	PackagePath string // import path for the package
	ModuleName  string // name of the module variable
}
