package models

// GeneratedModule represents a generated listener registration file
type GeneratedModule struct {
	PackageName   string // name of the package
	FilePath      string // path where the generated file should be written
	Content       string // generated Go code content
	ListenerCount int    // listeners registered by this module
	EventCount    int    // events registered by this module
}
