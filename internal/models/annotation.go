package models

import "github.com/toyz/synapse/internal/annotations"

// Annotation represents a parsed annotation attached to a declaration in
// source code, carrying the declaration site alongside the parsed form.
type Annotation struct {
	*annotations.ParsedAnnotation
	FileName string // name of the file containing this annotation
	Line     int    // line number of the annotated declaration
}
