package parser

import (
	"go/ast"

	"github.com/toyz/synapse/internal/models"
)

// AnnotationParser defines the interface for scanning Go source files and extracting annotation metadata
type AnnotationParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	ExtractAnnotations(file *ast.File, fileName string) ([]models.Annotation, error)
}
