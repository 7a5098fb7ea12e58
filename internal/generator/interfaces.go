package generator

import "github.com/toyz/synapse/internal/models"

// CodeGenerator defines the interface for turning scanned package metadata
// into listener registration files
type CodeGenerator interface {
	GenerateModule(metadata *models.PackageMetadata) (*models.GeneratedModule, error)
}
