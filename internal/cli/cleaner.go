package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/synapse/internal/generator"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
	}
}

// CleanGeneratedFiles removes generated registration files from the specified
// directories
func (c *Cleaner) CleanGeneratedFiles(directories []string) error {
	var removedFiles []string

	for _, dir := range directories {
		err := c.cleanDirectory(dir, &removedFiles)
		if err != nil {
			return fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
	}

	return nil
}

// cleanDirectory cleans a single directory, recursively for "/..." patterns
func (c *Cleaner) cleanDirectory(dir string, removedFiles *[]string) error {
	if strings.HasSuffix(dir, "/...") {
		baseDir := strings.TrimSuffix(dir, "/...")
		if baseDir == "." {
			baseDir = ""
		}
		return c.cleanRecursively(baseDir, removedFiles)
	}

	return c.cleanSingleDirectory(dir, removedFiles)
}

// cleanRecursively cleans directories recursively
func (c *Cleaner) cleanRecursively(baseDir string, removedFiles *[]string) error {
	startDir := "."
	if baseDir != "" {
		startDir = baseDir
	}

	return filepath.Walk(startDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories that don't exist or can't be accessed
			return nil
		}

		if info.IsDir() {
			err := c.cleanSingleDirectory(path, removedFiles)
			if err != nil {
				// Keep going; other directories may still be cleanable
				return nil
			}
		}

		return nil
	})
}

// cleanSingleDirectory removes the generated file from a single directory
func (c *Cleaner) cleanSingleDirectory(dir string, removedFiles *[]string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	autogenFile := filepath.Join(dir, generator.GeneratedFileName)

	if _, err := os.Stat(autogenFile); err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, nothing to clean
		}
		return fmt.Errorf("failed to check file %s: %w", autogenFile, err)
	}

	err := os.Remove(autogenFile)
	if err != nil {
		return fmt.Errorf("failed to remove file %s: %w", autogenFile, err)
	}

	*removedFiles = append(*removedFiles, autogenFile)
	return nil
}
