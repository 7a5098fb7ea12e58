package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleResolver_ResolveModuleName(t *testing.T) {
	resolver := NewModuleResolver()

	t.Run("custom module name provided", func(t *testing.T) {
		customModule := "github.com/custom/module"
		result, err := resolver.ResolveModuleName(customModule)
		require.NoError(t, err)
		assert.Equal(t, customModule, result)
	})

	t.Run("read from go.mod file", func(t *testing.T) {
		// Create temporary directory with go.mod
		tempDir, err := os.MkdirTemp("", "synapse_resolver_test")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		goModContent := `module github.com/example/testapp

go 1.21

require (
	go.uber.org/fx v1.20.0
)
`
		goModPath := filepath.Join(tempDir, "go.mod")
		require.NoError(t, os.WriteFile(goModPath, []byte(goModContent), 0644))

		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(tempDir))

		result, err := resolver.ResolveModuleName("")
		require.NoError(t, err)
		assert.Equal(t, "github.com/example/testapp", result)
	})

	t.Run("go.mod in parent directory", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "synapse_resolver_parent_test")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		goModPath := filepath.Join(tempDir, "go.mod")
		require.NoError(t, os.WriteFile(goModPath, []byte("module github.com/example/nested\n"), 0644))

		subDir := filepath.Join(tempDir, "internal", "listeners")
		require.NoError(t, os.MkdirAll(subDir, 0755))

		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(subDir))

		result, err := resolver.ResolveModuleName("")
		require.NoError(t, err)
		assert.Equal(t, "github.com/example/nested", result)
	})

	t.Run("no go.mod file found", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "synapse_resolver_nomod_test")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(tempDir))

		_, err = resolver.ResolveModuleName("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "go.mod file not found")
		assert.Contains(t, err.Error(), "-module flag")
	})
}

func TestModuleResolver_BuildPackagePath(t *testing.T) {
	resolver := NewModuleResolver()

	currentDir, err := os.Getwd()
	require.NoError(t, err)

	testCases := []struct {
		name       string
		moduleName string
		packageDir string
		expected   string
	}{
		{
			name:       "current directory",
			moduleName: "github.com/example/app",
			packageDir: ".",
			expected:   "github.com/example/app",
		},
		{
			name:       "subdirectory",
			moduleName: "github.com/example/app",
			packageDir: "internal/listeners",
			expected:   "github.com/example/app/internal/listeners",
		},
		{
			name:       "nested subdirectory",
			moduleName: "github.com/example/app",
			packageDir: "internal/events/billing",
			expected:   "github.com/example/app/internal/events/billing",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var packageDir string
			if tc.packageDir == "." {
				packageDir = currentDir
			} else {
				packageDir = filepath.Join(currentDir, tc.packageDir)
			}

			result, err := resolver.BuildPackagePath(tc.moduleName, packageDir)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}

	t.Run("absolute path", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "synapse_buildpath_test")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(tempDir))

		subDir := filepath.Join(tempDir, "internal", "listeners")
		require.NoError(t, os.MkdirAll(subDir, 0755))

		result, err := resolver.BuildPackagePath("github.com/example/app", subDir)
		require.NoError(t, err)
		assert.Equal(t, "github.com/example/app/internal/listeners", result)
	})
}
