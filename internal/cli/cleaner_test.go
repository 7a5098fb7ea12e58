package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "synapse_cleaner_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	listenersDir := filepath.Join(tempDir, "listeners")
	eventsDir := filepath.Join(tempDir, "events")
	require.NoError(t, os.MkdirAll(listenersDir, 0755))
	require.NoError(t, os.MkdirAll(eventsDir, 0755))

	listenersAutogen := filepath.Join(listenersDir, "autogen_listeners.go")
	eventsAutogen := filepath.Join(eventsDir, "autogen_listeners.go")
	handWritten := filepath.Join(listenersDir, "order_listener.go")

	require.NoError(t, os.WriteFile(listenersAutogen, []byte("package listeners"), 0644))
	require.NoError(t, os.WriteFile(eventsAutogen, []byte("package events"), 0644))
	require.NoError(t, os.WriteFile(handWritten, []byte("package listeners"), 0644))

	cleaner := NewCleaner()

	t.Run("clean single directory", func(t *testing.T) {
		require.NoError(t, cleaner.CleanGeneratedFiles([]string{listenersDir}))

		assert.NoFileExists(t, listenersAutogen)
		assert.FileExists(t, handWritten)
		// Other directories are untouched
		assert.FileExists(t, eventsAutogen)
	})

	t.Run("clean recursively with pattern", func(t *testing.T) {
		// Recreate the removed file so both directories have one again
		require.NoError(t, os.WriteFile(listenersAutogen, []byte("package listeners"), 0644))

		originalDir, err := os.Getwd()
		require.NoError(t, err)
		defer os.Chdir(originalDir)
		require.NoError(t, os.Chdir(tempDir))

		require.NoError(t, cleaner.CleanGeneratedFiles([]string{"./..."}))

		assert.NoFileExists(t, listenersAutogen)
		assert.NoFileExists(t, eventsAutogen)
		assert.FileExists(t, handWritten)
	})

	t.Run("nonexistent directory is not an error", func(t *testing.T) {
		require.NoError(t, cleaner.CleanGeneratedFiles([]string{filepath.Join(tempDir, "missing")}))
	})
}
