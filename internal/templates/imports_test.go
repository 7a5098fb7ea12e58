package templates

import (
	"testing"
)

func TestImportManager_GenerateImports(t *testing.T) {
	tests := []struct {
		name     string
		populate func(im *ImportManager)
		expected string
	}{
		{
			name:     "no imports",
			populate: func(im *ImportManager) {},
			expected: "",
		},
		{
			name: "single standard library import",
			populate: func(im *ImportManager) {
				im.AddImport("reflect")
			},
			expected: "import \"reflect\"\n",
		},
		{
			name: "single third party import",
			populate: func(im *ImportManager) {
				im.AddImport("go.uber.org/fx")
			},
			expected: "import \"go.uber.org/fx\"\n",
		},
		{
			name: "standard library before third party",
			populate: func(im *ImportManager) {
				im.AddImport("go.uber.org/fx")
				im.AddImport("reflect")
				im.AddImport("github.com/toyz/synapse/pkg/synapse")
				im.AddImport("context")
			},
			expected: "import (\n" +
				"\t\"context\"\n" +
				"\t\"reflect\"\n" +
				"\n" +
				"\t\"github.com/toyz/synapse/pkg/synapse\"\n" +
				"\t\"go.uber.org/fx\"\n" +
				")\n",
		},
		{
			name: "duplicate imports collapse",
			populate: func(im *ImportManager) {
				im.AddImport("reflect")
				im.AddImport("reflect")
				im.AddImport("context")
			},
			expected: "import (\n" +
				"\t\"context\"\n" +
				"\t\"reflect\"\n" +
				")\n",
		},
		{
			name: "package import with matching identifier needs no alias",
			populate: func(im *ImportManager) {
				im.AddPackageImport("events", "example.com/shop/internal/events")
				im.AddImport("reflect")
			},
			expected: "import (\n" +
				"\t\"reflect\"\n" +
				"\n" +
				"\t\"example.com/shop/internal/events\"\n" +
				")\n",
		},
		{
			name: "package import with differing identifier is aliased",
			populate: func(im *ImportManager) {
				im.AddPackageImport("evt", "example.com/shop/internal/events")
				im.AddImport("reflect")
			},
			expected: "import (\n" +
				"\t\"reflect\"\n" +
				"\n" +
				"\tevt \"example.com/shop/internal/events\"\n" +
				")\n",
		},
		{
			name: "aliased and plain package imports sort together",
			populate: func(im *ImportManager) {
				im.AddPackageImport("evt", "example.com/beta/events")
				im.AddImport("example.com/alpha/events")
			},
			expected: "import (\n" +
				"\t\"example.com/alpha/events\"\n" +
				"\tevt \"example.com/beta/events\"\n" +
				")\n",
		},
		{
			name: "empty paths are ignored",
			populate: func(im *ImportManager) {
				im.AddImport("")
				im.AddPackageImport("evt", "")
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := NewImportManager()
			tt.populate(im)

			result := im.GenerateImports()
			if result != tt.expected {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.expected, result)
			}
		})
	}
}

func TestIsStandardLibraryPath(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"fmt", true},
		{"context", true},
		{"net/http", true},
		{"go/ast", true},
		{"github.com/spf13/cobra", false},
		{"go.uber.org/fx", false},
		{"example.com/shop/internal/events", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := isStandardLibraryPath(tt.path)
			if result != tt.expected {
				t.Errorf("expected %v for %s, got %v", tt.expected, tt.path, result)
			}
		})
	}
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"reflect", "reflect"},
		{"net/http", "http"},
		{"example.com/shop/internal/events", "events"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := lastPathSegment(tt.path)
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}
