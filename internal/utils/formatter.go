package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"os"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats Go source code using the same logic as gofmt
func FormatGoCode(source []byte) ([]byte, error) {
	return format.Source(source)
}

// FormatGoCodeString formats Go source code and fixes up its import block.
// Generated files assemble import lists from scanned metadata, so running the
// result through goimports also removes any imports a template emitted but the
// final code never used.
func FormatGoCodeString(source string) (string, error) {
	formatted, err := imports.Process("", []byte(source), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		// If goimports fails, try plain formatting before giving up
		plain, fmtErr := format.Source([]byte(source))
		if fmtErr == nil {
			return string(plain), nil
		}

		// Report the parse error when the source is not even valid Go,
		// since that is the actionable one
		fset := token.NewFileSet()
		if _, parseErr := parser.ParseFile(fset, "", source, parser.ParseComments); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w (goimports error: %v)", parseErr, err)
		}
		return source, err
	}
	return string(formatted), nil
}

// FormatAndWriteGoFile formats Go code and writes it to a file, writing the
// unformatted source when formatting fails so the user can inspect it
func FormatAndWriteGoFile(filename string, code string) error {
	formatted, err := FormatGoCodeString(code)
	if err != nil {
		if writeErr := os.WriteFile(filename, []byte(code), 0644); writeErr != nil {
			return fmt.Errorf("failed to write unformatted code to %s: %w (format error: %v)", filename, writeErr, err)
		}
		return fmt.Errorf("failed to format %s: %w", filename, err)
	}

	return os.WriteFile(filename, []byte(formatted), 0644)
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
