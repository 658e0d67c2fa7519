// Package hueforge compiles structured theme markup into the JSON theme
// format the editor loads, and migrates existing JSON themes back into
// editable markup.
package hueforge

import (
	"fmt"
	"io"
	"os"

	"github.com/jsvensson/hueforge/internal/ast"
	"github.com/jsvensson/hueforge/internal/compose"
	"github.com/jsvensson/hueforge/internal/document"
	"github.com/jsvensson/hueforge/internal/hclgen"
	"github.com/jsvensson/hueforge/internal/migrate"
	"github.com/jsvensson/hueforge/internal/schema"
)

// Load parses a theme file into the typed family model. Structural
// problems are reported here; palette resolution happens at compile time.
func Load(path string) (*ast.ThemeFamily, error) {
	root, err := document.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ast.Build(root)
}

// LoadBytes parses theme markup held in memory.
func LoadBytes(filename string, src []byte) (*ast.ThemeFamily, error) {
	root, err := document.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return ast.Build(root)
}

// Compile loads a theme file and produces the serializable JSON model.
func Compile(path string) (*schema.ThemeFamily, error) {
	family, err := Load(path)
	if err != nil {
		return nil, err
	}
	return compileFamily(family)
}

// CompileBytes compiles theme markup held in memory.
func CompileBytes(filename string, src []byte) (*schema.ThemeFamily, error) {
	family, err := LoadBytes(filename, src)
	if err != nil {
		return nil, err
	}
	return compileFamily(family)
}

func compileFamily(family *ast.ThemeFamily) (*schema.ThemeFamily, error) {
	composed, err := compose.Compose(family)
	if err != nil {
		return nil, err
	}
	return schema.FromComposed(composed), nil
}

// Generate compiles a theme file and writes the JSON document to w.
func Generate(path string, w io.Writer) (*schema.ThemeFamily, error) {
	out, err := Compile(path)
	if err != nil {
		return nil, err
	}
	if err := out.Write(w); err != nil {
		return nil, err
	}
	return out, nil
}

// Migrate reads an existing JSON theme family and renders equivalent
// theme markup.
func Migrate(r io.Reader) ([]byte, error) {
	src, err := schema.Read(r)
	if err != nil {
		return nil, err
	}
	family, err := migrate.Migrate(src)
	if err != nil {
		return nil, err
	}
	return hclgen.Render(family), nil
}

// MigrateFile migrates a JSON theme file into theme markup.
func MigrateFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme JSON: %w", err)
	}
	defer f.Close()
	return Migrate(f)
}
