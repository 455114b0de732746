// Package codestyle_test enforces repository-wide conventions by parsing
// every Go source file of the module.
package codestyle_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"
)

// projectRoot returns the module root by walking up to go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	for {
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find module root (no go.mod found)")
		}

		dir = parent
	}
}

// skipDir reports directories that hold no module sources.
func skipDir(name string) bool {
	switch name {
	case "vendor", "testdata", ".git", "node_modules", "templates":
		return true
	default:
		// The go tool ignores directories starting with "_" or ".".
		return strings.HasPrefix(name, "_") || (strings.HasPrefix(name, ".") && name != ".")
	}
}

// sourceFile is one parsed non-test Go file.
type sourceFile struct {
	Rel  string
	File *ast.File
}

// parseSources parses every non-test Go file under root.
func parseSources(t *testing.T, root string) []sourceFile {
	t.Helper()

	var files []sourceFile

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && skipDir(info.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		parsed, parseErr := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
		if parseErr != nil {
			return fmt.Errorf("parsing %s: %w", path, parseErr)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relative path of %s: %w", path, relErr)
		}

		files = append(files, sourceFile{Rel: filepath.ToSlash(rel), File: parsed})

		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	if len(files) == 0 {
		t.Fatal("no Go sources found")
	}

	return files
}

func report(t *testing.T, what string, violations []string) {
	t.Helper()

	if len(violations) > 0 {
		t.Errorf("found %d %s:\n\n%s", len(violations), what, strings.Join(violations, "\n\n"))
	}
}

// bannedFilenames maps grab-bag file names to the fix for them.
var bannedFilenames = map[string]string{
	"types.go":     "move each type next to the code that uses it",
	"utils.go":     "move each function to the file that owns its domain",
	"helpers.go":   "move each function to the file that owns its domain",
	"common.go":    "move each symbol to the file that owns its concept",
	"constants.go": "declare constants where they are used",
	"errors.go":    "declare sentinel errors next to the functions returning them",
}

func TestNoBannedFilenames(t *testing.T) {
	t.Parallel()

	var violations []string

	for _, src := range parseSources(t, projectRoot(t)) {
		if fix, banned := bannedFilenames[filepath.Base(src.Rel)]; banned {
			violations = append(violations, fmt.Sprintf("VIOLATION: %s\n  Fix: %s", src.Rel, fix))
		}
	}

	report(t, "banned filename(s)", violations)
}

// maxInterfaceMethods bounds interfaces; consumers declare what they call.
const maxInterfaceMethods = 5

func TestNoFatInterfaces(t *testing.T) {
	t.Parallel()

	var violations []string

	for _, src := range parseSources(t, projectRoot(t)) {
		ast.Inspect(src.File, func(n ast.Node) bool {
			spec, ok := n.(*ast.TypeSpec)
			if !ok {
				return true
			}

			iface, ok := spec.Type.(*ast.InterfaceType)
			if !ok {
				return true
			}

			methods := 0

			for _, m := range iface.Methods.List {
				if _, isFunc := m.Type.(*ast.FuncType); isFunc {
					methods++
				}
			}

			if methods > maxInterfaceMethods {
				violations = append(violations, fmt.Sprintf(
					"VIOLATION: interface %s in %s has %d methods (max %d)\n  Fix: split it into smaller interfaces",
					spec.Name.Name, src.Rel, methods, maxInterfaceMethods))
			}

			return true
		})
	}

	report(t, "fat interface(s)", violations)
}

// stutters reports whether exportedName repeats pkgName as a CamelCase
// prefix, returning the name without it.
func stutters(pkgName, exportedName string) (string, bool) {
	titled := strings.ToUpper(pkgName[:1]) + pkgName[1:]

	rest, ok := strings.CutPrefix(exportedName, titled)
	if !ok || rest == "" {
		return "", false
	}

	first := rune(rest[0])

	return rest, unicode.IsUpper(first) || unicode.IsDigit(first)
}

func TestStutters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pkg, name, rest string
		want            bool
	}{
		{"chart", "ChartHandle", "Handle", true},
		{"config", "Config", "", false},
		{"widgets", "Widget", "", false},
		{"cache", "Snapshots", "", false},
		{"board", "Boards", "s", false},
	}

	for _, tc := range cases {
		rest, got := stutters(tc.pkg, tc.name)
		if got != tc.want || rest != tc.rest {
			t.Errorf("stutters(%q, %q) = (%q, %v), want (%q, %v)", tc.pkg, tc.name, rest, got, tc.rest, tc.want)
		}
	}
}

func TestNoStutteringExports(t *testing.T) {
	t.Parallel()

	var violations []string

	for _, src := range parseSources(t, projectRoot(t)) {
		pkg := strings.ToLower(src.File.Name.Name)

		for _, decl := range src.File.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				name := spec.(*ast.TypeSpec).Name.Name
				if !ast.IsExported(name) {
					continue
				}

				if rest, stutter := stutters(pkg, name); stutter {
					violations = append(violations, fmt.Sprintf(
						"VIOLATION: %s.%s in %s stutters\n  Fix: rename it to %s", pkg, name, src.Rel, rest))
				}
			}
		}
	}

	report(t, "stuttering export(s)", violations)
}

func TestPackagesDocumented(t *testing.T) {
	t.Parallel()

	documented := make(map[string]bool)

	for _, src := range parseSources(t, projectRoot(t)) {
		dir := filepath.Dir(src.Rel)
		documented[dir] = documented[dir] || src.File.Doc != nil
	}

	var violations []string

	for dir, ok := range documented {
		if !ok {
			violations = append(violations, fmt.Sprintf(
				"VIOLATION: package in %s has no doc comment\n  Fix: add a \"// Package ...\" comment to one file", dir))
		}
	}

	report(t, "undocumented package(s)", violations)
}

// processCalls are calls that only commands may make: libraries return errors
// and log through slog.
var processCalls = map[string]map[string]bool{
	"fmt": {"Print": true, "Printf": true, "Println": true},
	"os":  {"Exit": true},
	"log": {"Fatal": true, "Fatalf": true, "Fatalln": true, "Print": true, "Printf": true, "Println": true},
}

func TestLibrariesDoNotPrint(t *testing.T) {
	t.Parallel()

	var violations []string

	for _, src := range parseSources(t, projectRoot(t)) {
		if !strings.HasPrefix(src.Rel, "pkg/") {
			continue
		}

		ast.Inspect(src.File, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			ident, ok := sel.X.(*ast.Ident)
			if ok && processCalls[ident.Name][sel.Sel.Name] {
				violations = append(violations, fmt.Sprintf(
					"VIOLATION: %s calls %s.%s\n  Fix: return an error or log through slog", src.Rel, ident.Name, sel.Sel.Name))
			}

			return true
		})
	}

	report(t, "process call(s) in library packages", violations)
}
