package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layers lists, per package prefix, the internal packages it must not import.
// Dependencies point inward: http, services, data/aggregates, modules,
// data/repos, domain, platform.
var layers = []struct {
	prefix     string
	disallowed []string
}{
	{"internal/platform/", []string{"internal/domain/", "internal/modules/", "internal/data/", "internal/services/", "internal/http/", "internal/app/", "internal/realtime/"}},
	{"internal/domain/", []string{"internal/modules/", "internal/data/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/modules/", []string{"internal/data/aggregates", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/data/", []string{"internal/services/", "internal/http/", "internal/app/", "internal/realtime/"}},
	{"internal/realtime/", []string{"internal/data/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/services/", []string{"internal/http/", "internal/app/"}},
	// Handlers reach storage only through services.
	{"internal/http/", []string{"internal/data/", "internal/app/"}},
}

type violation struct {
	file string
	imp  string
	rule string
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)

	violations := walkImports(t, root, func(rel, imp string) string {
		for _, l := range layers {
			if !strings.HasPrefix(rel, l.prefix) {
				continue
			}
			for _, bad := range l.disallowed {
				if strings.HasPrefix(imp, modulePath+"/"+bad) {
					return bad
				}
			}
		}
		return ""
	})
	report(t, "import boundary violations", violations)
}

// Production code never imports test fixtures.
func TestTestutilOnlyFromTests(t *testing.T) {
	root, modulePath := moduleRoot(t)

	violations := walkImports(t, root, func(rel, imp string) string {
		if strings.HasSuffix(rel, "_test.go") || strings.Contains(rel, "/testutil/") {
			return ""
		}
		if strings.HasPrefix(imp, modulePath+"/internal/") && strings.HasSuffix(imp, "/testutil") {
			return "testutil"
		}
		return ""
	})
	report(t, "testutil imported from production code", violations)
}

func walkImports(t *testing.T, root string, check func(rel, imp string) string) []violation {
	t.Helper()
	fset := token.NewFileSet()
	var out []violation

	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "testdata":
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			if rule := check(rel, imp); rule != "" {
				out = append(out, violation{file: rel, imp: imp, rule: rule})
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return out
}

func report(t *testing.T, title string, violations []violation) {
	t.Helper()
	if len(violations) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString(title + ":\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- %s imports %q (rule: %q)\n", v.file, v.imp, v.rule)
	}
	t.Fatal(b.String())
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found from %s", start)
		}
		dir = parent
	}
	modulePath, err := readModulePath(filepath.Join(dir, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return dir, modulePath
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
