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

// layerRule forbids packages under prefix from importing any of deny. Module
// relative entries are expanded with the module path; others are used as is.
type layerRule struct {
	prefix string
	deny   []string
}

var layerRules = []layerRule{
	{prefix: "internal/ordinal/", deny: []string{"internal/", "gorm.io/"}},
	{prefix: "internal/authz/", deny: []string{"internal/data/", "internal/http/", "internal/services/", "internal/app/", "gorm.io/"}},
	{prefix: "internal/domain/", deny: []string{"internal/data/", "internal/http/", "internal/services/", "internal/session/", "internal/app/"}},
	{prefix: "internal/platform/", deny: []string{"internal/data/", "internal/domain/", "internal/http/", "internal/services/", "internal/app/"}},
	{prefix: "internal/data/", deny: []string{"internal/http/", "internal/services/", "internal/session/", "internal/app/"}},
	{prefix: "internal/session/", deny: []string{"internal/data/", "internal/http/", "internal/services/", "internal/app/"}},
	{prefix: "internal/services/", deny: []string{"internal/data/aggregates/", "internal/data/db/", "internal/http/", "internal/app/"}},
	// Handlers reach storage only through aggregates and services.
	{prefix: "internal/http/", deny: []string{"internal/data/aggregates/", "internal/data/db/", "internal/app/", "gorm.io/"}},
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)
	fset := token.NewFileSet()

	var violations []string
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		deny := denyListFor(modulePath, rel)
		if len(deny) == 0 {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			for _, bad := range deny {
				if strings.HasPrefix(imp, bad) {
					violations = append(violations, fmt.Sprintf("- %s imports %q (disallowed: %q)", rel, imp, bad))
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

// Every internal package must be reachable from somewhere other than itself,
// so orphaned packages show up here instead of lingering.
func TestNoOrphanPackages(t *testing.T) {
	root, modulePath := moduleRoot(t)
	fset := token.NewFileSet()

	pkgs := map[string]bool{}
	imported := map[string]bool{}
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, _ := filepath.Rel(root, filepath.Dir(path))
		pkg := modulePath + "/" + filepath.ToSlash(rel)
		if !strings.HasSuffix(path, "_test.go") {
			pkgs[pkg] = true
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if imp, err := strconv.Unquote(spec.Path.Value); err == nil && imp != pkg {
				imported[imp] = true
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	var orphans []string
	for pkg := range pkgs {
		if !imported[pkg] && !strings.HasSuffix(pkg, "/internal/app") {
			orphans = append(orphans, pkg)
		}
	}
	if len(orphans) > 0 {
		t.Fatalf("packages imported by nothing: %v", orphans)
	}
}

func denyListFor(modulePath, rel string) []string {
	for _, r := range layerRules {
		if !strings.HasPrefix(rel, r.prefix) {
			continue
		}
		out := make([]string, 0, len(r.deny))
		for _, d := range r.deny {
			if strings.HasPrefix(d, "internal/") {
				d = modulePath + "/" + d
			}
			out = append(out, d)
		}
		return out
	}
	return nil
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
		if mp, ok := strings.CutPrefix(line, "module "); ok {
			if mp = strings.TrimSpace(mp); mp != "" {
				return mp, nil
			}
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
