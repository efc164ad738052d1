package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Only internal/blob may import the concrete drivers; everything else holds a blob.Store.
func TestOnlyBlobPackageImportsDrivers(t *testing.T) {
	const (
		driverPrefix  = "tailorbook/internal/infra/blob"
		allowedPrefix = "tailorbook/internal/blob"
	)
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "tailorbook/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	var violations []string
	seen := map[string]bool{}
	for _, pkg := range pkgs {
		if strings.HasPrefix(pkg.PkgPath, allowedPrefix) || strings.HasPrefix(pkg.PkgPath, driverPrefix) {
			continue
		}
		for imp := range pkg.Imports {
			if imp != driverPrefix && !strings.HasPrefix(imp, driverPrefix+"/") {
				continue
			}
			v := pkg.PkgPath + " -> " + imp
			if !seen[v] {
				seen[v] = true
				violations = append(violations, v)
			}
		}
	}
	sort.Strings(violations)
	for _, v := range violations {
		t.Errorf("forbidden driver import: %s", v)
	}
}
