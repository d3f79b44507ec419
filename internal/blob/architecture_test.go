package blob

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// boundary names an infra tree and the packages allowed to import it.
type boundary struct {
	infra   string
	allowed []string
}

var boundaries = []boundary{
	{
		infra:   "pipelinetracker/internal/infra/blob",
		allowed: []string{"pipelinetracker/internal/blob"},
	},
	{
		infra:   "pipelinetracker/internal/infra/persistence",
		allowed: []string{"pipelinetracker/internal/core"},
	},
}

// TestInfraBehindFacades ensures that infra implementations are reached only
// through their facade: blob stores through internal/blob, record stores
// through core.OpenPersistentStore. Infra packages may import each other.
func TestInfraBehindFacades(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "pipelinetracker/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for _, b := range boundaries {
			if hasPrefix(pkg.PkgPath, b.infra) || allowedImporter(pkg.PkgPath, b.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if isUnder(importPath, b.infra) {
					pos := filepath.Join(pkg.PkgPath, "...")
					seen[pos+": "+importPath] = struct{}{}
				}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of infra package: %s", v)
		}
		t.Fatalf("found %d forbidden infra imports", len(violations))
	}
}

func TestBoundaryMatching(t *testing.T) {
	if !isUnder("pipelinetracker/internal/infra/blob/s3", "pipelinetracker/internal/infra/blob") {
		t.Fatal("nested infra package not matched")
	}
	if isUnder("pipelinetracker/internal/infra/blobby", "pipelinetracker/internal/infra/blob") {
		t.Fatal("sibling with shared prefix matched")
	}
	// External test packages carry a _test suffix.
	if !allowedImporter("pipelinetracker/internal/core_test", []string{"pipelinetracker/internal/core"}) {
		t.Fatal("external test package of an allowed importer rejected")
	}
	if allowedImporter("pipelinetracker/internal/corex", []string{"pipelinetracker/internal/core"}) {
		t.Fatal("unrelated package accepted")
	}
}

func allowedImporter(pkgPath string, allowed []string) bool {
	for _, a := range allowed {
		if hasPrefix(pkgPath, a) {
			return true
		}
	}
	return false
}

func hasPrefix(pkgPath, prefix string) bool {
	return isUnder(strings.TrimSuffix(pkgPath, "_test"), prefix)
}

func isUnder(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
