package dependency

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/models"
)

var standardPrefixes = []string{"java.", "javax.", "jakarta."}

// Analyze classifies the active import statements of content. Imports under
// basePackage are local; commented-out imports are ignored.
func Analyze(content, basePackage string) models.DependencyAnalysis {
	var analysis models.DependencyAnalysis

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(text, "import ") {
			continue
		}
		stmt := strings.TrimPrefix(text, "import ")
		end := strings.IndexByte(stmt, ';')
		if end < 0 {
			continue
		}
		stmt = strings.TrimSpace(stmt[:end])

		static := false
		if rest, ok := strings.CutPrefix(stmt, "static "); ok {
			static = true
			stmt = strings.TrimSpace(rest)
		}

		switch {
		case basePackage != "" && inPackage(stmt, basePackage):
			analysis.LocalImports = append(analysis.LocalImports, models.LocalDependency{
				ImportPath: stmt,
				Line:       line,
				Static:     static,
			})
		case isStandard(stmt):
			analysis.StandardLibImports = append(analysis.StandardLibImports, stmt)
		default:
			analysis.ExternalImports = append(analysis.ExternalImports, stmt)
		}
	}
	return analysis
}

// Foreign returns the local imports that fall outside every owned package.
func Foreign(analysis models.DependencyAnalysis, owned []string) []models.LocalDependency {
	var foreign []models.LocalDependency
	for _, dep := range analysis.LocalImports {
		ok := false
		for _, pkg := range owned {
			if inPackage(dep.ImportPath, pkg) {
				ok = true
				break
			}
		}
		if !ok {
			foreign = append(foreign, dep)
		}
	}
	return foreign
}

// Scanner looks for cross-service imports in a service tree.
type Scanner struct {
	destRoot    string
	basePackage string
	owned       []string
}

func NewScanner(destRoot, basePackage string, owned []string) *Scanner {
	return &Scanner{destRoot: destRoot, basePackage: basePackage, owned: owned}
}

// Enabled reports whether there is enough package information to scan.
func (s *Scanner) Enabled() bool {
	return s.basePackage != "" && len(s.owned) > 0
}

// Scan checks each relative path under the destination root. Missing files
// are skipped.
func (s *Scanner) Scan(paths []string) ([]models.ForeignImport, error) {
	var found []models.ForeignImport
	for _, rel := range paths {
		target := filepath.Join(s.destRoot, filepath.FromSlash(rel))
		data, err := os.ReadFile(target)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return found, fmt.Errorf("failed to read %s: %w", target, err)
		}
		for _, dep := range Foreign(Analyze(string(data), s.basePackage), s.owned) {
			logger.Debug("Cross-service import in %s: %s", rel, dep.ImportPath)
			found = append(found, models.ForeignImport{RelativePath: rel, LocalDependency: dep})
		}
	}
	return found, nil
}

func inPackage(importPath, pkg string) bool {
	return importPath == pkg || strings.HasPrefix(importPath, pkg+".")
}

func isStandard(importPath string) bool {
	for _, p := range standardPrefixes {
		if strings.HasPrefix(importPath, p) {
			return true
		}
	}
	return false
}
