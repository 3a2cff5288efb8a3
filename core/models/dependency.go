package models

import "fmt"

type LocalDependency struct {
	ImportPath string // Full import: "vn.careermate.userservice.model.CV"
	Line       int    // 1-based line of the import statement
	Static     bool
}

// DependencyAnalysis splits the active imports of a source file by origin.
type DependencyAnalysis struct {
	StandardLibImports []string
	ExternalImports    []string
	LocalImports       []LocalDependency
}

// ForeignImport is an active import of a monolith package the service does
// not own, left behind after the rewrite phase.
type ForeignImport struct {
	RelativePath string
	LocalDependency
}

func (f ForeignImport) String() string {
	return fmt.Sprintf("%s:%d %s", f.RelativePath, f.Line, f.ImportPath)
}
