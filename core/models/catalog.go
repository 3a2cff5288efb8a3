package models

import (
	"fmt"
	"path"
)

// FileGroup is one directory of a catalog and the files to take from it.
type FileGroup struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

// FileCatalog lists the files extracted for one service, in copy order.
type FileCatalog struct {
	Groups []FileGroup `yaml:"groups"`
}

// Len returns the number of cataloged files across all groups.
func (c FileCatalog) Len() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Files)
	}
	return n
}

// RelativePath joins a group directory and a filename with forward slashes,
// the key shared by copy records and rewrite plan entries.
func RelativePath(dir, file string) string {
	return path.Join(dir, file)
}

// Paths returns every cataloged relative path in catalog order.
func (c FileCatalog) Paths() []string {
	paths := make([]string, 0, c.Len())
	for _, g := range c.Groups {
		for _, f := range g.Files {
			paths = append(paths, RelativePath(g.Dir, f))
		}
	}
	return paths
}

func (c FileCatalog) Validate() error {
	dirs := make(map[string]bool)
	for _, g := range c.Groups {
		if g.Dir == "" {
			return fmt.Errorf("catalog group has an empty dir")
		}
		if dirs[g.Dir] {
			return fmt.Errorf("catalog group %s declared twice", g.Dir)
		}
		dirs[g.Dir] = true

		files := make(map[string]bool)
		for _, f := range g.Files {
			if f == "" {
				return fmt.Errorf("catalog group %s has an empty filename", g.Dir)
			}
			if files[f] {
				return fmt.Errorf("catalog group %s lists %s twice", g.Dir, f)
			}
			files[f] = true
		}
	}
	return nil
}
