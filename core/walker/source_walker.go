package walker

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/models"
)

// SourceWalker finds files in cataloged directories that the catalog does not
// list, so a service is not extracted with a class left behind.
type SourceWalker struct {
	Exclude    []string
	Extensions []string
}

func NewSourceWalker() *SourceWalker {
	return &SourceWalker{
		Exclude:    []string{".DS_Store", "package-info.java"},
		Extensions: []string{".java", ".sql"},
	}
}

// Uncataloged walks each group directory of catalog under root, one level
// deep, and returns the files it does not list. Missing directories are
// skipped.
func (w *SourceWalker) Uncataloged(root string, catalog models.FileCatalog) ([]models.DiscoveredFile, error) {
	var discovered []models.DiscoveredFile

	for _, group := range catalog.Groups {
		listed := make(map[string]bool, len(group.Files))
		for _, f := range group.Files {
			listed[f] = true
		}

		dir := filepath.Join(root, filepath.FromSlash(group.Dir))
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Debug("Skipping missing directory %s", dir)
				continue
			}
			return discovered, err
		}

		var names []string
		for _, e := range entries {
			if e.IsDir() || listed[e.Name()] || w.excluded(e.Name()) || !w.matches(e.Name()) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			discovered = append(discovered, models.DiscoveredFile{
				RelativePath: models.RelativePath(group.Dir, name),
				Group:        group.Dir,
				File:         name,
			})
		}
	}

	return discovered, nil
}

func (w *SourceWalker) excluded(name string) bool {
	for _, ex := range w.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}

func (w *SourceWalker) matches(name string) bool {
	if len(w.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	for _, e := range w.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
