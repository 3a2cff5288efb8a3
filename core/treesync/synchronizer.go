package treesync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/thingc24/carve/core/logger"
	"github.com/thingc24/carve/core/models"
)

type Synchronizer struct {
	sourceRoot string
	destRoot   string
}

func NewSynchronizer(sourceRoot, destRoot string) *Synchronizer {
	return &Synchronizer{
		sourceRoot: sourceRoot,
		destRoot:   destRoot,
	}
}

// Synchronize copies every cataloged file that exists under the source root
// into the destination root. Missing sources are recorded and leave the
// destination alone. The first filesystem error stops the run; the records
// gathered so far are returned with it.
func (s *Synchronizer) Synchronize(catalog models.FileCatalog) ([]models.CopyRecord, error) {
	records := make([]models.CopyRecord, 0, catalog.Len())

	for _, group := range catalog.Groups {
		sourceDir := filepath.Join(s.sourceRoot, filepath.FromSlash(group.Dir))
		targetDir := filepath.Join(s.destRoot, filepath.FromSlash(group.Dir))

		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return records, fmt.Errorf("failed to create target directory %s: %w", targetDir, err)
		}

		for _, file := range group.Files {
			rel := models.RelativePath(group.Dir, file)
			sourceFile := filepath.Join(sourceDir, file)
			targetFile := filepath.Join(targetDir, file)

			record := models.CopyRecord{RelativePath: rel, Group: group.Dir, File: file}

			exists, err := s.sourceExists(sourceFile)
			if err != nil {
				return records, err
			}
			if !exists {
				record.Outcome = models.SourceMissing
				records = append(records, record)
				logger.Warn("[SKIP] Not found: %s", rel)
				continue
			}

			logger.Debug("Copying file: %s -> %s", sourceFile, targetFile)
			if err := copyFile(sourceFile, targetFile); err != nil {
				return records, fmt.Errorf("failed to copy %s: %w", rel, err)
			}
			record.Outcome = models.Copied
			records = append(records, record)
			logger.Success("[OK] Copied: %s", rel)
		}
	}

	copied, skipped := models.CountOutcomes(records)
	logger.Info("Copied: %d files", copied)
	logger.Info("Skipped: %d files", skipped)
	return records, nil
}

// Present reports which cataloged files already exist in the destination,
// in the same shape Synchronize would have produced.
func (s *Synchronizer) Present(catalog models.FileCatalog) ([]models.CopyRecord, error) {
	records := make([]models.CopyRecord, 0, catalog.Len())
	for _, group := range catalog.Groups {
		for _, file := range group.Files {
			rel := models.RelativePath(group.Dir, file)
			target := filepath.Join(s.destRoot, filepath.FromSlash(rel))

			record := models.CopyRecord{RelativePath: rel, Group: group.Dir, File: file, Outcome: models.SourceMissing}
			info, err := os.Stat(target)
			switch {
			case err == nil && !info.IsDir():
				record.Outcome = models.Copied
			case err != nil && !os.IsNotExist(err):
				return records, fmt.Errorf("failed to stat %s: %w", target, err)
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *Synchronizer) sourceExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, nil
	}
	return true, nil
}

// copyFile writes src over dst byte for byte and carries over the source
// modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		logger.Debug("Failed to preserve modification time of %s: %v", dst, err)
	}
	return nil
}
