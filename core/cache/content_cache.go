package cache

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/thingc24/carve/core/logger"
)

// ContentEntry is the last seen state of a file.
type ContentEntry struct {
	FilePath    string
	ContentHash string
	ModTime     time.Time
	Size        int64
}

// ContentCache tracks file contents so that metadata-only changes, such as an
// editor re-saving an identical file, are not treated as edits.
type ContentCache struct {
	entries map[string]*ContentEntry
	mutex   sync.Mutex
}

func NewContentCache() *ContentCache {
	return &ContentCache{
		entries: make(map[string]*ContentEntry),
	}
}

// Update refreshes the entry for filePath and reports whether its content
// differs from the last call. A first sighting and a deletion both count as
// a change.
func (cc *ContentCache) Update(filePath string) (bool, error) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()

	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if _, exists := cc.entries[filePath]; exists {
				logger.Debug("ContentCache: File deleted: %s", filePath)
				delete(cc.entries, filePath)
				return true, nil
			}
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}
	if stat.IsDir() {
		return false, nil
	}

	existing, exists := cc.entries[filePath]
	if exists && stat.Size() == existing.Size && stat.ModTime().Equal(existing.ModTime) {
		return false, nil
	}

	hash, err := calculateFileHash(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to calculate hash for %s: %w", filePath, err)
	}

	entry := &ContentEntry{
		FilePath:    filePath,
		ContentHash: hash,
		ModTime:     stat.ModTime(),
		Size:        stat.Size(),
	}
	cc.entries[filePath] = entry

	if !exists {
		logger.Debug("ContentCache: New file detected: %s", filePath)
		return true, nil
	}
	if hash != existing.ContentHash {
		logger.Debug("ContentCache: Content changed for %s (hash: %s -> %s)", filePath, existing.ContentHash[:8], hash[:8])
		return true, nil
	}

	logger.Debug("ContentCache: Metadata changed but content same for %s", filePath)
	return false, nil
}

// Get returns the cached entry for filePath.
func (cc *ContentCache) Get(filePath string) (*ContentEntry, bool) {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	entry, ok := cc.entries[filePath]
	return entry, ok
}

func (cc *ContentCache) Len() int {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	return len(cc.entries)
}

func (cc *ContentCache) Clear() {
	cc.mutex.Lock()
	defer cc.mutex.Unlock()
	cc.entries = make(map[string]*ContentEntry)
}

// calculateFileHash computes MD5 hash of file content
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
