package models

// DiscoveredFile is a source file found next to cataloged files but not
// listed in the catalog itself.
type DiscoveredFile struct {
	RelativePath string
	Group        string
	File         string
}
