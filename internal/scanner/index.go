package scanner

import "github.com/temirov/ghostbuster/internal/submodules"

// ReferenceEntry lists the files referencing a single submodule path.
type ReferenceEntry struct {
	SubmodulePath submodules.SubmodulePath
	Files         []string
}

// IsGhost reports whether no scanned file references the submodule path.
func (entry ReferenceEntry) IsGhost() bool {
	return len(entry.Files) == 0
}

// ReferenceIndex maps each declared submodule path to the relative files that mention it.
// Entries keep first-declaration order and files keep traversal order.
type ReferenceIndex struct {
	order []submodules.SubmodulePath
	files map[submodules.SubmodulePath][]string
}

// NewReferenceIndex creates an index with every declared path mapped to no files.
func NewReferenceIndex(submodulePaths []submodules.SubmodulePath) ReferenceIndex {
	index := ReferenceIndex{
		order: make([]submodules.SubmodulePath, 0, len(submodulePaths)),
		files: make(map[submodules.SubmodulePath][]string, len(submodulePaths)),
	}
	for _, submodulePath := range submodulePaths {
		if _, exists := index.files[submodulePath]; exists {
			continue
		}
		index.order = append(index.order, submodulePath)
		index.files[submodulePath] = []string{}
	}
	return index
}

func (index ReferenceIndex) record(submodulePath submodules.SubmodulePath, relativeFilePath string) {
	index.files[submodulePath] = append(index.files[submodulePath], relativeFilePath)
}

// Len returns the number of distinct submodule paths in the index.
func (index ReferenceIndex) Len() int {
	return len(index.order)
}

// Lookup returns a copy of the files referencing submodulePath.
func (index ReferenceIndex) Lookup(submodulePath submodules.SubmodulePath) ([]string, bool) {
	referencingFiles, exists := index.files[submodulePath]
	if !exists {
		return nil, false
	}
	return append([]string{}, referencingFiles...), true
}

// Entries returns every indexed submodule path with its referencing files.
func (index ReferenceIndex) Entries() []ReferenceEntry {
	entries := make([]ReferenceEntry, 0, len(index.order))
	for _, submodulePath := range index.order {
		entries = append(entries, ReferenceEntry{
			SubmodulePath: submodulePath,
			Files:         append([]string{}, index.files[submodulePath]...),
		})
	}
	return entries
}

// Ghosts returns the submodule paths without any referencing file.
func (index ReferenceIndex) Ghosts() []submodules.SubmodulePath {
	return index.filter(true)
}

// Referenced returns the submodule paths with at least one referencing file.
func (index ReferenceIndex) Referenced() []submodules.SubmodulePath {
	return index.filter(false)
}

func (index ReferenceIndex) filter(ghosts bool) []submodules.SubmodulePath {
	selected := make([]submodules.SubmodulePath, 0)
	for _, submodulePath := range index.order {
		if (len(index.files[submodulePath]) == 0) == ghosts {
			selected = append(selected, submodulePath)
		}
	}
	return selected
}
