package media

import "strings"

// FolderOf derives the containing-folder identifier from a file path: the
// substring before the last path separator. A path with no separator is
// returned unchanged. Video and audio records use this identically so folder
// identifiers are comparable across media types.
func FolderOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[:idx]
}

// FolderCounts reduces enumerated video records into a folder -> count
// mapping. No ordering is implied; callers sort if presentation needs it.
func FolderCounts(records []*VideoRecord) map[string]int {
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		counts[rec.FolderPath]++
	}
	return counts
}
