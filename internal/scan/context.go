package scan

// FileEntry is a single file captured during the build pass. Entries are
// immutable once the context is assembled.
type FileEntry struct {
	// Path is repo-relative using forward slashes (e.g. "src/app.ts").
	Path     string
	Content  string
	Language Language
	// Size is the content length in bytes.
	Size  int64
	Lines int
}

// Summary carries aggregate statistics over the accepted file set.
type Summary struct {
	TotalFiles  int
	TotalLines  int
	Languages   map[Language]int
	LargestFile string
	MeanSize    int64
}

// CodebaseContext is the in-memory snapshot of selected file contents plus
// aggregate statistics. It is owned by the scan invocation that created it.
type CodebaseContext struct {
	Root    string
	Files   []FileEntry
	Summary Summary
}

// Summarize computes aggregate statistics over an accepted file set.
func Summarize(files []FileEntry) Summary {
	s := Summary{Languages: map[Language]int{}}
	var totalBytes, largest int64
	for _, f := range files {
		s.TotalFiles++
		s.TotalLines += f.Lines
		s.Languages[f.Language]++
		totalBytes += f.Size
		if f.Size > largest || s.LargestFile == "" {
			largest = f.Size
			s.LargestFile = f.Path
		}
	}
	if s.TotalFiles > 0 {
		s.MeanSize = totalBytes / int64(s.TotalFiles)
	}
	return s
}

// Contains reports whether the context holds an entry for the given
// repo-relative path.
func (c *CodebaseContext) Contains(path string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}
