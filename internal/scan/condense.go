package scan

import "sort"

// Condense selects the most relevant subset of at most n files. Files whose
// language is in the primary tier sort before all others; within a tier
// larger files come first, with path as the final tiebreak so the result is
// a pure function of the input set. The receiver is not modified.
func (c *CodebaseContext) Condense(n int) *CodebaseContext {
	if c == nil {
		return nil
	}
	if n <= 0 {
		n = DefaultMaxFiles
	}

	ranked := make([]FileEntry, len(c.Files))
	copy(ranked, c.Files)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := IsPrimary(ranked[i].Language), IsPrimary(ranked[j].Language)
		if pi != pj {
			return pi
		}
		if ranked[i].Size != ranked[j].Size {
			return ranked[i].Size > ranked[j].Size
		}
		return ranked[i].Path < ranked[j].Path
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return &CodebaseContext{
		Root:    c.Root,
		Files:   ranked,
		Summary: Summarize(ranked),
	}
}
