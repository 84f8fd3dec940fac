package scan

import (
	"fmt"
	"strings"
	"testing"
)

func buildContext(t *testing.T, files []FileEntry) *CodebaseContext {
	t.Helper()
	return &CodebaseContext{Root: "/repo", Files: files, Summary: Summarize(files)}
}

func TestCondense_PrimaryTierFirst(t *testing.T) {
	// 10 .ts and 10 .py files, N=15: all 10 typescript files plus the 5
	// largest python files.
	var files []FileEntry
	for i := 0; i < 10; i++ {
		files = append(files, FileEntry{
			Path:     fmt.Sprintf("ts/%02d.ts", i),
			Content:  strings.Repeat("t", 10+i),
			Language: "typescript",
			Size:     int64(10 + i),
		})
		files = append(files, FileEntry{
			Path:     fmt.Sprintf("py/%02d.py", i),
			Content:  strings.Repeat("p", 100+i),
			Language: "python",
			Size:     int64(100 + i),
		})
	}
	cctx := buildContext(t, files)

	out := cctx.Condense(15)
	if len(out.Files) != 15 {
		t.Fatalf("len=%d want 15", len(out.Files))
	}
	tsCount, pyCount := 0, 0
	for i, f := range out.Files {
		switch f.Language {
		case "typescript":
			tsCount++
			if i >= 10 {
				t.Fatalf("typescript file at position %d after non-primary", i)
			}
		case "python":
			pyCount++
			// Largest python files are 105..109.
			if f.Size < 105 {
				t.Fatalf("kept small python file %s (size %d)", f.Path, f.Size)
			}
		}
	}
	if tsCount != 10 || pyCount != 5 {
		t.Fatalf("ts=%d py=%d want 10/5", tsCount, pyCount)
	}
}

func TestCondense_Deterministic(t *testing.T) {
	files := []FileEntry{
		{Path: "a.py", Language: "python", Size: 50},
		{Path: "b.py", Language: "python", Size: 50},
		{Path: "c.js", Language: "javascript", Size: 1},
		{Path: "d.go", Language: "go", Size: 500},
	}
	cctx := buildContext(t, files)

	first := cctx.Condense(3)
	second := cctx.Condense(3)
	if len(first.Files) != 3 || len(second.Files) != 3 {
		t.Fatalf("lengths: %d, %d", len(first.Files), len(second.Files))
	}
	for i := range first.Files {
		if first.Files[i].Path != second.Files[i].Path {
			t.Fatalf("not deterministic at %d: %q vs %q", i, first.Files[i].Path, second.Files[i].Path)
		}
	}
	// Primary language wins regardless of size.
	if first.Files[0].Path != "c.js" {
		t.Fatalf("first=%q want c.js", first.Files[0].Path)
	}
	// Equal sizes break ties by path.
	if first.Files[1].Path != "d.go" || first.Files[2].Path != "a.py" {
		t.Fatalf("unexpected order: %v, %v", first.Files[1].Path, first.Files[2].Path)
	}
}

func TestCondense_FewerFilesThanN(t *testing.T) {
	cctx := buildContext(t, []FileEntry{
		{Path: "a.py", Language: "python", Size: 1},
	})
	out := cctx.Condense(15)
	if len(out.Files) != 1 {
		t.Fatalf("len=%d want 1", len(out.Files))
	}
	if out.Summary.TotalFiles != 1 {
		t.Fatalf("summary not recomputed: %+v", out.Summary)
	}
}

func TestCondense_DoesNotMutateInput(t *testing.T) {
	files := []FileEntry{
		{Path: "a.py", Language: "python", Size: 1},
		{Path: "b.js", Language: "javascript", Size: 2},
	}
	cctx := buildContext(t, files)
	_ = cctx.Condense(1)
	if cctx.Files[0].Path != "a.py" || len(cctx.Files) != 2 {
		t.Fatalf("input mutated: %+v", cctx.Files)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]Language{
		"src/app.TS":  "typescript",
		"x.jsx":       "javascript",
		"main.go":     "go",
		"schema.SQL":  "sql",
		"notes.md":    "markdown",
		"LICENSE":     LanguageText,
		"weird.xyz12": LanguageText,
	}
	for path, want := range cases {
		if got := DetectLanguage(path); got != want {
			t.Errorf("DetectLanguage(%q)=%q want %q", path, got, want)
		}
	}
}
