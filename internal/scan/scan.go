// Package scan walks a directory tree, reads the supported source files and
// assembles a CodebaseContext bounded by per-file and per-request limits.
package scan

import (
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"vulnsight/internal/errs"
	"vulnsight/internal/safeio"
)

const (
	// DefaultMaxFileBytes is the per-file content cap; larger files are
	// skipped, not truncated.
	DefaultMaxFileBytes = 100 * 1024

	// DefaultMaxFiles is the condensation bound used by the analysis path.
	DefaultMaxFiles = 15

	defaultReadConcurrency = 8
	contentCacheSize       = 512
)

var defaultIgnoreDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "target": true,
	"build": true, "dist": true, "out": true,
	".next": true, ".cache": true, "__pycache__": true,
	"coverage": true,
}

// Options tune a Scanner. Zero values fall back to defaults.
type Options struct {
	// IgnoreDirs extends the built-in directory ignore set.
	IgnoreDirs []string
	// MaxFileBytes caps accepted file content length.
	MaxFileBytes int64
	// ReadConcurrency bounds parallel file reads during Build.
	ReadConcurrency int
}

// Scanner discovers and reads files under a fixed root.
type Scanner struct {
	fsys   *safeio.FS
	opts   Options
	ignore map[string]bool
	cache  *lru.Cache[string, string]
}

// NewScanner binds a scanner to root. The root must exist and be listable.
func NewScanner(root string, opts Options) (*Scanner, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errs.New(errs.KindValidation, "scan root directory is empty")
	}
	fsys, err := safeio.New(root)
	if err != nil {
		return nil, errs.Wrap(errs.KindContextBuild, "cannot access directory "+root, err)
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if opts.ReadConcurrency <= 0 {
		opts.ReadConcurrency = defaultReadConcurrency
	}
	ignore := make(map[string]bool, len(defaultIgnoreDirs)+len(opts.IgnoreDirs))
	for d := range defaultIgnoreDirs {
		ignore[d] = true
	}
	for _, d := range opts.IgnoreDirs {
		if d = strings.TrimSpace(d); d != "" {
			ignore[d] = true
		}
	}
	cache, err := lru.New[string, string](contentCacheSize)
	if err != nil {
		return nil, err
	}
	return &Scanner{fsys: fsys, opts: opts, ignore: ignore, cache: cache}, nil
}

// Root returns the absolute scan root.
func (s *Scanner) Root() string { return s.fsys.Root() }

// Discover walks the tree depth-first and returns repo-relative paths whose
// extension is in the allow-list. Directories in the ignore set, or whose
// name starts with ".", are pruned. Order follows the filesystem enumeration.
func (s *Scanner) Discover() ([]string, error) {
	root := s.fsys.Root()
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			// Unreadable subtree: skip, do not abort the scan.
			log.Printf("scan: skipping %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p == root {
				return nil
			}
			name := d.Name()
			if s.ignore[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !SupportedExt(filepath.Ext(p)) {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindContextBuild, "cannot list directory "+root, err)
	}
	if len(paths) == 0 {
		return nil, errs.New(errs.KindContextBuild, "no supported files found in "+root)
	}
	return paths, nil
}

// Build reads every discovered file and assembles the context. Unreadable,
// oversized or non-UTF-8 files are skipped with a warning; only an empty
// result is an error. Reads run with bounded concurrency and the output is
// ordered by path.
func (s *Scanner) Build(paths []string) (*CodebaseContext, error) {
	if len(paths) == 0 {
		return nil, errs.New(errs.KindContextBuild, "no supported files found in "+s.fsys.Root())
	}

	var (
		mu      sync.Mutex
		entries []FileEntry
	)
	var g errgroup.Group
	g.SetLimit(s.opts.ReadConcurrency)
	for _, rel := range paths {
		g.Go(func() error {
			entry, ok := s.readEntry(rel)
			if !ok {
				return nil
			}
			mu.Lock()
			entries = append(entries, entry)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errs.Wrap(errs.KindContextBuild, "reading files under "+s.fsys.Root(), err)
	}
	if len(entries) == 0 {
		return nil, errs.New(errs.KindContextBuild,
			"all candidate files were unreadable or oversized in "+s.fsys.Root())
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return &CodebaseContext{
		Root:    s.fsys.Root(),
		Files:   entries,
		Summary: Summarize(entries),
	}, nil
}

// Snapshot is Discover followed by Build.
func (s *Scanner) Snapshot() (*CodebaseContext, error) {
	paths, err := s.Discover()
	if err != nil {
		return nil, err
	}
	return s.Build(paths)
}

// ReadFile reads a single file relative to the root, honoring the size cap.
// Used by the single-file analysis path.
func (s *Scanner) ReadFile(rel string) (FileEntry, error) {
	entry, ok := s.readEntry(filepath.ToSlash(rel))
	if !ok {
		return FileEntry{}, errs.Newf(errs.KindFileProcessing,
			"cannot read %s (missing, oversized, or not text)", rel)
	}
	return entry, nil
}

func (s *Scanner) readEntry(rel string) (FileEntry, bool) {
	content, ok := s.cache.Get(rel)
	if !ok {
		info, err := s.fsys.Stat(rel)
		if err != nil {
			log.Printf("scan: skipping %s: %v", rel, err)
			return FileEntry{}, false
		}
		if info.Size() > s.opts.MaxFileBytes {
			log.Printf("scan: skipping %s: %d bytes exceeds cap", rel, info.Size())
			return FileEntry{}, false
		}
		b, err := s.fsys.ReadFile(rel)
		if err != nil {
			log.Printf("scan: skipping %s: %v", rel, err)
			return FileEntry{}, false
		}
		if int64(len(b)) > s.opts.MaxFileBytes {
			log.Printf("scan: skipping %s: %d bytes exceeds cap", rel, len(b))
			return FileEntry{}, false
		}
		if !utf8.Valid(b) {
			log.Printf("scan: skipping %s: not valid UTF-8", rel)
			return FileEntry{}, false
		}
		content = string(b)
		s.cache.Add(rel, content)
	}
	return FileEntry{
		Path:     rel,
		Content:  content,
		Language: DetectLanguage(rel),
		Size:     int64(len(content)),
		Lines:    countLines(content),
	}, true
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
