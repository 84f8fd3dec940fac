package scan

import (
	"path/filepath"
	"strings"
)

// Language is the detected language tag for a file.
type Language string

// LanguageText is the fallback tag for unknown extensions.
const LanguageText Language = "text"

var extLanguages = map[string]Language{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".mts":   "typescript",
	".cts":   "typescript",
	".py":    "python",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".cxx":   "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".scala": "scala",
	".sh":    "shell",
	".bash":  "shell",
	".zsh":   "shell",
	".sql":   "sql",
	".html":  "html",
	".htm":   "html",
	".css":   "css",
	".scss":  "scss",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".xml":   "xml",
	".md":    "markdown",
}

// primaryLanguages are ranked first during condensation.
var primaryLanguages = map[Language]bool{
	"javascript": true,
	"typescript": true,
}

// DetectLanguage maps a path's extension to a language tag, LanguageText
// when the extension is not in the table.
func DetectLanguage(path string) Language {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return LanguageText
}

// SupportedExt reports whether the extension is in the scan allow-list.
func SupportedExt(ext string) bool {
	_, ok := extLanguages[strings.ToLower(ext)]
	return ok
}

// IsPrimary reports whether a language belongs to the primary tier.
func IsPrimary(lang Language) bool {
	return primaryLanguages[lang]
}
