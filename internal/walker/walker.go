// Package walker enumerates candidate files under a project root,
// honoring layered ignore rules and size/binary filters.
package walker

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
)

// FileSystemWalker abstracts directory traversal so tests can supply a
// synthetic tree without touching disk.
type FileSystemWalker interface {
	Walk(root string, options *godirwalk.Options) error
}

// FileReader abstracts file reads for the same reason.
type FileReader interface {
	ReadFile(filename string) ([]byte, error)
}

type osWalker struct{}

func (osWalker) Walk(root string, options *godirwalk.Options) error {
	return godirwalk.Walk(root, options)
}

type osReader struct{}

func (osReader) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

// builtinExclusions names directories skipped regardless of any
// .gitignore, grounded on the blocklist every pack indexer hardcodes in
// one form or another.
var builtinExclusions = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true, "target": true,
	"dist": true, "build": true, "out": true, "bin": true, "obj": true,
	".venv": true, "venv": true, "__pycache__": true, ".pytest_cache": true,
	".gradle": true, ".m2": true, ".idea": true, ".cache": true,
	"coverage": true, ".terraform": true,
}

// File is one candidate file discovered by Walk.
type File struct {
	AbsPath  string
	RelPath  string
	Language string // "" when the extension isn't recognized
}

// Options configures a single walk.
type Options struct {
	Walker     FileSystemWalker
	FileReader FileReader
	MaxBytes   int64 // files larger than this are skipped; 0 means default 1MiB
	ProbeBytes int   // bytes read from the front of a file to binary-sniff; 0 means default 512
}

const (
	defaultMaxBytes   = 1024 * 1024
	defaultProbeBytes = 512
)

func (o *Options) withDefaults() *Options {
	out := *o
	if out.Walker == nil {
		out.Walker = osWalker{}
	}
	if out.FileReader == nil {
		out.FileReader = osReader{}
	}
	if out.MaxBytes <= 0 {
		out.MaxBytes = defaultMaxBytes
	}
	if out.ProbeBytes <= 0 {
		out.ProbeBytes = defaultProbeBytes
	}
	return &out
}

// Walk enumerates files under root, returning them in discovery order.
// root is canonicalized once; every returned RelPath is relative to it.
// An unreadable directory entry is skipped, not fatal; a missing or
// unreadable root is returned as an error.
func Walk(root string, opts Options) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(absRoot); err != nil {
		return nil, err
	} else if !fi.IsDir() {
		return nil, &os.PathError{Op: "walk", Path: absRoot, Err: os.ErrInvalid}
	}

	o := opts.withDefaults()
	ig := loadIgnoreLayers(absRoot)

	var out []File
	walkErr := o.Walker.Walk(absRoot, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			rel, relErr := filepath.Rel(absRoot, path)
			if relErr != nil {
				return nil
			}
			if rel == "." {
				return nil
			}
			name := filepath.Base(path)

			isDir := de != nil && de.IsDir()
			if isDir && builtinExclusions[name] {
				return filepath.SkipDir
			}
			if ig.excluded(rel, isDir) {
				if isDir {
					return filepath.SkipDir
				}
				return nil
			}
			if isDir {
				return nil
			}

			fi, statErr := os.Lstat(path)
			if statErr != nil || !fi.Mode().IsRegular() {
				return nil
			}
			if fi.Size() > o.MaxBytes {
				return nil
			}

			if looksBinary(o.FileReader, path, o.ProbeBytes) {
				return nil
			}

			out = append(out, File{
				AbsPath:  path,
				RelPath:  filepath.ToSlash(rel),
				Language: DetectLanguage(path),
			})
			return nil
		},
	})
	return out, walkErr
}

func looksBinary(fr FileReader, path string, probeBytes int) bool {
	if hasBinaryExtension(path) {
		return true
	}
	content, err := fr.ReadFile(path)
	if err != nil {
		return false
	}
	if len(content) > probeBytes {
		content = content[:probeBytes]
	}
	for _, b := range content {
		if b == 0 {
			return true
		}
	}
	return false
}

// ignoreSet layers exclusion patterns gathered from .gitignore files
// found in root and its ancestors, matched as simple path-segment or
// suffix globs (no full gitignore grammar — negation and nested
// directory-scoped patterns are not supported, which is a known
// simplification over a real .gitignore parser).
type ignoreSet struct {
	patterns []string
}

func loadIgnoreLayers(root string) *ignoreSet {
	var patterns []string
	dir := root
	for {
		patterns = append(patterns, readGitignore(filepath.Join(dir, ".gitignore"))...)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			patterns = append(patterns, readGitignore(filepath.Join(dir, ".gitignore"))...)
			break
		}
	}
	return &ignoreSet{patterns: patterns}
}

func readGitignore(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		out = append(out, strings.TrimSuffix(line, "/"))
	}
	return out
}

func (ig *ignoreSet) excluded(relPath string, isDir bool) bool {
	base := filepath.Base(relPath)
	for _, p := range ig.patterns {
		if p == base {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if strings.Contains(p, "/") {
			if ok, _ := filepath.Match(p, filepath.ToSlash(relPath)); ok {
				return true
			}
		}
	}
	return false
}

var binaryExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "ico": true, "webp": true,
	"mp3": true, "mp4": true, "wav": true, "avi": true, "mov": true, "mkv": true, "flac": true,
	"zip": true, "tar": true, "gz": true, "bz2": true, "xz": true, "7z": true, "rar": true,
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true,
	"exe": true, "dll": true, "so": true, "dylib": true, "o": true, "a": true, "lib": true,
	"wasm": true, "pyc": true, "class": true, "jar": true,
	"ttf": true, "otf": true, "woff": true, "woff2": true, "eot": true,
	"sqlite": true, "db": true, "db3": true,
}

func hasBinaryExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return binaryExtensions[ext]
}

// HasBinaryExtension reports whether path's extension marks it as a
// binary file, for callers outside this package that need to skip
// binaries without walking a directory (e.g. the structural differ).
func HasBinaryExtension(path string) bool {
	return hasBinaryExtension(path)
}

// DetectLanguage guesses a file's language from its extension, or
// returns "" for unrecognized or binary extensions.
func DetectLanguage(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return ""
}

var languageByExt = map[string]string{
	"rs": "rust", "py": "python", "pyi": "python",
	"js": "javascript", "mjs": "javascript", "cjs": "javascript", "jsx": "javascript",
	"ts": "typescript", "mts": "typescript", "cts": "typescript", "tsx": "typescript",
	"go": "go", "c": "c", "h": "c",
	"cpp": "cpp", "cc": "cpp", "cxx": "cpp", "hpp": "cpp", "hxx": "cpp",
	"java": "java", "rb": "ruby", "php": "php", "swift": "swift",
	"kt": "kotlin", "kts": "kotlin", "scala": "scala", "zig": "zig", "lua": "lua",
	"sh": "shell", "bash": "shell", "zsh": "shell", "sql": "sql",
	"html": "html", "htm": "html", "css": "css", "scss": "scss", "sass": "scss",
	"json": "json", "yaml": "yaml", "yml": "yaml", "toml": "toml", "xml": "xml",
	"md": "markdown", "markdown": "markdown", "txt": "text",
	"proto": "protobuf", "graphql": "graphql", "gql": "graphql",
}
