// Package theme models a Liquid theme on disk: the file-system provider
// all analysis goes through, and the directory conventions that classify
// files into module kinds.
package theme

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// DirEntry is one entry returned by FS.ReadDirectory.
type DirEntry struct {
	Name  string
	IsDir bool
}

// FileInfo is the metadata returned by FS.Stat.
type FileInfo struct {
	Size  int64
	IsDir bool
}

// FS is the file-system provider. All file access in the graph builder
// and in cross-file checks goes through this interface, never direct OS
// calls, so a theme can be backed by local disk, an in-memory fixture or
// a remote source. Paths are theme-relative with forward slashes
// ("snippets/price.liquid").
type FS interface {
	ReadFile(path string) (string, error)
	ReadDirectory(path string) ([]DirEntry, error)
	Stat(path string) (FileInfo, error)
}

// =============================================================================
// Local disk
// =============================================================================

// DirFS returns an FS rooted at an OS directory.
func DirFS(root string) FS { return &dirFS{root: root} }

type dirFS struct {
	root string
}

func (d *dirFS) ReadFile(p string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(Normalize(p))))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *dirFS) ReadDirectory(p string) ([]DirEntry, error) {
	entries, err := os.ReadDir(filepath.Join(d.root, filepath.FromSlash(Normalize(p))))
	if err != nil {
		return nil, err
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

func (d *dirFS) Stat(p string) (FileInfo, error) {
	info, err := os.Stat(filepath.Join(d.root, filepath.FromSlash(Normalize(p))))
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{Size: info.Size(), IsDir: info.IsDir()}, nil
}

// =============================================================================
// In-memory fixture
// =============================================================================

// MapFS is an in-memory FS keyed by normalized theme-relative path.
// It is the test double used throughout the analysis test suites.
type MapFS map[string]string

func (m MapFS) ReadFile(p string) (string, error) {
	src, ok := m[Normalize(p)]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return src, nil
}

func (m MapFS) ReadDirectory(p string) ([]DirEntry, error) {
	prefix := Normalize(p)
	if prefix != "" {
		prefix += "/"
	}
	seen := map[string]bool{}
	var out []DirEntry
	for k := range m {
		if len(k) <= len(prefix) || k[:len(prefix)] != prefix {
			continue
		}
		rest := k[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			dir := rest[:i]
			if !seen[dir] {
				seen[dir] = true
				out = append(out, DirEntry{Name: dir, IsDir: true})
			}
		} else if !seen[rest] {
			seen[rest] = true
			out = append(out, DirEntry{Name: rest})
		}
	}
	if len(out) == 0 {
		if _, ok := m[Normalize(p)]; !ok && prefix != "/" && prefix != "" {
			return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m MapFS) Stat(p string) (FileInfo, error) {
	norm := Normalize(p)
	if src, ok := m[norm]; ok {
		return FileInfo{Size: int64(len(src))}, nil
	}
	// Directories exist implicitly when any file lives under them.
	prefix := norm + "/"
	for k := range m {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			return FileInfo{IsDir: true}, nil
		}
	}
	return FileInfo{}, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
}

// Exists reports whether a file (not a directory) exists in the theme.
func Exists(fsys FS, p string) bool {
	info, err := fsys.Stat(p)
	return err == nil && !info.IsDir
}

// ListLiquidFiles enumerates every .liquid file under the theme's module
// directories in deterministic order: entry-point directories first
// (templates/, layout/), then the referenced kinds. Missing directories
// are skipped, not errors — partial themes are common during editing.
func ListLiquidFiles(fsys FS) ([]string, error) {
	var out []string
	for _, dir := range moduleDirs {
		entries, err := fsys.ReadDirectory(dir)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir {
				// One nesting level (templates/customers/) is part of
				// the theme convention.
				sub, err := fsys.ReadDirectory(dir + "/" + e.Name)
				if err != nil {
					continue
				}
				for _, se := range sub {
					if !se.IsDir && path.Ext(se.Name) == ".liquid" {
						names = append(names, e.Name+"/"+se.Name)
					}
				}
				continue
			}
			if path.Ext(e.Name) == ".liquid" {
				names = append(names, e.Name)
			}
		}
		sort.Strings(names)
		for _, n := range names {
			out = append(out, dir+"/"+n)
		}
	}
	return out, nil
}
