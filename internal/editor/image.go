package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = []string{"png", "jpg", "jpeg", "webp", "gif", "bmp"}

var mimeByExt = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
}

// ImageLookup resolves an "[imageN]" placeholder to a concrete image file,
// per spec.md §6's candidate-directory search.
type ImageLookup interface {
	Resolve(placeholder string) (ImageBlock, error)
}

// FileImageLookup implements ImageLookup against the real filesystem, using
// the environment to locate pasted-image candidate directories.
type FileImageLookup struct {
	// Getenv and ReadDir are overridable for tests; nil means use os.Getenv
	// and os.ReadDir.
	Getenv  func(string) string
	ReadDir func(string) ([]os.DirEntry, error)
}

func (f FileImageLookup) getenv(name string) string {
	if f.Getenv != nil {
		return f.Getenv(name)
	}
	return os.Getenv(name)
}

func (f FileImageLookup) readDir(dir string) ([]os.DirEntry, error) {
	if f.ReadDir != nil {
		return f.ReadDir(dir)
	}
	return os.ReadDir(dir)
}

// Resolve implements ImageLookup.
func (f FileImageLookup) Resolve(placeholder string) (ImageBlock, error) {
	stem := strings.TrimSuffix(strings.TrimPrefix(placeholder, "["), "]")
	dirs := f.candidateDirs()

	for _, dir := range dirs {
		for _, ext := range imageExtensions {
			candidate := filepath.Join(dir, stem+"."+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return f.load(candidate)
			}
		}
		if path, ok := f.newestMatching(dir, stem); ok {
			return f.load(path)
		}
	}

	return ImageBlock{}, fmt.Errorf("no image file found in %s", strings.Join(dirs, ", "))
}

func (f FileImageLookup) candidateDirs() []string {
	var dirs []string
	if configured := strings.TrimSpace(f.getenv("PIXY_PASTED_IMAGE_DIR")); configured != "" {
		dirs = append(dirs, configured)
	}
	if home := f.getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".pixy/workspace/tmp"))
	}
	dirs = append(dirs, "~/.pixy/workspace/tmp")
	return dedupStrings(dirs)
}

func dedupStrings(in []string) []string {
	var out []string
	for _, s := range in {
		dup := false
		for _, existing := range out {
			if existing == s {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

func (f FileImageLookup) newestMatching(dir, stem string) (string, bool) {
	entries, err := f.readDir(dir)
	if err != nil {
		return "", false
	}
	var bestPath string
	var bestMod int64 = -1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name != stem && !strings.HasPrefix(name, stem+".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if mod > bestMod {
			bestMod = mod
			bestPath = filepath.Join(dir, name)
		}
	}
	if bestPath == "" {
		return "", false
	}
	return bestPath, true
}

func (f FileImageLookup) load(path string) (ImageBlock, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	mime, ok := mimeByExt[ext]
	if !ok {
		return ImageBlock{}, fmt.Errorf("unsupported image extension: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageBlock{}, fmt.Errorf("read %s failed: %w", path, err)
	}
	return ImageBlock{Path: path, MimeType: mime, Data: data}, nil
}
