package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tessro/segue/internal/core"
	serrors "github.com/tessro/segue/internal/errors"
)

// DefaultExtensions are the audio file types picked up by a scan.
var DefaultExtensions = []string{".flac", ".mp3", ".wav"}

// ScanOptions controls which files a scan picks up.
type ScanOptions struct {
	// Extensions to match, case-insensitively. Empty means DefaultExtensions.
	Extensions []string
	// Recursive descends into subdirectories.
	Recursive bool
}

func (o ScanOptions) matcher() func(name string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[strings.ToLower(filepath.Ext(name))]
		return ok
	}
}

// Scan lists the audio files in dir, sorted by path.
//
// A missing or unreadable dir is returned as an error. Problems with
// individual entries are collected in the result instead.
func Scan(dir string, opts ScanOptions) (serrors.PartialResult[[]core.Track], error) {
	var result serrors.PartialResult[[]core.Track]

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, fmt.Errorf("%w: %s", serrors.ErrLibraryNotFound, dir)
		}
		return result, fmt.Errorf("scan %s: %w", dir, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%w: %s is not a directory", serrors.ErrLibraryNotFound, dir)
	}

	match := opts.matcher()
	add := func(path string, d fs.DirEntry) {
		fi, err := d.Info()
		if err != nil {
			result.AddError(fmt.Errorf("stat %s: %w", path, err))
			return
		}
		result.Data = append(result.Data, core.NewTrack(path, fi.Size()))
	}

	if !opts.Recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return result, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !match(e.Name()) {
				continue
			}
			add(filepath.Join(dir, e.Name()), e)
		}
	} else {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				result.AddError(fmt.Errorf("scan %s: %w", path, err))
				if d != nil && d.IsDir() && path != dir {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !match(d.Name()) {
				return nil
			}
			add(path, d)
			return nil
		})
		if err != nil {
			return result, fmt.Errorf("scan %s: %w", dir, err)
		}
	}

	slices.SortFunc(result.Data, func(a, b core.Track) int {
		return strings.Compare(a.Path, b.Path)
	})
	return result, nil
}

// Changes summarizes what an Import or Sync did to the library.
type Changes struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Import scans dirs and appends every track whose path is not already in
// the library. A directory that cannot be scanned is reported in the result
// and the others are still imported.
func (l *Library) Import(opts ScanOptions, dirs ...string) serrors.PartialResult[Changes] {
	var result serrors.PartialResult[Changes]
	for _, dir := range dirs {
		scanned, err := Scan(dir, opts)
		if err != nil {
			result.AddError(err)
			continue
		}
		result.Errors = append(result.Errors, scanned.Errors...)
		result.Data.Added += l.Add(scanned.Data...)
	}
	return result
}

// ImportFiles appends individual audio files. Files with an unsupported
// extension and paths that are already in the library are skipped; files
// that cannot be read are reported in the result.
func (l *Library) ImportFiles(opts ScanOptions, paths ...string) serrors.PartialResult[Changes] {
	var result serrors.PartialResult[Changes]
	match := opts.matcher()

	var tracks []core.Track
	for _, path := range paths {
		if l.Contains(path) {
			continue
		}
		if !match(path) {
			result.AddError(fmt.Errorf("%w: %s", serrors.ErrUnsupportedFormat, filepath.Base(path)))
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			result.AddError(fmt.Errorf("open %s: %w", path, err))
			continue
		}
		if info.IsDir() {
			result.AddError(fmt.Errorf("open %s: is a directory", path))
			continue
		}
		tracks = append(tracks, core.NewTrack(path, info.Size()))
	}
	result.Data.Added = l.Add(tracks...)
	return result
}

// Sync brings the library in line with dirs: new files are appended and
// tracks under dirs whose files are gone are removed. Tracks outside dirs,
// and tracks under a directory that failed to scan, are left alone.
func (l *Library) Sync(opts ScanOptions, dirs ...string) serrors.PartialResult[Changes] {
	var result serrors.PartialResult[Changes]

	var scannedDirs []string
	found := make(map[string]struct{})
	var fresh []core.Track
	for _, dir := range dirs {
		scanned, err := Scan(dir, opts)
		if err != nil {
			result.AddError(err)
			continue
		}
		result.Errors = append(result.Errors, scanned.Errors...)
		scannedDirs = append(scannedDirs, dir)
		for _, t := range scanned.Data {
			found[t.Path] = struct{}{}
			fresh = append(fresh, t)
		}
	}

	var gone []core.TrackID
	for _, t := range l.Tracks() {
		if _, ok := found[t.Path]; ok {
			continue
		}
		for _, dir := range scannedDirs {
			if within(dir, t.Path, opts.Recursive) {
				gone = append(gone, t.ID)
				break
			}
		}
	}

	result.Data.Removed = l.Remove(gone...)
	result.Data.Added = l.Add(fresh...)
	return result
}

// within reports whether path lives in dir, directly or (if recursive)
// in a subdirectory.
func within(dir, path string, recursive bool) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	if recursive {
		return true
	}
	return !strings.ContainsRune(rel, filepath.Separator)
}
