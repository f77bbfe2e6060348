// Package extract copies files out of a FAT16 volume into another filesystem.
package extract

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/aligator/fat16"
	"github.com/aligator/fat16/checkpoint"
	"github.com/aligator/fat16/internal/logger"
)

// ErrExtract is returned if a file could not be read or written.
var ErrExtract = errors.New("could not extract file")

// Source is the part of a fat16.Fs needed for extraction.
type Source interface {
	Walk(fn fat16.WalkFunc) error
	ReadPath(name string) ([]byte, error)
}

var _ Source = (*fat16.Fs)(nil)

// Options select and place the extracted files.
type Options struct {
	// Extensions limits extraction to files with one of these extensions,
	// with or without the leading dot. They are matched case-insensitively.
	// An empty list extracts every file.
	Extensions []string
	// Flatten writes every file directly into the destination, named by FlatName.
	// Otherwise the directory tree of the volume is recreated.
	Flatten bool
}

// Matches reports whether the file at name is selected by the extension filter.
func (o Options) Matches(name string) bool {
	if len(o.Extensions) == 0 {
		return true
	}

	ext := path.Ext(name)
	for _, want := range o.Extensions {
		if !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Target returns the destination path of the file at name.
func (o Options) Target(name string) string {
	if o.Flatten {
		return FlatName(name)
	}
	return filepath.FromSlash(name)
}

// FlatName turns a volume path into a single file name by replacing the
// separators with underscores and removing the "~1" of shortened names.
func FlatName(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "/", "_"), "~1", "")
}

// Result describes one extracted file.
type Result struct {
	Path         string `json:"path" yaml:"path"`
	Target       string `json:"target" yaml:"target"`
	DeclaredSize uint32 `json:"declaredSize" yaml:"declaredSize"`
	Written      int    `json:"written" yaml:"written"`
	// Partial is set if less than DeclaredSize bytes could be read from the volume.
	Partial bool `json:"partial" yaml:"partial"`
	// Error is set if the file could not be extracted at all.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file could not be extracted.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Files returns every file of src selected by opts, in walk order.
func Files(src Source, opts Options) ([]fat16.PathEntry, error) {
	var files []fat16.PathEntry
	err := src.Walk(func(entry fat16.PathEntry) error {
		if !entry.IsDir && opts.Matches(entry.Path) {
			files = append(files, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Extract copies every file of src selected by opts into dst.
// Files which are shorter on the volume than their declared size are written
// as far as they could be read and reported as partial. A file which cannot be
// extracted at all is reported as failed and the remaining files are still
// extracted; the returned error then combines all failures.
func Extract(src Source, dst afero.Fs, opts Options) ([]Result, error) {
	log := logger.Logger()

	files, err := Files(src, opts)
	if err != nil {
		return nil, err
	}
	log.Infof("Found %d files to extract", len(files))

	var errs error
	targets := targetSet{}
	results := make([]Result, 0, len(files))
	for _, file := range files {
		target := targets.claim(opts.Target(file.Path))

		result, err := extractFile(src, dst, file, target)
		if err != nil {
			log.Errorw("could not extract file", "path", file.Path, "error", err)
			result.Error = err.Error()
			errs = multierr.Append(errs, err)
		} else if result.Partial {
			log.Warnw("extracted file is incomplete",
				"path", result.Path,
				"declaredSize", result.DeclaredSize,
				"written", result.Written)
		} else {
			log.Debugf("Extracted %s (%d bytes) -> %s", result.Path, result.Written, result.Target)
		}

		results = append(results, result)
	}

	return results, errs
}

// targetSet hands out destination names, renaming the ones already taken in
// this extraction. Names are compared case-insensitively.
type targetSet map[string]struct{}

// claim returns target, or if it is already taken target with a numeric
// suffix before its extension, e.g. A_B_2.MP3.
func (t targetSet) claim(target string) string {
	name := target
	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)
	for i := 2; ; i++ {
		key := strings.ToLower(name)
		if _, ok := t[key]; !ok {
			t[key] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

func extractFile(src Source, dst afero.Fs, file fat16.PathEntry, target string) (Result, error) {
	result := Result{
		Path:         file.Path,
		Target:       target,
		DeclaredSize: file.Size,
	}

	data, err := src.ReadPath(file.Path)
	if err != nil {
		return result, checkpoint.Wrap(err, ErrExtract)
	}

	if exists, _ := afero.Exists(dst, target); exists {
		logger.Logger().Warnw("overwriting already extracted file", "path", file.Path, "target", target)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := dst.MkdirAll(dir, 0o755); err != nil {
			return result, checkpoint.Wrap(fmt.Errorf("create %s: %w", dir, err), ErrExtract)
		}
	}
	if err := afero.WriteFile(dst, target, data, 0o644); err != nil {
		return result, checkpoint.Wrap(fmt.Errorf("write %s: %w", target, err), ErrExtract)
	}

	result.Written = len(data)
	result.Partial = uint32(len(data)) < file.Size
	return result, nil
}
