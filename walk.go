package fat16

import (
	"errors"
	iofs "io/fs"
	"strings"

	"github.com/aligator/fat16/checkpoint"
)

// PathEntry is one path of the volume as produced by Walk.
// Directory paths end with a slash and have a size of 0.
type PathEntry struct {
	Path  string `json:"path" yaml:"path"`
	Size  uint32 `json:"size" yaml:"size"`
	IsDir bool   `json:"isDir" yaml:"isDir"`
}

// WalkFunc is called by Walk for every path of the volume.
//
// Returning fs.SkipDir for a directory skips its content; returned for a file
// it skips the remaining entries of the containing directory. Returning
// fs.SkipAll stops the walk without an error. Any other error stops the walk
// and is returned by Walk.
type WalkFunc func(entry PathEntry) error

// Walk calls fn for every file and directory of the volume, depth first in on-disk order.
// A directory is reported before its content.
func (fs *Fs) Walk(fn WalkFunc) error {
	w := treeWalk{
		ancestors: map[uint16]struct{}{RootCluster: {}},
		listed:    map[uint16]string{RootCluster: ""},
		fn:        fn,
	}

	err := fs.walk(&w, RootCluster, "", 0)
	if errors.Is(err, iofs.SkipAll) {
		return nil
	}
	return err
}

// treeWalk is the state of one Walk.
type treeWalk struct {
	// ancestors holds the directories on the current path, a repeat is a cycle.
	ancestors map[uint16]struct{}
	// listed maps every directory already listed to its path.
	listed map[uint16]string
	fn     WalkFunc
}

func (fs *Fs) walk(w *treeWalk, cluster uint16, prefix string, depth int) error {
	entries, err := fs.List(cluster)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name
		if prefix != "" {
			name = prefix + "/" + name
		}

		if !entry.IsDir() {
			err := w.fn(PathEntry{Path: name, Size: entry.Size})
			if errors.Is(err, iofs.SkipDir) {
				return nil
			}
			if err != nil {
				return err
			}
			continue
		}

		err := w.fn(PathEntry{Path: name + "/", IsDir: true})
		if errors.Is(err, iofs.SkipDir) {
			continue
		}
		if err != nil {
			return err
		}

		if _, ok := w.ancestors[entry.FirstCluster]; ok {
			return checkpoint.Errorf(ErrDirectoryCycle, "%s points back to its ancestor at cluster %d", name, entry.FirstCluster)
		}
		if other, ok := w.listed[entry.FirstCluster]; ok {
			fs.log.Warnw("directory shares its cluster with an already listed directory",
				"path", name+"/",
				"listedAs", other+"/",
				"cluster", entry.FirstCluster)
			continue
		}
		if fs.maxDepth > 0 && depth+1 > fs.maxDepth {
			return checkpoint.Errorf(ErrMaxDepth, "%s is nested deeper than %d", name, fs.maxDepth)
		}

		w.ancestors[entry.FirstCluster] = struct{}{}
		w.listed[entry.FirstCluster] = name
		err = fs.walk(w, entry.FirstCluster, name, depth+1)
		delete(w.ancestors, entry.FirstCluster)
		if err != nil {
			return err
		}
	}

	return nil
}

// WalkAll returns every path of the volume in the order Walk visits them.
func (fs *Fs) WalkAll() ([]PathEntry, error) {
	var all []PathEntry
	err := fs.Walk(func(entry PathEntry) error {
		all = append(all, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// root is the pseudo entry of the root directory.
var root = Entry{Name: ".", Attributes: AttrDirectory, FirstCluster: RootCluster}

// Lookup finds the entry at name. Names are slash separated, relative to the root
// directory and matched case-insensitively. An empty name, "." or "/" is the root
// directory itself.
func (fs *Fs) Lookup(name string) (Entry, error) {
	parts := splitPath(name)
	current := root

	for i, part := range parts {
		if !current.IsDir() {
			return Entry{}, checkpoint.Errorf(ErrNotDirectory, "%s", strings.Join(parts[:i], "/"))
		}

		entries, err := fs.List(current.FirstCluster)
		if err != nil {
			return Entry{}, err
		}

		found := false
		for _, entry := range entries {
			if strings.EqualFold(entry.Name, part) {
				current = entry
				found = true
				break
			}
		}
		if !found {
			return Entry{}, checkpoint.Errorf(ErrNotExist, "%s", strings.Join(parts[:i+1], "/"))
		}
	}

	return current, nil
}

// splitPath splits name into its elements, ignoring empty and "." elements.
func splitPath(name string) []string {
	name = strings.ReplaceAll(name, "\\", "/")

	var parts []string
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}
