package fat16

import (
	"os"
	"time"
)

// FileInfo returns the entry as os.FileInfo. Sys returns the Entry itself.
func (e Entry) FileInfo() os.FileInfo {
	return entryFileInfo{e}
}

type entryFileInfo struct {
	entry Entry
}

func (e entryFileInfo) Name() string {
	return e.entry.Name
}

func (e entryFileInfo) Size() int64 {
	if e.entry.IsDir() {
		return 0
	}
	return int64(e.entry.Size)
}

// Mode reports directories with 0555 and files with 0444, as nothing is writable.
func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0o555
	}
	return 0o444
}

func (e entryFileInfo) ModTime() time.Time {
	return e.entry.ModTime()
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
