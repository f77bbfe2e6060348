package fat16

import (
	"strings"

	"github.com/aligator/fat16/checkpoint"
)

// RootCluster addresses the root directory in List.
const RootCluster uint16 = 0

// List returns the entries of the directory at cluster in on-disk order.
// Cluster 0 is the root directory. The self and parent references "." and
// "..", deleted slots and volume labels are left out.
func (fs *Fs) List(cluster uint16) ([]Entry, error) {
	if cluster == RootCluster {
		return fs.readRoot()
	}

	return fs.readDir(cluster)
}

// readRoot reads the fixed size root directory array which directly follows the FATs.
func (fs *Fs) readRoot() ([]Entry, error) {
	buf := make([]byte, int(fs.geometry.RootEntries)*dirEntrySize)
	if err := fs.readFull(buf, fs.geometry.RootDirStart); err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	entries, _ := scanSlots(buf, nil)
	return entries, nil
}

// readDir reads a subdirectory by following its cluster chain.
// An end marker ends the scan of its cluster. Only in strict mode it also
// ends the whole listing.
func (fs *Fs) readDir(cluster uint16) ([]Entry, error) {
	var entries []Entry
	buf := make([]byte, fs.geometry.ClusterSize())

	err := fs.walkChain(cluster, func(c uint16) (bool, error) {
		if err := fs.readFull(buf, fs.geometry.ClusterOffset(c)); err != nil {
			return false, err
		}

		var ended bool
		entries, ended = scanSlots(buf, entries)
		if ended && fs.strictEndMarker {
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	return entries, nil
}

// scanSlots decodes the 32 byte slots of buf and appends the listed entries.
// It reports whether an end marker was found.
func scanSlots(buf []byte, entries []Entry) ([]Entry, bool) {
	for off := 0; off+dirEntrySize <= len(buf); off += dirEntrySize {
		entry, state := decodeSlot(buf[off : off+dirEntrySize])
		switch state {
		case slotEnd:
			return entries, true
		case slotEntry:
			if strings.HasPrefix(entry.Name, ".") {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, false
}
