package fat16

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"
)

// Attr is the attribute bitmask of a directory entry.
type Attr uint8

// Attribute bits as defined for FAT directory entries.
const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrVolumeID  Attr = 0x08
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20

	// AttrLongName marks a VFAT long filename slot. It includes AttrVolumeID,
	// so these slots are skipped together with volume labels.
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// Entry is one decoded directory entry.
type Entry struct {
	// Name is the 8.3 name, base and extension joined by a dot if there is an extension.
	Name         string
	Size         uint32
	Attributes   Attr
	FirstCluster uint16

	WriteTime uint16
	WriteDate uint16
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Attributes&AttrDirectory != 0
}

// ModTime returns the last write time of the entry.
// It is the zero time if the entry carries no valid date.
func (e Entry) ModTime() time.Time {
	return dosTime(e.WriteDate, e.WriteTime)
}

// slotState tells the directory reader what to do with a decoded slot.
type slotState int

const (
	// slotEntry holds a usable entry.
	slotEntry slotState = iota
	// slotEnd marks the end of the slot array, no entries follow.
	slotEnd
	// slotDeleted is a deleted entry, scanning continues.
	slotDeleted
	// slotVolume is a volume label or long filename slot, scanning continues.
	slotVolume
)

// decodeSlot decodes one 32 byte directory slot.
// The Entry is only valid if the returned state is slotEntry.
func decodeSlot(slot []byte) (Entry, slotState) {
	if len(slot) < dirEntrySize {
		return Entry{}, slotEnd
	}

	h := EntryHeader{}
	err := binary.Read(bytes.NewReader(slot[:dirEntrySize]), binary.LittleEndian, &h)
	if err != nil {
		return Entry{}, slotEnd
	}

	switch h.Name[0] {
	case slotMarkerEnd:
		return Entry{}, slotEnd
	case slotMarkerDeleted:
		return Entry{}, slotDeleted
	}

	attr := Attr(h.Attribute)
	if attr&AttrVolumeID != 0 {
		return Entry{}, slotVolume
	}

	return Entry{
		Name:         shortName(h.Name[0:8], h.Name[8:11]),
		Attributes:   attr,
		WriteTime:    h.WriteTime,
		WriteDate:    h.WriteDate,
		FirstCluster: h.FirstClusterLO,
		Size:         h.FileSize,
	}, slotEntry
}

// shortName joins the space padded base and extension.
// Bytes outside of ASCII are dropped.
func shortName(base, ext []byte) string {
	name := strings.TrimRight(asciiOnly(base), " ")
	if extension := strings.TrimRight(asciiOnly(ext), " "); extension != "" {
		name += "." + extension
	}
	return name
}

func asciiOnly(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
