// Package fat16test builds small FAT16 images in memory for tests.
package fat16test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// EndOfChain is the marker written for the last cluster of a chain.
const EndOfChain = uint16(0xFFFF)

// Date is the modification time of every slot built by Slot.
var Date = time.Date(2021, 3, 14, 12, 30, 40, 0, time.UTC)

// Layout holds the boot sector fields used to build an image.
type Layout struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntries       uint16
	SectorsPerFAT     uint16
	// TotalSectors is written to the 16 bit field if it fits, otherwise to the 32 bit field.
	TotalSectors uint32
	Label        string
}

// DefaultLayout is a tiny volume with 512 byte sectors and clusters,
// 16 root entries and 64 data clusters.
func DefaultLayout() Layout {
	return Layout{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       16,
		SectorsPerFAT:     1,
		TotalSectors:      1 + 2 + 1 + 64,
		Label:             "TESTVOL",
	}
}

// Image is a FAT16 image under construction.
type Image struct {
	Layout Layout
	buf    []byte
}

// New creates a zeroed image with a boot sector for layout.
func New(layout Layout) *Image {
	img := &Image{
		Layout: layout,
		buf:    make([]byte, int(layout.TotalSectors)*int(layout.BytesPerSector)),
	}
	if len(img.buf) < 512 {
		img.buf = append(img.buf, make([]byte, 512-len(img.buf))...)
	}
	img.writeBootSector()

	// The first two FAT entries hold the media descriptor and the volume state.
	img.SetFAT(0, 0xFFF8)
	img.SetFAT(1, 0xFFFF)
	return img
}

func (img *Image) writeBootSector() {
	b := img.buf
	l := img.Layout

	copy(b[0:3], []byte{0xEB, 0x3C, 0x90})
	copy(b[3:11], "MSDOS5.0")
	binary.LittleEndian.PutUint16(b[11:13], l.BytesPerSector)
	b[13] = l.SectorsPerCluster
	binary.LittleEndian.PutUint16(b[14:16], l.ReservedSectors)
	b[16] = l.NumFATs
	binary.LittleEndian.PutUint16(b[17:19], l.RootEntries)
	if l.TotalSectors <= 0xFFFF {
		binary.LittleEndian.PutUint16(b[19:21], uint16(l.TotalSectors))
	} else {
		binary.LittleEndian.PutUint32(b[32:36], l.TotalSectors)
	}
	b[21] = 0xF8 // hard disk
	binary.LittleEndian.PutUint16(b[22:24], l.SectorsPerFAT)

	b[38] = 0x29
	binary.LittleEndian.PutUint32(b[39:43], 0x12345678)
	copy(b[43:54], fmt.Sprintf("%-11s", l.Label))
	copy(b[54:62], "FAT16   ")

	b[510] = 0x55
	b[511] = 0xAA
}

func (img *Image) fatStart() int {
	return int(img.Layout.ReservedSectors) * int(img.Layout.BytesPerSector)
}

func (img *Image) rootStart() int {
	return img.fatStart() + int(img.Layout.NumFATs)*int(img.Layout.SectorsPerFAT)*int(img.Layout.BytesPerSector)
}

func (img *Image) dataStart() int {
	return img.rootStart() + int(img.Layout.RootEntries)*32
}

// ClusterSize returns the cluster size in bytes.
func (img *Image) ClusterSize() int {
	return int(img.Layout.SectorsPerCluster) * int(img.Layout.BytesPerSector)
}

// ClusterOffset returns the byte offset of cluster.
func (img *Image) ClusterOffset(cluster uint16) int {
	return img.dataStart() + (int(cluster)-2)*img.ClusterSize()
}

// SetFAT sets the FAT entry of cluster in every FAT copy.
func (img *Image) SetFAT(cluster, value uint16) {
	fatSize := int(img.Layout.SectorsPerFAT) * int(img.Layout.BytesPerSector)
	for i := 0; i < int(img.Layout.NumFATs); i++ {
		off := img.fatStart() + i*fatSize + int(cluster)*2
		binary.LittleEndian.PutUint16(img.buf[off:off+2], value)
	}
}

// Chain links the given clusters in order and terminates the last one.
func (img *Image) Chain(clusters ...uint16) {
	for i, c := range clusters {
		next := EndOfChain
		if i+1 < len(clusters) {
			next = clusters[i+1]
		}
		img.SetFAT(c, next)
	}
}

// WriteRootSlot writes slot into the root directory at index.
func (img *Image) WriteRootSlot(index int, slot []byte) {
	off := img.rootStart() + index*32
	copy(img.buf[off:off+32], slot)
}

// WriteClusterSlot writes slot at index of the directory cluster.
func (img *Image) WriteClusterSlot(cluster uint16, index int, slot []byte) {
	off := img.ClusterOffset(cluster) + index*32
	copy(img.buf[off:off+32], slot)
}

// WriteData writes data spread over the given clusters and chains them.
// It panics if data does not fit.
func (img *Image) WriteData(data []byte, clusters ...uint16) {
	if len(data) > len(clusters)*img.ClusterSize() {
		panic(fmt.Sprintf("%d bytes do not fit into %d clusters", len(data), len(clusters)))
	}

	for _, c := range clusters {
		chunk := data
		if len(chunk) > img.ClusterSize() {
			chunk = chunk[:img.ClusterSize()]
		}
		data = data[len(chunk):]
		copy(img.buf[img.ClusterOffset(c):], chunk)
	}
	img.Chain(clusters...)
}

// Bytes returns the raw image.
func (img *Image) Bytes() []byte {
	return img.buf
}

// Reader returns a reader over the raw image.
func (img *Image) Reader() *bytes.Reader {
	return bytes.NewReader(img.buf)
}

// Slot builds a 32 byte directory slot. name and ext are space padded to 8 and 3 bytes.
func Slot(name, ext string, attr byte, cluster uint16, size uint32) []byte {
	slot := make([]byte, 32)
	copy(slot[0:8], fmt.Sprintf("%-8s", name))
	copy(slot[8:11], fmt.Sprintf("%-3s", ext))
	slot[11] = attr
	// Date
	binary.LittleEndian.PutUint16(slot[22:24], 12<<11|30<<5|20)
	binary.LittleEndian.PutUint16(slot[24:26], (2021-1980)<<9|3<<5|14)
	binary.LittleEndian.PutUint16(slot[26:28], cluster)
	binary.LittleEndian.PutUint32(slot[28:32], size)
	return slot
}

// FileSlot builds the slot of a regular file.
func FileSlot(name, ext string, cluster uint16, size uint32) []byte {
	return Slot(name, ext, 0x20, cluster, size)
}

// DirSlot builds the slot of a directory.
func DirSlot(name string, cluster uint16) []byte {
	return Slot(name, "", 0x10, cluster, 0)
}

// DeletedSlot builds a deleted slot which otherwise looks like a file.
func DeletedSlot(name, ext string, cluster uint16, size uint32) []byte {
	slot := FileSlot(name, ext, cluster, size)
	slot[0] = 0xE5
	return slot
}

// VolumeSlot builds a volume label slot.
func VolumeSlot(label string) []byte {
	slot := make([]byte, 32)
	copy(slot[0:11], fmt.Sprintf("%-11s", label))
	slot[11] = 0x08
	return slot
}

// LongNameSlot builds a VFAT long filename slot.
func LongNameSlot(seq byte, part string) []byte {
	slot := make([]byte, 32)
	slot[0] = seq
	for i, r := range part {
		if i >= 5 {
			break
		}
		binary.LittleEndian.PutUint16(slot[1+i*2:], uint16(r))
	}
	slot[11] = 0x0F
	return slot
}

// Truncated returns a copy of img cut after n bytes, like an image which ends early.
func Truncated(img *Image, n int) *Image {
	buf := make([]byte, n)
	copy(buf, img.buf)
	return &Image{Layout: img.Layout, buf: buf}
}
