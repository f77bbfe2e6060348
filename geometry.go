package fat16

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/aligator/fat16/checkpoint"
)

// Geometry describes the layout of a FAT16 volume as read from its boot sector.
// All offsets are absolute byte offsets into the image.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntries       uint16
	TotalSectors      uint32
	SectorsPerFAT     uint16

	FATStart     int64
	RootDirStart int64
	DataStart    int64
}

// newGeometry derives the region offsets from the raw boot sector fields.
func newGeometry(bpb BPB) Geometry {
	g := Geometry{
		BytesPerSector:    bpb.BytesPerSector,
		SectorsPerCluster: bpb.SectorsPerCluster,
		ReservedSectors:   bpb.ReservedSectorCount,
		NumFATs:           bpb.NumFATs,
		RootEntries:       bpb.RootEntryCount,
		TotalSectors:      uint32(bpb.TotalSectors16),
		SectorsPerFAT:     bpb.FATSize16,
	}

	if g.TotalSectors == 0 {
		g.TotalSectors = bpb.TotalSectors32
	}

	bps := int64(g.BytesPerSector)
	g.FATStart = int64(g.ReservedSectors) * bps
	g.RootDirStart = g.FATStart + int64(g.NumFATs)*int64(g.SectorsPerFAT)*bps
	g.DataStart = g.RootDirStart + int64(g.RootEntries)*dirEntrySize

	return g
}

// ClusterSize returns the size of one cluster in bytes.
func (g Geometry) ClusterSize() int64 {
	return int64(g.SectorsPerCluster) * int64(g.BytesPerSector)
}

// ClusterOffset returns the byte offset of the given data cluster.
// Data clusters are numbered from 2.
func (g Geometry) ClusterOffset(cluster uint16) int64 {
	return g.DataStart + (int64(cluster)-2)*g.ClusterSize()
}

// fatEntries is the number of 16 bit entries fitting into one FAT copy.
func (g Geometry) fatEntries() int64 {
	return int64(g.SectorsPerFAT) * int64(g.BytesPerSector) / 2
}

// TotalClusters returns the number of data clusters of the volume.
// It is derived from the total sector count and capped by the number of
// entries the FAT can address. If the sector count does not describe any
// data region, the FAT capacity is used instead.
func (g Geometry) TotalClusters() uint32 {
	addressable := g.fatEntries() - 2
	if addressable <= 0 {
		return 0
	}
	// Values from 0xFFF0 up are reserved, bad or end-of-chain markers.
	if addressable > int64(maxCluster)-1 {
		addressable = int64(maxCluster) - 1
	}

	size := int64(g.TotalSectors) * int64(g.BytesPerSector)
	if cs := g.ClusterSize(); cs > 0 && size > g.DataStart {
		if n := (size - g.DataStart) / cs; n > 0 && n < addressable {
			return uint32(n)
		}
	}

	return uint32(addressable)
}

// ClusterLimit returns the first cluster number which is not part of the data region.
func (g Geometry) ClusterLimit() uint32 {
	return g.TotalClusters() + 2
}

// parseBootSector reads the geometry from the first sector of the image.
// Without strict, only the length of sector is checked.
func parseBootSector(sector []byte, strict bool) (Geometry, BPB, error) {
	if len(sector) < bootSectorSize {
		return Geometry{}, BPB{}, checkpoint.Errorf(ErrInvalidBootSector, "got %d bytes, need %d", len(sector), bootSectorSize)
	}

	bpb := BPB{}
	err := binary.Read(bytes.NewReader(sector[:bootSectorSize]), binary.LittleEndian, &bpb)
	if err != nil {
		return Geometry{}, BPB{}, checkpoint.Wrap(err, ErrInvalidBootSector)
	}

	if strict {
		if err := validateBootSector(sector, bpb); err != nil {
			return Geometry{}, BPB{}, err
		}
	}

	return newGeometry(bpb), bpb, nil
}

func validateBootSector(sector []byte, bpb BPB) error {
	if sector[510] != 0x55 || sector[511] != 0xAA {
		return checkpoint.Errorf(ErrInvalidBootSector, "missing signature 0x55AA")
	}

	// FAT only supports 512, 1024, 2048 and 4096.
	switch bpb.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return checkpoint.Errorf(ErrInvalidBootSector, "invalid sector size %d", bpb.BytesPerSector)
	}

	// Sectors per cluster has to be a power of two and greater than 0.
	if spc := bpb.SectorsPerCluster; spc == 0 || spc&(spc-1) != 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "invalid sectors per cluster %d", spc)
	}

	if bpb.ReservedSectorCount == 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "reserved sector count is 0")
	}

	if bpb.NumFATs == 0 || bpb.FATSize16 == 0 {
		return checkpoint.Errorf(ErrInvalidBootSector, "no FAT (copies: %d, sectors per FAT: %d)", bpb.NumFATs, bpb.FATSize16)
	}

	return nil
}

// volumeLabel returns the label from the extended boot record, if there is one.
func volumeLabel(bpb BPB) string {
	if bpb.BSBootSignature != extendedBootSignature {
		return ""
	}
	return strings.TrimRight(string(bpb.BSVolumeLabel[:]), " \x00")
}
