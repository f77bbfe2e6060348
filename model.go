// File model contains the structs which match the direct structures of the FAT16 filesystem.

package fat16

// BPB is the BIOS parameter block at the start of the boot sector.
// All fields are little endian and packed, so it can be read with binary.Read.
type BPB struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FAT16SpecificData
}

// FAT16SpecificData directly follows the common BPB fields on FAT12 and FAT16 volumes.
type FAT16SpecificData struct {
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSignature  byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// EntryHeader is one 32 byte directory slot.
type EntryHeader struct {
	Name            [11]byte
	Attribute       byte
	NTReserved      byte
	CreateTimeTenth byte
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

const (
	bootSectorSize = 512
	dirEntrySize   = 32

	// extendedBootSignature marks a valid FAT16SpecificData block.
	extendedBootSignature = 0x29

	// Slot markers found in the first name byte.
	slotMarkerEnd     = 0x00
	slotMarkerDeleted = 0xE5
)
