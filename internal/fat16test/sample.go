package fat16test

// Pattern returns n deterministic bytes, different for different seeds.
func Pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i%251)
	}
	return b
}

// Sample contents by path.
var (
	Readme  = []byte("Songs are in MUSIC, the best one is SONG.MP3.\n")
	Song    = Pattern(1300, 1)
	Track01 = Pattern(700, 2)
	Track02 = Pattern(10, 3)
	Track03 = Pattern(5, 4)
)

// Sample builds an image on DefaultLayout with this tree:
//
//	README.TXT
//	MUSIC/               clusters 4 -> 5
//	MUSIC/TRACK01.MP3    clusters 20 -> 21
//	MUSIC/TRACK02.MP3    cluster 22
//	MUSIC/LIVE/          cluster 6
//	MUSIC/LIVE/TRACK03.MP3
//	SONG.MP3             clusters 10 -> 11 -> 13
//	EMPTY/               cluster 12
//
// The root directory also holds a volume label, a deleted file, a long
// filename slot and, after its end marker, a file which must not be listed.
// The first cluster of MUSIC ends with an end marker followed by GHOST.MP3,
// TRACK02.MP3 and LIVE are in its second cluster.
func Sample() *Image {
	img := New(DefaultLayout())

	img.WriteRootSlot(0, VolumeSlot("TESTVOL"))
	img.WriteRootSlot(1, FileSlot("README", "TXT", 2, uint32(len(Readme))))
	img.WriteRootSlot(2, DeletedSlot("OLD", "MP3", 3, 100))
	img.WriteRootSlot(3, DirSlot("MUSIC", 4))
	img.WriteRootSlot(4, LongNameSlot(0x41, "song"))
	img.WriteRootSlot(5, FileSlot("SONG", "MP3", 10, uint32(len(Song))))
	img.WriteRootSlot(6, DirSlot("EMPTY", 12))
	// Slot 7 stays zero and ends the root directory.
	img.WriteRootSlot(8, FileSlot("HIDDEN", "TXT", 30, 1))

	img.WriteData(Readme, 2)
	img.WriteData(Song, 10, 11, 13)
	img.Chain(12)

	img.Chain(4, 5)
	img.WriteClusterSlot(4, 0, DirSlot(".", 4))
	img.WriteClusterSlot(4, 1, DirSlot("..", 0))
	img.WriteClusterSlot(4, 2, FileSlot("TRACK01", "MP3", 20, uint32(len(Track01))))
	// Slot 3 stays zero and ends the first cluster.
	img.WriteClusterSlot(4, 4, FileSlot("GHOST", "MP3", 31, 1))
	img.WriteClusterSlot(5, 0, FileSlot("TRACK02", "MP3", 22, uint32(len(Track02))))
	img.WriteClusterSlot(5, 1, DirSlot("LIVE", 6))

	img.Chain(6)
	img.WriteClusterSlot(6, 0, DirSlot(".", 6))
	img.WriteClusterSlot(6, 1, DirSlot("..", 4))
	img.WriteClusterSlot(6, 2, FileSlot("TRACK03", "MP3", 23, uint32(len(Track03))))

	img.WriteData(Track01, 20, 21)
	img.WriteData(Track02, 22)
	img.WriteData(Track03, 23)

	return img
}
