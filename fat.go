package fat16

import (
	"encoding/binary"

	"github.com/aligator/fat16/checkpoint"
)

// fatEntry is the raw value of one FAT16 table slot.
type fatEntry uint16

const (
	freeCluster  fatEntry = 0x0000
	firstCluster fatEntry = 0x0002
	maxCluster   fatEntry = 0xFFEF
	badCluster   fatEntry = 0xFFF7
	endOfChain   fatEntry = 0xFFF8
)

// IsFree reports an unallocated cluster.
func (e fatEntry) IsFree() bool {
	return e == freeCluster
}

// IsNextCluster reports whether e points to another data cluster.
func (e fatEntry) IsNextCluster() bool {
	return e >= firstCluster && e <= maxCluster
}

// IsReserved reports the values which are neither data clusters nor markers
// a chain may legally contain.
func (e fatEntry) IsReserved() bool {
	return e == 0x0001 || (e > maxCluster && e < badCluster)
}

// IsBad reports the bad cluster marker.
func (e fatEntry) IsBad() bool {
	return e == badCluster
}

// IsEOF reports any of the end-of-chain markers.
func (e fatEntry) IsEOF() bool {
	return e >= endOfChain
}

// next reads the FAT entry of cluster, which is the following cluster of
// the chain or an end-of-chain marker.
func (fs *Fs) next(cluster uint16) (fatEntry, error) {
	var buf [2]byte
	if err := fs.readFull(buf[:], fs.geometry.FATStart+int64(cluster)*2); err != nil {
		return 0, err
	}

	return fatEntry(binary.LittleEndian.Uint16(buf[:])), nil
}

// walkChain calls fn for each cluster of the chain starting at first, in chain order.
// It stops when fn returns false, fn fails or the end of the chain is reached.
// A chain revisiting a cluster, or growing longer than the volume has clusters,
// fails with ErrUnboundedClusterChain. A chain pointing to a free, reserved, bad
// or out of range cluster fails with ErrInvalidCluster.
func (fs *Fs) walkChain(first uint16, fn func(cluster uint16) (bool, error)) error {
	limit := fs.geometry.ClusterLimit()
	total := fs.geometry.TotalClusters()
	visited := make(map[uint16]struct{})

	current := fatEntry(first)
	for {
		if !current.IsNextCluster() || uint32(current) >= limit {
			return checkpoint.Errorf(ErrInvalidCluster, "cluster 0x%04X (chain from %d, limit %d)", uint16(current), first, limit)
		}

		cluster := uint16(current)
		if _, ok := visited[cluster]; ok {
			return checkpoint.Errorf(ErrUnboundedClusterChain, "cluster %d revisited (chain from %d)", cluster, first)
		}
		if uint32(len(visited)) >= total {
			return checkpoint.Errorf(ErrUnboundedClusterChain, "chain from %d exceeds %d clusters", first, total)
		}
		visited[cluster] = struct{}{}

		more, err := fn(cluster)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		next, err := fs.next(cluster)
		if err != nil {
			return err
		}
		if next.IsEOF() {
			return nil
		}
		current = next
	}
}

// Chain returns the cluster numbers of the chain starting at first.
func (fs *Fs) Chain(first uint16) ([]uint16, error) {
	var chain []uint16
	err := fs.walkChain(first, func(cluster uint16) (bool, error) {
		chain = append(chain, cluster)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return chain, nil
}
