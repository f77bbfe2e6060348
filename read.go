package fat16

import (
	"io"

	"github.com/aligator/fat16/checkpoint"
)

// ReadFile returns the content of the file starting at firstCluster with the given size.
// The result is never longer than size. If the cluster chain or the image ends before
// size bytes are read, the shorter content is returned without an error.
func (fs *Fs) ReadFile(firstCluster uint16, size uint32) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}

	data, complete, err := fs.readRange(firstCluster, 0, int64(size))
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadFile)
	}

	if !complete {
		fs.log.Warnw("file content is shorter than its declared size",
			"firstCluster", firstCluster,
			"size", size,
			"read", len(data))
	}

	return data, nil
}

// ReadPath reads the file at name, see Lookup for how names are resolved.
func (fs *Fs) ReadPath(name string) ([]byte, error) {
	entry, err := fs.Lookup(name)
	if err != nil {
		return nil, err
	}
	if entry.IsDir() {
		return nil, checkpoint.Errorf(ErrReadFile, "%s is a directory", name)
	}

	return fs.ReadFile(entry.FirstCluster, entry.Size)
}

// readFileAt reads up to readSize bytes at offset of a file of fileSize bytes.
// It returns io.EOF alongside the data if less than readSize bytes are available.
func (fs *Fs) readFileAt(cluster uint16, fileSize int64, offset int64, readSize int64) ([]byte, error) {
	if offset >= fileSize || readSize <= 0 {
		return nil, io.EOF
	}

	end := offset + readSize
	if end > fileSize {
		end = fileSize
	}

	data, _, err := fs.readRange(cluster, offset, end)
	if err != nil {
		return data, err
	}

	if int64(len(data)) < readSize {
		return data, io.EOF
	}
	return data, nil
}

// readRange reads the bytes [start, end) of the cluster chain starting at first.
// complete is false if the chain or the image ended before end was reached.
func (fs *Fs) readRange(first uint16, start, end int64) (data []byte, complete bool, err error) {
	clusterSize := fs.geometry.ClusterSize()
	if clusterSize <= 0 {
		return []byte{}, false, nil
	}

	// A chain never holds more than TotalClusters clusters, whatever the declared size says.
	capacity := end - start
	if limit := int64(fs.geometry.TotalClusters()) * clusterSize; capacity > limit {
		capacity = limit
	}
	data = make([]byte, 0, capacity)
	var clusterStart int64

	err = fs.walkChain(first, func(cluster uint16) (bool, error) {
		clusterEnd := clusterStart + clusterSize
		defer func() { clusterStart = clusterEnd }()

		if clusterEnd <= start {
			return true, nil
		}

		from, to := clusterStart, clusterEnd
		if from < start {
			from = start
		}
		if to > end {
			to = end
		}

		chunk := make([]byte, to-from)
		offset := fs.geometry.ClusterOffset(cluster) + (from - clusterStart)
		n, err := fs.reader.ReadAt(chunk, offset)
		data = append(data, chunk[:n]...)
		if n < len(chunk) {
			if err != nil && err != io.EOF {
				return false, checkpoint.From(err)
			}
			// The image ends inside of the file.
			return false, nil
		}

		return clusterEnd < end, nil
	})

	return data, int64(len(data)) == end-start, err
}
