package fat16

import (
	"errors"
	"os"
	"syscall"
)

// These errors may occur while reading the filesystem.
// All returned errors can be checked with errors.Is against them.
var (
	ErrInvalidBootSector     = errors.New("invalid boot sector")
	ErrTruncatedRead         = errors.New("truncated read")
	ErrUnboundedClusterChain = errors.New("unbounded cluster chain")
	ErrInvalidCluster        = errors.New("invalid cluster in chain")
	ErrDirectoryCycle        = errors.New("directory cycle")
	ErrMaxDepth              = errors.New("maximum directory depth exceeded")
	ErrNotDirectory          = errors.New("not a directory")
	ErrNotExist              = os.ErrNotExist
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// errReadOnly is returned by every operation which would modify the filesystem.
var errReadOnly = syscall.EROFS

// pathError reports err for the afero and io/fs facing methods.
// Lookup failures are normalized so that os.IsNotExist and friends work on the result.
func pathError(op, name string, err error) error {
	switch {
	case errors.Is(err, ErrNotExist):
		err = os.ErrNotExist
	case errors.Is(err, ErrNotDirectory):
		err = syscall.ENOTDIR
	}

	return &os.PathError{Op: op, Path: name, Err: err}
}
