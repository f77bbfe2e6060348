package fat16

import (
	"io"

	"github.com/spf13/afero"
)

// NewIOFS opens a FAT16 filesystem from the given reader as io/fs compatible filesystem.
// Paths follow the io/fs rules, so they must not start with a slash.
func NewIOFS(reader io.ReaderAt, opts ...Option) (afero.IOFS, error) {
	fs, err := New(reader, opts...)
	if err != nil {
		return afero.IOFS{}, err
	}

	return afero.NewIOFS(fs), nil
}
