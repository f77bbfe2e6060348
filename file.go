package fat16

import (
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/afero"

	"github.com/aligator/fat16/checkpoint"
)

// fatFileFs provides all methods needed from a fat filesystem for File.
// It mainly exists to be able to mock the Fs in tests.
// Generated mock using mockgen:
//
//	mockgen -source=file.go -destination=file_mock.go -package fat16
type fatFileFs interface {
	readFileAt(cluster uint16, fileSize int64, offset int64, readSize int64) ([]byte, error)
	List(cluster uint16) ([]Entry, error)
}

// File is an opened file or directory of an Fs. It implements afero.File
// for reading; all writing methods fail with syscall.EROFS.
type File struct {
	fs   fatFileFs
	path string

	entry  Entry
	stat   os.FileInfo
	offset int64
}

var _ afero.File = (*File)(nil)

func newFile(fs fatFileFs, path string, entry Entry) *File {
	return &File{
		fs:    fs,
		path:  path,
		entry: entry,
		stat:  entry.FileInfo(),
	}
}

func (f *File) Close() error {
	*f = File{}
	return nil
}

func (f *File) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.stat.Size() <= f.offset {
		return 0, io.EOF
	}

	data, err := f.fs.readFileAt(f.entry.FirstCluster, f.stat.Size(), f.offset, int64(len(p)))
	n = copy(p, data)

	// Advance even if an error occurred, errors from reading are used even if seek also errors.
	_, seekErr := f.Seek(int64(n), io.SeekCurrent)

	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}
	if seekErr != nil {
		return n, checkpoint.Wrap(seekErr, ErrReadFile)
	}

	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}

	// Reading over the end makes no sense.
	if f.stat.Size() <= off {
		return 0, io.EOF
	}

	data, err := f.fs.readFileAt(f.entry.FirstCluster, f.stat.Size(), off, int64(len(p)))
	n = copy(p, data)

	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operations except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.stat.Size() + offset
	default:
		return 0, checkpoint.Wrap(fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence), ErrSeekFile)
	}

	if offset < 0 || offset > f.stat.Size() {
		return 0, checkpoint.Wrap(fmt.Errorf("%w, offset: %v, whence: %v", afero.ErrOutOfRange, offset, whence), ErrSeekFile)
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, pathError("write", f.path, errReadOnly)
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, pathError("write", f.path, errReadOnly)
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Sync() error {
	return nil
}

func (f *File) Truncate(size int64) error {
	return pathError("truncate", f.path, errReadOnly)
}

func (f *File) Name() string {
	return f.path
}

func (f *File) Stat() (os.FileInfo, error) {
	return f.stat, nil
}

// Readdir reads the contents of a directory like os.File.Readdir.
// If count > 0 at most count entries are returned and io.EOF once all entries
// are consumed. Otherwise all remaining entries are returned.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if !f.entry.IsDir() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	content, err := f.fs.List(f.entry.FirstCluster)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	if f.offset > int64(len(content)) {
		f.offset = int64(len(content))
	}
	content = content[f.offset:]

	if count > 0 {
		if len(content) == 0 {
			return nil, io.EOF
		}
		if count < len(content) {
			content = content[:count]
		}
	}
	f.offset += int64(len(content))

	result := make([]os.FileInfo, len(content))
	for i := range content {
		result[i] = content[i].FileInfo()
	}

	return result, nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}
