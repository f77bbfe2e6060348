package fat16

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aligator/fat16/checkpoint"
	"github.com/aligator/fat16/internal/logger"
)

// DefaultMaxDepth limits how deep Walk descends into nested directories.
const DefaultMaxDepth = 64

// Fs is a read-only FAT16 filesystem backed by an image.
// All reads address explicit offsets of the image, so an Fs keeps no cursor
// and may be used concurrently as long as the underlying io.ReaderAt allows it.
type Fs struct {
	reader io.ReaderAt
	closer io.Closer
	name   string

	geometry Geometry
	label    string

	log              *zap.SugaredLogger
	maxDepth         int
	strictEndMarker  bool
	strictBootSector bool
}

// Option configures an Fs.
type Option func(fs *Fs)

// WithLogger sets the logger used by the Fs. It defaults to the process-wide logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(fs *Fs) {
		if log != nil {
			fs.log = log
		}
	}
}

// WithMaxDepth limits how deep Walk descends. A value <= 0 disables the limit;
// cycles are still detected.
func WithMaxDepth(depth int) Option {
	return func(fs *Fs) {
		fs.maxDepth = depth
	}
}

// WithStrictEndMarker stops a subdirectory listing at the first end marker.
// By default an end marker only ends the current cluster and the listing
// continues with the next cluster of the directory.
func WithStrictEndMarker() Option {
	return func(fs *Fs) {
		fs.strictEndMarker = true
	}
}

// WithStrictBootSector enables validation of the boot sector signature and geometry fields.
func WithStrictBootSector() Option {
	return func(fs *Fs) {
		fs.strictBootSector = true
	}
}

// New opens a FAT16 filesystem from the given reader.
// The reader is not closed by Fs.Close unless it implements io.Closer and
// was opened through OpenImage.
func New(reader io.ReaderAt, opts ...Option) (*Fs, error) {
	fs := &Fs{
		reader:   reader,
		name:     "fat16",
		log:      logger.Logger(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(fs)
	}

	if err := fs.initialize(); err != nil {
		return nil, err
	}

	return fs, nil
}

// OpenImage opens the image file at path read-only. The file is closed again
// if it does not contain a usable boot sector; otherwise Close releases it.
func OpenImage(path string, opts ...Option) (*Fs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	fs, err := New(file, opts...)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	fs.closer = file
	fs.name = path
	return fs, nil
}

func (fs *Fs) initialize() error {
	sector := make([]byte, bootSectorSize)
	n, err := fs.reader.ReadAt(sector, 0)
	if n < bootSectorSize {
		if err != nil && err != io.EOF {
			return checkpoint.Wrap(err, ErrInvalidBootSector)
		}
		return checkpoint.Errorf(ErrInvalidBootSector, "image has only %d bytes, need %d", n, bootSectorSize)
	}

	geometry, bpb, err := parseBootSector(sector, fs.strictBootSector)
	if err != nil {
		return err
	}
	fs.geometry = geometry
	fs.label = volumeLabel(bpb)

	fs.log.Debugw("opened FAT16 volume",
		"label", fs.label,
		"bytesPerSector", geometry.BytesPerSector,
		"sectorsPerCluster", geometry.SectorsPerCluster,
		"fatStart", geometry.FATStart,
		"rootDirStart", geometry.RootDirStart,
		"dataStart", geometry.DataStart,
		"clusters", geometry.TotalClusters())

	return nil
}

// readFull reads exactly len(p) bytes at off.
// Fewer bytes fail with ErrTruncatedRead.
func (fs *Fs) readFull(p []byte, off int64) error {
	n, err := fs.reader.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}

	return checkpoint.Wrap(fmt.Errorf("read %d bytes at offset %d, got %d: %w", len(p), off, n, err), ErrTruncatedRead)
}

// Geometry returns the layout of the volume.
func (fs *Fs) Geometry() Geometry {
	return fs.geometry
}

// Label returns the volume label of the boot sector, or "" if there is none.
func (fs *Fs) Label() string {
	return fs.label
}

// Close releases the image if it was opened by OpenImage. It is safe to call Close more than once.
func (fs *Fs) Close() error {
	if fs.closer == nil {
		return nil
	}

	err := fs.closer.Close()
	fs.closer = nil
	return checkpoint.From(err)
}

// Open opens the file or directory at name for reading.
func (fs *Fs) Open(name string) (afero.File, error) {
	entry, err := fs.Lookup(name)
	if err != nil {
		return nil, pathError("open", name, err)
	}

	return newFile(fs, name, entry), nil
}

// OpenFile opens name like Open. Any flag requesting write access fails with syscall.EROFS.
func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, pathError("open", name, errReadOnly)
	}

	return fs.Open(name)
}

// Stat returns the FileInfo of the file or directory at name.
func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	entry, err := fs.Lookup(name)
	if err != nil {
		return nil, pathError("stat", name, err)
	}

	return entry.FileInfo(), nil
}

// Name returns the path of the image or "fat16" if it was not opened by path.
func (fs *Fs) Name() string {
	return fs.name
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, pathError("create", name, errReadOnly)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return pathError("mkdir", name, errReadOnly)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return pathError("mkdir", path, errReadOnly)
}

func (fs *Fs) Remove(name string) error {
	return pathError("remove", name, errReadOnly)
}

func (fs *Fs) RemoveAll(path string) error {
	return pathError("remove", path, errReadOnly)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: errReadOnly}
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return pathError("chmod", name, errReadOnly)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return pathError("chown", name, errReadOnly)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return pathError("chtimes", name, errReadOnly)
}
