package fat16

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/aligator/fat16/internal/fat16test"
)

func TestNew(t *testing.T) {
	noSignature := fat16test.New(fat16test.DefaultLayout()).Bytes()
	noSignature[510] = 0

	type args struct {
		reader io.ReaderAt
		opts   []Option
	}
	tests := []struct {
		name    string
		args    args
		wantErr error
	}{
		{
			name: "sample image",
			args: args{reader: fat16test.Sample().Reader()},
		},
		{
			name:    "no FAT file",
			args:    args{reader: strings.NewReader("This is no FAT file")},
			wantErr: ErrInvalidBootSector,
		},
		{
			name:    "empty reader",
			args:    args{reader: bytes.NewReader(nil)},
			wantErr: ErrInvalidBootSector,
		},
		{
			name: "missing signature",
			args: args{reader: bytes.NewReader(noSignature)},
		},
		{
			name:    "missing signature with strict boot sector",
			args:    args{reader: bytes.NewReader(noSignature), opts: []Option{WithStrictBootSector()}},
			wantErr: ErrInvalidBootSector,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.args.reader, tt.args.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (got != nil) == (tt.wantErr != nil) {
				t.Errorf("New() = %v, wantErr %v", got, tt.wantErr)
			}
		})
	}
}

func TestFs_Geometry(t *testing.T) {
	fs := testingNew(t, fat16test.Sample())

	want := Geometry{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       16,
		TotalSectors:      68,
		SectorsPerFAT:     1,
		FATStart:          512,
		RootDirStart:      1536,
		DataStart:         2048,
	}
	if diff := cmp.Diff(want, fs.Geometry()); diff != "" {
		t.Errorf("Fs.Geometry() mismatch (-want +got):\n%s", diff)
	}
	if got := fs.Label(); got != "TESTVOL" {
		t.Errorf("Fs.Label() = %q, want %q", got, "TESTVOL")
	}
	if got := fs.Name(); got != "fat16" {
		t.Errorf("Fs.Name() = %q, want %q", got, "fat16")
	}
}

func TestOpenImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.img")
	if err := os.WriteFile(path, fat16test.Sample().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	fs, err := OpenImage(path)
	if err != nil {
		t.Fatalf("OpenImage() error = %v", err)
	}
	if got := fs.Name(); got != path {
		t.Errorf("Fs.Name() = %q, want %q", got, path)
	}

	data, err := fs.ReadPath("README.TXT")
	if err != nil {
		t.Fatalf("Fs.ReadPath() error = %v", err)
	}
	if !bytes.Equal(data, fat16test.Readme) {
		t.Errorf("Fs.ReadPath() = %q, want %q", data, fat16test.Readme)
	}

	if err := fs.Close(); err != nil {
		t.Errorf("Fs.Close() error = %v", err)
	}
	if err := fs.Close(); err != nil {
		t.Errorf("second Fs.Close() error = %v", err)
	}
}

func TestOpenImage_errors(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.img")
	if err := os.WriteFile(short, []byte("too short"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenImage(filepath.Join(dir, "missing.img")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenImage() of a missing file error = %v, want not exist", err)
	}
	if _, err := OpenImage(short); !errors.Is(err, ErrInvalidBootSector) {
		t.Errorf("OpenImage() of a short file error = %v, want %v", err, ErrInvalidBootSector)
	}
}

func TestFs_Open(t *testing.T) {
	fs := testingNew(t, fat16test.Sample())

	tests := []struct {
		name        string
		path        string
		wantDir     bool
		wantSize    int64
		wantErr     bool
		wantErrIs   error
		wantErrPath bool
	}{
		{name: "file", path: "SONG.MP3", wantSize: int64(len(fat16test.Song))},
		{name: "directory", path: "MUSIC", wantDir: true},
		{name: "root", path: "/", wantDir: true},
		{name: "missing", path: "NOPE", wantErr: true, wantErrIs: os.ErrNotExist, wantErrPath: true},
		{name: "file as directory", path: "SONG.MP3/A", wantErr: true, wantErrIs: syscall.ENOTDIR, wantErrPath: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Open(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fs.Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, tt.wantErrIs) {
					t.Errorf("Fs.Open() error = %v, want %v", err, tt.wantErrIs)
				}
				var pathErr *os.PathError
				if errors.As(err, &pathErr) != tt.wantErrPath {
					t.Errorf("Fs.Open() error = %T, want *os.PathError", err)
				}
				return
			}

			stat, err := got.Stat()
			if err != nil {
				t.Fatal(err)
			}
			if stat.IsDir() != tt.wantDir || stat.Size() != tt.wantSize {
				t.Errorf("Fs.Open() stat = dir %v size %d, want dir %v size %d", stat.IsDir(), stat.Size(), tt.wantDir, tt.wantSize)
			}
			if got.Name() != tt.path {
				t.Errorf("File.Name() = %q, want %q", got.Name(), tt.path)
			}
		})
	}
}

func TestFs_OpenFile(t *testing.T) {
	fs := testingNew(t, fat16test.Sample())

	if _, err := fs.OpenFile("SONG.MP3", os.O_RDONLY, 0); err != nil {
		t.Errorf("Fs.OpenFile() read only error = %v", err)
	}

	for _, flag := range []int{os.O_WRONLY, os.O_RDWR, os.O_RDONLY | os.O_CREATE, os.O_RDONLY | os.O_APPEND, os.O_RDONLY | os.O_TRUNC} {
		if _, err := fs.OpenFile("SONG.MP3", flag, 0o644); !errors.Is(err, syscall.EROFS) {
			t.Errorf("Fs.OpenFile() with flag %d error = %v, want %v", flag, err, syscall.EROFS)
		}
	}
}

func TestFs_Stat(t *testing.T) {
	fs := testingNew(t, fat16test.Sample())

	stat, err := fs.Stat("MUSIC/TRACK01.MP3")
	if err != nil {
		t.Fatalf("Fs.Stat() error = %v", err)
	}
	if stat.Name() != "TRACK01.MP3" || stat.Size() != int64(len(fat16test.Track01)) || stat.IsDir() {
		t.Errorf("Fs.Stat() = %s %d %v", stat.Name(), stat.Size(), stat.IsDir())
	}

	if _, err := fs.Stat("MUSIC/NOPE"); !os.IsNotExist(err) {
		t.Errorf("Fs.Stat() of a missing file error = %v, want os.IsNotExist", err)
	}
}

func TestFs_readOnly(t *testing.T) {
	fs := testingNew(t, fat16test.Sample())

	errs := map[string]error{
		"Mkdir":     fs.Mkdir("A", 0o755),
		"MkdirAll":  fs.MkdirAll("A/B", 0o755),
		"Remove":    fs.Remove("SONG.MP3"),
		"RemoveAll": fs.RemoveAll("MUSIC"),
		"Rename":    fs.Rename("SONG.MP3", "B.MP3"),
		"Chmod":     fs.Chmod("SONG.MP3", 0o777),
		"Chown":     fs.Chown("SONG.MP3", 1, 1),
		"Chtimes":   fs.Chtimes("SONG.MP3", fat16test.Date, fat16test.Date),
	}
	_, errs["Create"] = fs.Create("NEW.TXT")

	for name, err := range errs {
		if !errors.Is(err, syscall.EROFS) {
			t.Errorf("Fs.%s() error = %v, want %v", name, err, syscall.EROFS)
		}
	}
}

func TestFs_afero(t *testing.T) {
	var fs afero.Fs = testingNew(t, fat16test.Sample())

	var got []string
	err := afero.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		got = append(got, path)
		return nil
	})
	if err != nil {
		t.Fatalf("afero.Walk() error = %v", err)
	}

	// afero.Walk sorts the entries of each directory by name.
	want := []string{
		"/",
		"/EMPTY",
		"/MUSIC",
		"/MUSIC/LIVE",
		"/MUSIC/LIVE/TRACK03.MP3",
		"/MUSIC/TRACK01.MP3",
		"/MUSIC/TRACK02.MP3",
		"/README.TXT",
		"/SONG.MP3",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("afero.Walk() mismatch (-want +got):\n%s", diff)
	}

	data, err := afero.ReadFile(fs, "/SONG.MP3")
	if err != nil {
		t.Fatalf("afero.ReadFile() error = %v", err)
	}
	if !bytes.Equal(data, fat16test.Song) {
		t.Errorf("afero.ReadFile() returned %d bytes, want %d", len(data), len(fat16test.Song))
	}

	exists, err := afero.Exists(fs, "/MUSIC/LIVE")
	if err != nil || !exists {
		t.Errorf("afero.Exists() = %v, %v, want true", exists, err)
	}
	exists, err = afero.Exists(fs, "/MUSIC/DEAD")
	if err != nil || exists {
		t.Errorf("afero.Exists() = %v, %v, want false", exists, err)
	}
}
