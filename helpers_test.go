package fat16

import (
	"testing"

	"github.com/aligator/fat16/internal/fat16test"
)

// testingNew opens img and fails the test on error.
func testingNew(t *testing.T, img *fat16test.Image, opts ...Option) *Fs {
	t.Helper()

	fs, err := New(img.Reader(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return fs
}

func entryNames(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
