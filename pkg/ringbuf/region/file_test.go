package region

import (
	"path/filepath"
	"testing"
)

func Test_OpenFile_Returns_Region_Of_Requested_Size(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	f, err := OpenFile(path, 65536)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got, want := len(f.Bytes()), 65536; got != want {
		t.Fatalf("len=%d, want=%d", got, want)
	}
}

func Test_OpenFile_Region_Is_Writable_And_Persists_Until_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	f, err := OpenFile(path, 4096)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer func() { _ = f.Close() }()

	copy(f.Bytes(), "hello region")

	if got, want := string(f.Bytes()[:len("hello region")]), "hello region"; got != want {
		t.Fatalf("data=%q, want=%q", got, want)
	}
}

func Test_OpenFile_Rejects_Non_Positive_Size(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	if _, err := OpenFile(path, 0); err == nil {
		t.Fatalf("OpenFile(size=0): got nil error, want non-nil")
	}
}

func Test_FileRegion_Close_Is_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.bin")

	f, err := OpenFile(path, 4096)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
