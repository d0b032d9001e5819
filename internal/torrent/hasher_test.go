package torrent

import (
	"bytes"
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// createTestFiles writes one file per size with deterministic content
// and returns the entries plus the concatenation of all bytes.
func createTestFiles(t *testing.T, dir string, sizes []int64) ([]*fileEntry, []byte) {
	t.Helper()

	var files []*fileEntry
	var allData []byte
	for i, size := range sizes {
		path := filepath.Join(dir, fmt.Sprintf("file%c", 'a'+i))
		data := make([]byte, size)
		for j := range data {
			data[j] = byte((j + i) % 256)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		files = append(files, &fileEntry{path: path, length: size})
		allData = append(allData, data...)
	}
	return files, allData
}

// expectedPieces hashes the concatenated data the straightforward way.
func expectedPieces(data []byte, pieceLen int64) []byte {
	var pieces []byte
	total := int64(len(data))
	for offset := int64(0); offset < total; offset += pieceLen {
		end := offset + pieceLen
		if end > total {
			end = total
		}
		sum := sha1.Sum(data[offset:end])
		pieces = append(pieces, sum[:]...)
	}
	return pieces
}

func totalOf(sizes []int64) int64 {
	var total int64
	for _, s := range sizes {
		total += s
	}
	return total
}

func TestPieceHasher_PieceTable(t *testing.T) {
	tests := []struct {
		name      string
		sizes     []int64
		pieceLen  int64
		numPieces int
	}{
		{
			name:      "single file exact piece multiple",
			sizes:     []int64{32768},
			pieceLen:  16384,
			numPieces: 2,
		},
		{
			name:      "single file exactly one piece",
			sizes:     []int64{16384},
			pieceLen:  16384,
			numPieces: 1,
		},
		{
			name:      "single file with short final piece",
			sizes:     []int64{16384 + 100},
			pieceLen:  16384,
			numPieces: 2,
		},
		{
			name:      "two half-piece files produce one cross-file piece",
			sizes:     []int64{8192, 8192},
			pieceLen:  16384,
			numPieces: 1,
		},
		{
			name:      "two files spanning a piece boundary",
			sizes:     []int64{10000, 10000},
			pieceLen:  16384,
			numPieces: 2,
		},
		{
			name:      "many small files inside one piece",
			sizes:     []int64{100, 200, 300, 400},
			pieceLen:  16384,
			numPieces: 1,
		},
		{
			name:      "large file spanning many pieces",
			sizes:     []int64{1 << 20},
			pieceLen:  1 << 16,
			numPieces: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, allData := createTestFiles(t, t.TempDir(), tt.sizes)

			h := newPieceHasher(files, tt.pieceLen, totalOf(tt.sizes), false, nil)
			pieces, err := h.hashPieces()
			if err != nil {
				t.Fatalf("hashPieces failed: %v", err)
			}

			if len(pieces) != tt.numPieces*sha1.Size {
				t.Fatalf("piece table length = %d, want %d", len(pieces), tt.numPieces*sha1.Size)
			}
			if want := expectedPieces(allData, tt.pieceLen); !bytes.Equal(pieces, want) {
				t.Errorf("piece digests mismatch:\ngot  %x\nwant %x", pieces, want)
			}
		})
	}
}

func TestPieceHasher_MD5PerFile(t *testing.T) {
	sizes := []int64{10000, 20000}
	files, _ := createTestFiles(t, t.TempDir(), sizes)

	h := newPieceHasher(files, 16384, totalOf(sizes), true, nil)
	if _, err := h.hashPieces(); err != nil {
		t.Fatalf("hashPieces failed: %v", err)
	}

	// MD5 covers each file's own bytes only, never crossing boundaries
	for _, fe := range files {
		data, err := os.ReadFile(fe.path)
		if err != nil {
			t.Fatalf("failed to read back file: %v", err)
		}
		sum := md5.Sum(data)
		if want := hex.EncodeToString(sum[:]); fe.md5sum != want {
			t.Errorf("%s: md5sum = %q, want %q", fe.path, fe.md5sum, want)
		}
	}
}

func TestPieceHasher_NoMD5WhenDisabled(t *testing.T) {
	sizes := []int64{1000}
	files, _ := createTestFiles(t, t.TempDir(), sizes)

	h := newPieceHasher(files, 16384, totalOf(sizes), false, nil)
	if _, err := h.hashPieces(); err != nil {
		t.Fatalf("hashPieces failed: %v", err)
	}
	if files[0].md5sum != "" {
		t.Errorf("md5sum = %q, want empty", files[0].md5sum)
	}
}

func TestPieceHasher_Progress(t *testing.T) {
	sizes := []int64{40000, 40000}
	files, _ := createTestFiles(t, t.TempDir(), sizes)

	type call struct {
		path             string
		completed, total int
	}
	var calls []call
	h := newPieceHasher(files, 16384, totalOf(sizes), false, func(path string, completed, total int) bool {
		calls = append(calls, call{path, completed, total})
		return false
	})
	if _, err := h.hashPieces(); err != nil {
		t.Fatalf("hashPieces failed: %v", err)
	}

	wantPieces := 5 // ceil(80000 / 16384)
	if len(calls) != wantPieces {
		t.Fatalf("callback invoked %d times, want %d", len(calls), wantPieces)
	}
	for i, c := range calls {
		if c.completed != i+1 {
			t.Errorf("call %d: completed = %d, want %d", i, c.completed, i+1)
		}
		if c.total != wantPieces {
			t.Errorf("call %d: total = %d, want %d", i, c.total, wantPieces)
		}
	}
	if calls[0].path != files[0].path {
		t.Errorf("first piece attributed to %q, want %q", calls[0].path, files[0].path)
	}
	if last := calls[len(calls)-1].path; last != files[1].path {
		t.Errorf("last piece attributed to %q, want %q", last, files[1].path)
	}
}

func TestPieceHasher_Cancellation(t *testing.T) {
	sizes := []int64{100000}
	files, _ := createTestFiles(t, t.TempDir(), sizes)

	h := newPieceHasher(files, 16384, totalOf(sizes), false, func(path string, completed, total int) bool {
		return completed >= 1
	})
	pieces, err := h.hashPieces()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("error = %v, want ErrCancelled", err)
	}
	if pieces != nil {
		t.Errorf("expected no partial piece table after cancellation, got %d bytes", len(pieces))
	}
}

func TestPieceHasher_ReadError(t *testing.T) {
	files := []*fileEntry{{path: filepath.Join(t.TempDir(), "nonexistent"), length: 1024}}

	h := newPieceHasher(files, 16384, 1024, false, nil)
	_, err := h.hashPieces()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrCancelled) {
		t.Error("I/O failure must not look like a cancellation")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("underlying error not preserved: %v", err)
	}
}
