package torrent

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// ProgressFunc is invoked once per completed piece with the path of the
// file being read and the running piece counts. Returning true cancels
// the generation pass.
type ProgressFunc func(path string, completed, total int) bool

// pieceHasher converts an ordered file list into the piece digest
// table. A single rolling buffer spans file boundaries: a piece's bytes
// may come from the tail of one file concatenated with the head of the
// next, so SHA-1 never needs to know which file a piece belongs to.
// Only the MD5 accumulator is scoped per file.
type pieceHasher struct {
	pieceLen   int64
	includeMD5 bool
	files      []*fileEntry
	progress   ProgressFunc

	// buf holds bytes carried across reads and files. The leftover
	// after cutting pieces is always shorter than one piece, so the
	// buffer never grows past two pieces.
	buf       []byte
	pieces    []byte
	numPieces int
	completed int
}

func newPieceHasher(files []*fileEntry, pieceLen, totalSize int64, includeMD5 bool, progress ProgressFunc) *pieceHasher {
	numPieces := int((totalSize + pieceLen - 1) / pieceLen)
	return &pieceHasher{
		pieceLen:   pieceLen,
		includeMD5: includeMD5,
		files:      files,
		progress:   progress,
		buf:        make([]byte, 0, 2*pieceLen),
		pieces:     make([]byte, 0, numPieces*sha1.Size),
		numPieces:  numPieces,
	}
}

// cutPiece hashes one piece-size prefix of the rolling buffer (the
// whole remainder when shorter) and drops the consumed bytes. The copy
// moves less than one piece of leftover, so removal stays linear in the
// remaining bytes.
func (h *pieceHasher) cutPiece(path string) error {
	n := h.pieceLen
	if int64(len(h.buf)) < n {
		n = int64(len(h.buf))
	}
	sum := sha1.Sum(h.buf[:n])
	h.pieces = append(h.pieces, sum[:]...)
	h.buf = h.buf[:copy(h.buf, h.buf[n:])]
	h.completed++
	if h.progress != nil && h.progress(path, h.completed, h.numPieces) {
		return ErrCancelled
	}
	return nil
}

// hashFile streams one file through the rolling buffer in piece-size
// chunks. The MD5 accumulator sees each raw chunk exactly once, so it
// covers the file's own bytes only, unaffected by piece slicing.
func (h *pieceHasher) hashFile(fe *fileEntry) error {
	f, err := os.Open(fe.path)
	if err != nil {
		return err
	}
	defer f.Close()

	var md5sum hash.Hash
	if h.includeMD5 {
		md5sum = md5.New()
	}

	chunk := make([]byte, h.pieceLen)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			h.buf = append(h.buf, chunk[:n]...)
			if md5sum != nil {
				md5sum.Write(chunk[:n])
			}
			for int64(len(h.buf)) >= h.pieceLen {
				if cerr := h.cutPiece(fe.path); cerr != nil {
					return cerr
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	if md5sum != nil {
		fe.md5sum = hex.EncodeToString(md5sum.Sum(nil))
	}
	return nil
}

// hashPieces streams every file in order and returns the concatenated
// piece digests. On cancellation or I/O failure no partial digests are
// retained.
func (h *pieceHasher) hashPieces() ([]byte, error) {
	for _, fe := range h.files {
		if err := h.hashFile(fe); err != nil {
			if err == ErrCancelled {
				return nil, err
			}
			return nil, fmt.Errorf("error hashing %q: %w", fe.path, err)
		}
	}

	// one short final piece may remain after the last file
	var last string
	if len(h.files) > 0 {
		last = h.files[len(h.files)-1].path
	}
	for len(h.buf) > 0 {
		if err := h.cutPiece(last); err != nil {
			return nil, err
		}
	}
	return h.pieces, nil
}
