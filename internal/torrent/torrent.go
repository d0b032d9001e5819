package torrent

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"
)

// Options carries the caller-supplied configuration for one torrent.
// New validates it eagerly; the resulting Torrent is immutable while a
// generation pass is running.
type Options struct {
	Path         string
	Trackers     []string
	WebSeeds     []string
	PieceSize    int64 // bytes, 0 selects automatically
	Private      bool
	Source       string
	Comment      string
	CreatedBy    string    // empty emits the default creator string
	CreationDate time.Time // zero value omits the field
	IncludeMD5   bool
	Entropy      bool // randomize the info hash for cross-seeding
	Exclude      []string
}

// Torrent drives the piece-hashing pipeline and holds the assembled
// metainfo document after a successful Generate call.
type Torrent struct {
	path         string
	trackers     []string
	webSeeds     []string
	pieceSize    int64
	private      bool
	source       string
	comment      string
	createdBy    string
	creationDate time.Time
	includeMD5   bool
	entropy      bool
	exclude      []string

	warnings []string

	files      []*fileEntry
	singleFile bool
	pieceLen   int64
	doc        *Dict
}

// New builds a Torrent from opts, running every validating setter.
// No I/O is performed; the input path is first touched by Info or
// Generate.
func New(opts Options) (*Torrent, error) {
	t := &Torrent{
		path:         filepath.Clean(opts.Path),
		private:      opts.Private,
		source:       opts.Source,
		comment:      opts.Comment,
		createdBy:    opts.CreatedBy,
		creationDate: opts.CreationDate,
		includeMD5:   opts.IncludeMD5,
		entropy:      opts.Entropy,
		exclude:      append([]string(nil), opts.Exclude...),
	}
	if err := t.SetTrackers(opts.Trackers); err != nil {
		return nil, err
	}
	if err := t.SetWebSeeds(opts.WebSeeds); err != nil {
		return nil, err
	}
	if err := t.SetPieceSize(opts.PieceSize); err != nil {
		return nil, err
	}
	return t, nil
}

func validateURLs(urls []string) error {
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &InvalidURLError{URL: raw}
		}
	}
	return nil
}

// SetTrackers replaces the tracker list. Every entry must be an
// absolute URL; the first invalid entry fails with *InvalidURLError.
// An empty list is valid.
func (t *Torrent) SetTrackers(urls []string) error {
	if err := validateURLs(urls); err != nil {
		return err
	}
	t.trackers = append([]string(nil), urls...)
	return nil
}

// SetWebSeeds replaces the web seed list under the same contract as
// SetTrackers.
func (t *Torrent) SetWebSeeds(urls []string) error {
	if err := validateURLs(urls); err != nil {
		return err
	}
	t.webSeeds = append([]string(nil), urls...)
	return nil
}

// SetPieceSize sets an explicit piece size in bytes. Zero clears it,
// deferring to the automatic selection. The size must be a power of two
// of at least 16 KiB; sizes above 4 MiB are accepted but record an
// advisory warning.
func (t *Torrent) SetPieceSize(n int64) error {
	if n == 0 {
		t.pieceSize = 0
		return nil
	}
	if !isPowerOfTwo(n) {
		return fmt.Errorf("%w: %d is not a power of two", ErrInvalidPieceSize, n)
	}
	if n < MinPieceSize {
		return fmt.Errorf("%w: %d is below the 16 KiB minimum", ErrInvalidPieceSize, n)
	}
	if n > MaxPieceSize {
		t.warn("piece size %d is above the recommended 4 MiB maximum", n)
	}
	t.pieceSize = n
	return nil
}

func (t *Torrent) warn(format string, args ...interface{}) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns advisory messages recorded by the setters.
func (t *Torrent) Warnings() []string {
	return append([]string(nil), t.warnings...)
}

// Name returns the torrent name: the base name of the input path.
func (t *Torrent) Name() string {
	return filepath.Base(t.path)
}

// Path returns the cleaned input path.
func (t *Torrent) Path() string {
	return t.path
}

// Trackers returns the validated tracker list in input order.
func (t *Torrent) Trackers() []string {
	return append([]string(nil), t.trackers...)
}

// WebSeeds returns the validated web seed list in input order.
func (t *Torrent) WebSeeds() []string {
	return append([]string(nil), t.webSeeds...)
}

// Info scans the input path and reports total size, file count, the
// resolved piece size and the resulting piece count without hashing
// anything. The explicit piece size wins over the automatic selection.
func (t *Torrent) Info() (totalSize int64, fileCount int, pieceSize int64, numPieces int, err error) {
	files, total, _, err := collectFiles(t.path, t.exclude)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(files) == 0 || total == 0 {
		return 0, 0, 0, 0, ErrEmptyInput
	}
	ps := t.pieceSize
	if ps == 0 {
		ps = calculatePieceSize(total)
	}
	return total, len(files), ps, int((total + ps - 1) / ps), nil
}

// Generate runs the full pass: enumerate files, resolve the piece
// size, hash every piece and assemble the metainfo document. The
// progress callback, if non-nil, is invoked once per completed piece
// and may cancel the pass, in which case Generate returns ErrCancelled
// and no document is retained. Generate discards any previous result
// first, so a Torrent may be regenerated after a failed or cancelled
// pass.
func (t *Torrent) Generate(progress ProgressFunc) error {
	t.doc = nil
	t.files = nil

	files, total, single, err := collectFiles(t.path, t.exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 || total == 0 {
		return ErrEmptyInput
	}

	pieceLen := t.pieceSize
	if pieceLen == 0 {
		pieceLen = calculatePieceSize(total)
	}

	hasher := newPieceHasher(files, pieceLen, total, t.includeMD5, progress)
	pieces, err := hasher.hashPieces()
	if err != nil {
		return err
	}

	t.files = files
	t.singleFile = single
	t.pieceLen = pieceLen
	t.doc = t.buildDocument(pieces)
	return nil
}
