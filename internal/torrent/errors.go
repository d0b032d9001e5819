package torrent

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the input path does not exist.
	ErrInvalidInput = errors.New("input path does not exist")

	// ErrEmptyInput is returned when the resolved file set is empty or
	// totals zero bytes.
	ErrEmptyInput = errors.New("input contains no files or no data")

	// ErrInvalidPieceSize is returned for piece sizes that are not a
	// power of two or fall below the 16 KiB minimum.
	ErrInvalidPieceSize = errors.New("invalid piece size")

	// ErrNotGenerated is returned when the metainfo document is requested
	// before a successful Generate call.
	ErrNotGenerated = errors.New("torrent has not been generated")

	// ErrCancelled is returned when the progress callback requested
	// cancellation. It is never wrapped together with an I/O error so
	// callers can tell "user cancelled" apart from "read error".
	ErrCancelled = errors.New("torrent generation cancelled")
)

// InvalidURLError reports a tracker or web seed entry that is not an
// absolute URL.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL: %q", e.URL)
}
