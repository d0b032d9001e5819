package torrent

import "math"

const (
	// MinPieceSize is the smallest accepted piece size: 16 KiB.
	MinPieceSize = 1 << 14

	// MaxPieceSize is the largest recommended piece size: 4 MiB. The
	// automatic selection never exceeds it; explicit sizes above it are
	// accepted with a warning.
	MaxPieceSize = 1 << 22

	// piecesTarget is the piece count the automatic selection aims for.
	piecesTarget = 1500
)

// calculatePieceSize picks the smallest power of two that keeps the
// piece count at or below ~1500, clamped into
// [MinPieceSize, MaxPieceSize]. totalSize must be positive; callers
// reject empty input before getting here.
func calculatePieceSize(totalSize int64) int64 {
	exp := math.Ceil(math.Log2(float64(totalSize) / piecesTarget))
	if exp < 0 {
		exp = 0
	}
	size := int64(1) << uint(exp)
	if size < MinPieceSize {
		return MinPieceSize
	}
	if size > MaxPieceSize {
		return MaxPieceSize
	}
	return size
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}
