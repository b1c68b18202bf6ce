// Package types defines the arena replay domain types.
//
//nolint:revive // types is a common Go package naming convention
package types

// Arena geometry. The arena is a square of ArenaSize metres split into
// GridCells x GridCells cells.
const (
	GridCells = 12
	ArenaSize = 3.0
)

// ShrinkTime is the period in seconds between two shrinks of the active
// sub-grid. Players use it to scale the time-until-shrink gauge.
const ShrinkTime = 20.0

// Annotation defaults applied when a draw record omits them.
const (
	DefaultColor     = "#ffffff"
	DefaultThickness = 1
)

// IndexToMetric converts a grid index into a metric arena coordinate.
// No clamping is applied: out-of-range indices map outside the arena.
func IndexToMetric(index int) float64 {
	return float64(index) * ArenaSize / GridCells
}

// SourceMeta identifies the input a replay was loaded from.
// Its fields are attached to every log entry.
type SourceMeta struct {
	// Path is the file the replay was read from ("-" for stdin).
	Path string
	// Format is "log" for text logs and "archive" for .arena files.
	Format string
}
