package reader

// Reader abstracts read-only access to one replay for CLI commands.
// Implementations never mutate the frames they serve.
type Reader interface {
	// Frame describes the frame at index.
	Frame(index int) (*FrameView, error)
	// Cell describes the cell at (row, col) of the frame at index.
	Cell(index, row, col int) (*CellView, error)
	// Robots lists the robot entries with the given id in the frame at
	// index. id 0 lists every robot.
	Robots(index, id int) ([]RobotView, error)
	// Frames summarizes every frame in order.
	Frames() []FrameSummary
	// Stats reports how the replay was loaded.
	Stats() *StatsView
}

var _ Reader = (*Replay)(nil)
