package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/justapithecus/arenaviz/types"
)

// Fixed tag names. Robot, Maze and Bomb tags embed indices after an
// underscore, e.g. {Robot_3}, {Maze_0}, {Bomb_4_7}.
const (
	tagState       = "State"
	tagGrid        = "Grid"
	tagDrawLineXY  = "drawLineXY"
	tagDrawLineIJ  = "drawLineIJ"
	tagDrawPointXY = "drawPointXY"
	tagDrawPointIJ = "drawPointIJ"

	prefixRobot = "Robot_"
	prefixMaze  = "Maze_"
	prefixBomb  = "Bomb_"
)

// bitmapMask keeps the 13 meaningful bits of a maze cell bitmap. Wider values
// are accepted and truncated; negative values are malformed.
const bitmapMask = 1<<13 - 1

// Classify maps one raw log line to a record.
//
// Errors:
//   - *Error: the line carries a known tag but its tag indices or fields are
//     malformed. The line should be dropped.
func Classify(line string) (Record, error) {
	tag, rest, ok := findTag(line)
	if !ok {
		if _, msg, found := strings.Cut(line, FreeTextDelimiter); found {
			return FreeText{Message: msg}, nil
		}
		return Unrecognized{}, nil
	}

	fields := splitFields(rest)

	switch {
	case tag == tagState:
		return parseFrameStart(fields)
	case tag == tagGrid:
		return parseGridSize(fields)
	case tag == tagDrawLineXY:
		return parseDrawLine(tag, SpaceXY, fields)
	case tag == tagDrawLineIJ:
		return parseDrawLine(tag, SpaceIJ, fields)
	case tag == tagDrawPointXY:
		return parseDrawPoint(tag, SpaceXY, fields)
	case tag == tagDrawPointIJ:
		return parseDrawPoint(tag, SpaceIJ, fields)
	case strings.HasPrefix(tag, prefixRobot):
		return parseRobot(tag, fields)
	case strings.HasPrefix(tag, prefixMaze):
		return parseMazeRow(tag, fields)
	case strings.HasPrefix(tag, prefixBomb):
		return parseBomb(tag, fields)
	}

	// findTag only returns known tags.
	return Unrecognized{}, nil
}

// findTag returns the first known brace-delimited tag in line and the text
// following its closing brace.
func findTag(line string) (tag, rest string, ok bool) {
	for start := 0; start < len(line); {
		open := strings.IndexByte(line[start:], '{')
		if open < 0 {
			return "", "", false
		}
		open += start
		end := strings.IndexByte(line[open+1:], '}')
		if end < 0 {
			return "", "", false
		}
		end += open + 1

		name := line[open+1 : end]
		if isKnownTag(name) {
			return name, line[end+1:], true
		}
		start = open + 1
	}
	return "", "", false
}

func isKnownTag(name string) bool {
	switch name {
	case tagState, tagGrid, tagDrawLineXY, tagDrawLineIJ, tagDrawPointXY, tagDrawPointIJ:
		return true
	}
	return strings.HasPrefix(name, prefixRobot) ||
		strings.HasPrefix(name, prefixMaze) ||
		strings.HasPrefix(name, prefixBomb)
}

// splitFields strips leading and trailing separators and splits the rest.
func splitFields(rest string) []string {
	rest = strings.Trim(rest, Separator)
	if rest == "" {
		return nil
	}
	fields := strings.Split(rest, Separator)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

func parseFrameStart(fields []string) (Record, error) {
	if len(fields) != 3 {
		return nil, fieldCountError(tagState, len(fields), "3")
	}
	timeMs, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, numericError(tagState, "time_ms", err)
	}
	loggerID, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, numericError(tagState, "logger_id", err)
	}
	shrink, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, numericError(tagState, "time_until_shrink", err)
	}
	return FrameStart{TimeMs: timeMs, LoggerID: loggerID, TimeUntilShrink: shrink}, nil
}

// parseGridSize accepts one or two fields; a second field is ignored.
func parseGridSize(fields []string) (Record, error) {
	if len(fields) < 1 || len(fields) > 2 {
		return nil, fieldCountError(tagGrid, len(fields), "1 or 2")
	}
	size, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, numericError(tagGrid, "grid_size", err)
	}
	return GridSizeUpdate{GridSize: size}, nil
}

func parseRobot(tag string, fields []string) (Record, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(tag, prefixRobot))
	if err != nil || id < 0 {
		return nil, &Error{Kind: ErrorTag, Tag: tag, Msg: "invalid robot id", Err: err}
	}
	if id == 0 {
		// Disconnected; the payload is meaningless.
		return RobotUpdate{}, nil
	}
	if len(fields) != 8 {
		return nil, fieldCountError(tag, len(fields), "8")
	}

	var p numParser
	r := types.Robot{
		ID:         id,
		X:          p.parseFloat(fields[0], "x"),
		Y:          p.parseFloat(fields[1], "y"),
		A:          p.parseFloat(fields[2], "a"),
		SpeedLimit: p.parseFloat(fields[3], "speed_limit"),
		Team:       p.parseInt(fields[4], "team"),
		IsLive:     p.parseInt(fields[5], "is_live") != 0,
		Score:      p.parseInt(fields[6], "score"),
		Inventory:  p.parseInt(fields[7], "inventory"),
	}
	if p.err != nil {
		return nil, numericError(tag, p.field, p.err)
	}
	return RobotUpdate{Robot: r}, nil
}

func parseMazeRow(tag string, fields []string) (Record, error) {
	row, err := strconv.Atoi(strings.TrimPrefix(tag, prefixMaze))
	if err != nil {
		return nil, &Error{Kind: ErrorTag, Tag: tag, Msg: "invalid row index", Err: err}
	}
	if len(fields) != types.GridCells {
		return nil, fieldCountError(tag, len(fields), strconv.Itoa(types.GridCells))
	}

	rec := MazeRow{Row: row}
	for i, f := range fields {
		b, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, numericError(tag, fmt.Sprintf("bitmap %d", i), err)
		}
		rec.Bitmaps[i] = uint32(b & bitmapMask)
	}
	return rec, nil
}

func parseBomb(tag string, fields []string) (Record, error) {
	rowStr, colStr, found := strings.Cut(strings.TrimPrefix(tag, prefixBomb), "_")
	if !found {
		return nil, &Error{Kind: ErrorTag, Tag: tag, Msg: "want Bomb_<row>_<col>"}
	}
	row, err := strconv.Atoi(rowStr)
	if err != nil {
		return nil, &Error{Kind: ErrorTag, Tag: tag, Msg: "invalid row index", Err: err}
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return nil, &Error{Kind: ErrorTag, Tag: tag, Msg: "invalid column index", Err: err}
	}
	if len(fields) != 2 {
		return nil, fieldCountError(tag, len(fields), "2")
	}

	var p numParser
	bomb := types.BombData{
		Owner: p.parseInt(fields[0], "owner"),
		Timer: p.parseFloat(fields[1], "timer"),
	}
	if p.err != nil {
		return nil, numericError(tag, p.field, p.err)
	}
	return BombUpdate{Row: row, Col: col, Bomb: bomb}, nil
}

// parseDrawLine accepts x1;y1;x2;y2[;color[;thickness]].
func parseDrawLine(tag string, space Space, fields []string) (Record, error) {
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fieldCountError(tag, len(fields), "4 to 6")
	}
	var p numParser
	coord := p.coordParser(space)
	rec := DrawLine{
		Space: space,
		X1:    coord(fields[0], "x1"),
		Y1:    coord(fields[1], "y1"),
		X2:    coord(fields[2], "x2"),
		Y2:    coord(fields[3], "y2"),
	}
	rec.Color, rec.Thickness = p.style(fields[4:])
	if p.err != nil {
		return nil, numericError(tag, p.field, p.err)
	}
	return rec, nil
}

// parseDrawPoint accepts x;y[;color[;thickness]].
func parseDrawPoint(tag string, space Space, fields []string) (Record, error) {
	if len(fields) < 2 || len(fields) > 4 {
		return nil, fieldCountError(tag, len(fields), "2 to 4")
	}
	var p numParser
	coord := p.coordParser(space)
	rec := DrawPoint{
		Space: space,
		X:     coord(fields[0], "x"),
		Y:     coord(fields[1], "y"),
	}
	rec.Color, rec.Thickness = p.style(fields[2:])
	if p.err != nil {
		return nil, numericError(tag, p.field, p.err)
	}
	return rec, nil
}

// numParser parses a run of numeric fields and keeps the first failure.
type numParser struct {
	field string
	err   error
}

func (p *numParser) fail(field string, err error) {
	if p.err == nil {
		p.field, p.err = field, err
	}
}

func (p *numParser) parseInt(s, field string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *numParser) parseFloat(s, field string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(field, err)
	}
	return v
}

// coordParser returns a parser for draw coordinates: floats in XY space,
// whole indices in IJ space.
func (p *numParser) coordParser(space Space) func(s, field string) float64 {
	if space == SpaceIJ {
		return func(s, field string) float64 { return float64(p.parseInt(s, field)) }
	}
	return p.parseFloat
}

// style parses the optional color and thickness suffix of a draw record.
func (p *numParser) style(opt []string) (color string, thickness int) {
	color, thickness = types.DefaultColor, types.DefaultThickness
	if len(opt) > 0 {
		color = opt[0]
	}
	if len(opt) > 1 {
		thickness = p.parseInt(opt[1], "thickness")
	}
	return color, thickness
}
