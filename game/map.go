package game

import "fmt"

// Board geometry
const (
	Columns  = 4
	Rows     = 8
	NumCells = Columns * Rows
)

// Position addresses one cell of the 4x8 grid.
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Direction is a single orthogonal step.
type Direction struct {
	DCol int
	DRow int
}

// Directions lists the four orthogonal steps in enumeration order: up, right, down, left.
var Directions = [4]Direction{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

// Pos is shorthand for Position{Col: col, Row: row}.
func Pos(col, row int) Position {
	return Position{Col: col, Row: row}
}

// PositionAt returns the position stored at a cell index.
func PositionAt(index int) Position {
	return Position{Col: index % Columns, Row: index / Columns}
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.Col >= 0 && p.Col < Columns && p.Row >= 0 && p.Row < Rows
}

// Index returns the cell index of an in-bounds position.
func (p Position) Index() int {
	return p.Row*Columns + p.Col
}

func (p Position) Add(d Direction) Position {
	return Position{Col: p.Col + d.DCol, Row: p.Row + d.DRow}
}

// Neighbors returns the in-bounds orthogonal neighbors in direction order.
func (p Position) Neighbors() []Position {
	neighbors := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		if n := p.Add(d); n.InBounds() {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// IsCenter reports whether the position is one of the four central cells.
func (p Position) IsCenter() bool {
	return (p.Col == 1 || p.Col == 2) && (p.Row == 3 || p.Row == 4)
}

// IsEdge reports whether the position touches the border of the board.
func (p Position) IsEdge() bool {
	return p.Col == 0 || p.Col == Columns-1 || p.Row == 0 || p.Row == Rows-1
}

func (p Position) IsCorner() bool {
	return (p.Col == 0 || p.Col == Columns-1) && (p.Row == 0 || p.Row == Rows-1)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
}

// Distance returns the Manhattan distance between two positions.
func Distance(a, b Position) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

// centerDistance returns the distance to the nearest central cell.
func centerDistance(p Position) int {
	best := NumCells
	for _, c := range centerCells {
		if d := Distance(p, c); d < best {
			best = d
		}
	}
	return best
}

var centerCells = [4]Position{{1, 3}, {2, 3}, {1, 4}, {2, 4}}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
