package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strings"

	"darkchess/utils"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// Cell is one square of the grid. An empty cell has Occupied == false.
type Cell struct {
	Occupied bool  `json:"occupied"`
	Piece    Piece `json:"piece"`
}

// Board is the complete dynamic state of a game. SideToMove is NoColor until the first flip.
type Board struct {
	Cells      [NumCells]Cell `json:"cells"`
	SideToMove Color          `json:"sideToMove"`
	GameOver   bool           `json:"gameOver"`
	Winner     Color          `json:"winner"`
}

// NewBoard shuffles both armies with a PCG source seeded by seed and deals them face-down.
// Equal seeds produce identical layouts.
func NewBoard(seed uint64) *Board {
	pieces := standardPieces()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(pieces), func(i, j int) {
		pieces[i], pieces[j] = pieces[j], pieces[i]
	})

	b := &Board{}
	for i, piece := range pieces {
		b.Cells[i] = Cell{Occupied: true, Piece: piece}
	}
	return b
}

// NewRandomBoard deals a board from a fresh random seed and returns the seed with it.
func NewRandomBoard() (*Board, uint64) {
	seed := RandomSeed()
	return NewBoard(seed), seed
}

// RandomSeed draws a deal seed from a CSPRNG.
func RandomSeed() uint64 {
	return frand.Uint64n(1 << 63)
}

// NewEmptyBoard returns a board with no pieces and an undetermined side to move.
// Use Place to set up positions.
func NewEmptyBoard() *Board {
	return &Board{}
}

// Place puts a piece on a cell, replacing whatever was there.
func (b *Board) Place(p Position, piece Piece) {
	b.Cells[p.Index()] = Cell{Occupied: true, Piece: piece}
}

// Remove empties a cell.
func (b *Board) Remove(p Position) {
	b.Cells[p.Index()] = Cell{}
}

// At returns the piece on a cell and whether the cell is occupied.
func (b *Board) At(p Position) (Piece, bool) {
	if !p.InBounds() {
		return Piece{}, false
	}
	cell := b.Cells[p.Index()]
	return cell.Piece, cell.Occupied
}

// Copy returns a deep copy. Board holds no references, so a value copy suffices.
func (b *Board) Copy() *Board {
	cp := *b
	return &cp
}

// FaceDownCount returns the number of unrevealed pieces.
func (b *Board) FaceDownCount() int {
	n := 0
	for _, cell := range b.Cells {
		if cell.Occupied && !cell.Piece.FaceUp {
			n++
		}
	}
	return n
}

// FaceUpCount returns the number of revealed pieces of both colors.
func (b *Board) FaceUpCount() int {
	n := 0
	for _, cell := range b.Cells {
		if cell.Occupied && cell.Piece.FaceUp {
			n++
		}
	}
	return n
}

// PieceCount returns the number of pieces a color still has, face-down ones included.
func (b *Board) PieceCount(color Color) int {
	n := 0
	for _, cell := range b.Cells {
		if cell.Occupied && cell.Piece.Color == color {
			n++
		}
	}
	return n
}

// Find returns the positions of the pieces of a color and type.
func (b *Board) Find(color Color, t PieceType) []Position {
	var positions []Position
	for i, cell := range b.Cells {
		if cell.Occupied && cell.Piece.Color == color && cell.Piece.Type == t {
			positions = append(positions, PositionAt(i))
		}
	}
	return positions
}

// Player returns the identifier of the side to move.
func (b *Board) Player() string {
	return b.SideToMove.String()
}

// Perform validates and applies a single action. It returns false and leaves the
// board untouched when the action is illegal.
func (b *Board) Perform(a Action) bool {
	if b.GameOver || !a.From.InBounds() || !a.To.InBounds() {
		return false
	}

	switch a.Type {
	case FlipAction:
		if a.From != a.To {
			return false
		}
		cell := &b.Cells[a.From.Index()]
		if !cell.Occupied || cell.Piece.FaceUp {
			return false
		}
		cell.Piece.FaceUp = true
		if b.SideToMove == NoColor {
			b.SideToMove = cell.Piece.Color.Opponent()
		} else {
			b.SideToMove = b.SideToMove.Opponent()
		}
	case MoveAction, CaptureAction:
		if b.SideToMove == NoColor {
			return false
		}
		cell := b.Cells[a.From.Index()]
		if !cell.Occupied || !cell.Piece.FaceUp || cell.Piece.Color != b.SideToMove {
			return false
		}
		legal := b.ActionsFrom(a.From)
		if utils.FindIndex(legal, a) < 0 {
			return false
		}
		b.Cells[a.To.Index()] = cell
		b.Cells[a.From.Index()] = Cell{}
		b.SideToMove = b.SideToMove.Opponent()
	default:
		return false
	}

	b.detectTerminal()
	return true
}

// Play returns a copy of the board with the action applied. The action must come
// from LegalActions; a rejection means the generator and applier disagree.
func (b *Board) Play(a Action) *Board {
	next := b.Copy()
	if !next.Perform(a) {
		panic(fmt.Sprintf("generator/applier disagreement: %s rejected on\n%s", a, b))
	}
	return next
}

func (b *Board) detectTerminal() {
	if b.FaceDownCount() > 0 {
		return
	}
	if !b.HasMoves(b.SideToMove) {
		b.GameOver = true
		b.Winner = b.SideToMove.Opponent()
	}
}

func (b *Board) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int8(b.SideToMove))

	for _, cell := range b.Cells {
		var face int8
		if cell.Piece.FaceUp {
			face = 1
		}
		if !cell.Occupied {
			binary.Write(hasher, binary.LittleEndian, [3]int8{})
			continue
		}
		binary.Write(hasher, binary.LittleEndian, [3]int8{int8(cell.Piece.Color), int8(cell.Piece.Type), face})
	}

	return StateHash(hasher.Sum64())
}

// String renders the board top row first, one cell per column.
func (b *Board) String() string {
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Columns; col++ {
			cell := b.Cells[Pos(col, row).Index()]
			if col > 0 {
				sb.WriteByte(' ')
			}
			if !cell.Occupied {
				sb.WriteString("  .  ")
				continue
			}
			fmt.Fprintf(&sb, "%-5s", shortPiece(cell.Piece))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "to move: %s", b.SideToMove)
	if b.GameOver {
		fmt.Fprintf(&sb, ", winner: %s", b.Winner)
	}
	return sb.String()
}

func shortPiece(p Piece) string {
	if !p.FaceUp {
		return "  ?  "
	}
	return fmt.Sprintf("%s%s", p.Color, strings.ToUpper(p.Type.String()[:2]))
}
