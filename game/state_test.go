package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func up(c Color, t PieceType) Piece {
	return Piece{Color: c, Type: t, FaceUp: true}
}

func down(c Color, t PieceType) Piece {
	return Piece{Color: c, Type: t}
}

func TestNewBoard(t *testing.T) {
	t.Run("same seed deals the same layout", func(t *testing.T) {
		b1 := NewBoard(12345)
		b2 := NewBoard(12345)
		for i := 0; i < NumCells; i++ {
			require.Equal(t, b1.Cells[i], b2.Cells[i], "cell %d differs", i)
		}
		require.Equal(t, b1.Hash(), b2.Hash())
	})

	t.Run("different seeds usually differ", func(t *testing.T) {
		require.NotEqual(t, NewBoard(1).Cells, NewBoard(2).Cells)
	})

	t.Run("every cell is filled face-down with the standard armies", func(t *testing.T) {
		b := NewBoard(7)
		counts := map[Piece]int{}
		for _, cell := range b.Cells {
			require.True(t, cell.Occupied)
			require.False(t, cell.Piece.FaceUp)
			counts[cell.Piece]++
		}
		for _, color := range []Color{ColorA, ColorB} {
			total := 0
			for _, entry := range StandardArmy {
				require.Equal(t, entry.Count, counts[down(color, entry.Type)], "%s %s", color, entry.Type)
				total += entry.Count
			}
			require.Equal(t, ArmySize, total)
		}
		require.Equal(t, NoColor, b.SideToMove)
		require.False(t, b.GameOver)
		require.Equal(t, NumCells, b.FaceDownCount())
	})

	t.Run("random board returns its seed", func(t *testing.T) {
		b, seed := NewRandomBoard()
		require.Equal(t, NewBoard(seed).Cells, b.Cells)
	})
}

func TestPerformFlip(t *testing.T) {
	b := NewBoard(12345)
	first, _ := b.At(PositionAt(0))

	require.True(t, b.Perform(Flip(PositionAt(0))))
	require.Equal(t, first.Color.Opponent(), b.SideToMove, "first flip hands the move to the other color")
	revealed, _ := b.At(PositionAt(0))
	require.True(t, revealed.FaceUp)

	side := b.SideToMove
	require.True(t, b.Perform(Flip(PositionAt(1))))
	require.Equal(t, side.Opponent(), b.SideToMove)

	require.False(t, b.Perform(Flip(PositionAt(0))), "face-up piece cannot be flipped again")
}

func TestPerformIllegalLeavesBoardUnchanged(t *testing.T) {
	pregame := NewBoard(3)

	midgame := NewEmptyBoard()
	midgame.Place(Pos(1, 1), up(ColorA, General))
	midgame.Place(Pos(1, 2), up(ColorB, Soldier))
	midgame.Place(Pos(2, 1), up(ColorB, Horse))
	midgame.Place(Pos(3, 7), down(ColorB, Chariot))
	midgame.SideToMove = ColorA

	cases := []struct {
		name   string
		board  *Board
		action Action
	}{
		{"move before side is determined", pregame, Move(Pos(0, 0), Pos(0, 1))},
		{"flip out of bounds", pregame, Flip(Pos(4, 0))},
		{"move out of bounds", midgame, Move(Pos(1, 1), Pos(1, -1))},
		{"flip empty cell", midgame, Flip(Pos(0, 0))},
		{"flip face-up piece", midgame, Flip(Pos(1, 1))},
		{"move opponent piece", midgame, Move(Pos(2, 1), Pos(3, 1))},
		{"general captures soldier", midgame, Capture(Pos(1, 1), Pos(1, 2))},
		{"move two cells", midgame, Move(Pos(1, 1), Pos(1, 3))},
		{"move typed as capture", midgame, Capture(Pos(1, 1), Pos(0, 1))},
		{"capture typed as move", midgame, Move(Pos(1, 1), Pos(2, 1))},
		{"move face-down piece", midgame, Move(Pos(3, 7), Pos(3, 6))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := *tc.board
			require.False(t, tc.board.Perform(tc.action))
			require.Equal(t, before, *tc.board)
		})
	}
}

func TestPerformMoveAndCapture(t *testing.T) {
	b := NewEmptyBoard()
	b.Place(Pos(1, 1), up(ColorA, Chariot))
	b.Place(Pos(1, 2), up(ColorB, Horse))
	b.Place(Pos(3, 7), down(ColorB, Soldier))
	b.SideToMove = ColorA

	require.True(t, b.Perform(Capture(Pos(1, 1), Pos(1, 2))))
	_, occupied := b.At(Pos(1, 1))
	require.False(t, occupied)
	piece, _ := b.At(Pos(1, 2))
	require.Equal(t, up(ColorA, Chariot), piece)
	require.Equal(t, 1, b.PieceCount(ColorB))
	require.Equal(t, ColorB, b.SideToMove)

	require.True(t, b.Perform(Flip(Pos(3, 7))))
	require.Equal(t, ColorA, b.SideToMove)

	require.True(t, b.Perform(Move(Pos(1, 2), Pos(1, 3))))
	require.Equal(t, ColorB, b.SideToMove)
}

func TestTerminalDetection(t *testing.T) {
	t.Run("side with no pieces loses", func(t *testing.T) {
		b := NewEmptyBoard()
		b.Place(Pos(0, 0), up(ColorA, Soldier))
		b.SideToMove = ColorA

		require.True(t, b.Perform(Move(Pos(0, 0), Pos(0, 1))))
		require.True(t, b.GameOver)
		require.Equal(t, ColorA, b.Winner)
		require.Empty(t, b.LegalActions())
		require.False(t, b.Perform(Move(Pos(0, 1), Pos(0, 2))))
	})

	t.Run("blocked side loses", func(t *testing.T) {
		b := NewEmptyBoard()
		b.Place(Pos(0, 0), up(ColorB, Horse))
		b.Place(Pos(0, 1), up(ColorA, General))
		b.Place(Pos(1, 0), up(ColorA, Advisor))
		b.Place(Pos(3, 7), up(ColorA, Soldier))
		b.SideToMove = ColorA

		require.True(t, b.Perform(Move(Pos(3, 7), Pos(3, 6))))
		require.True(t, b.GameOver)
		require.Equal(t, ColorA, b.Winner)
		require.Nil(t, b.LegalActions())
	})

	t.Run("face-down pieces keep the game alive", func(t *testing.T) {
		b := NewEmptyBoard()
		b.Place(Pos(0, 0), up(ColorA, Soldier))
		b.Place(Pos(3, 7), down(ColorB, Soldier))
		b.SideToMove = ColorA

		require.True(t, b.Perform(Move(Pos(0, 0), Pos(0, 1))))
		require.False(t, b.GameOver)
		require.Equal(t, []Action{Flip(Pos(3, 7))}, b.LegalActions())
	})
}

func TestPlay(t *testing.T) {
	b := NewBoard(42)
	next := b.Play(Flip(PositionAt(5)))
	require.Equal(t, NoColor, b.SideToMove, "Play must not touch the receiver")
	require.NotEqual(t, NoColor, next.SideToMove)

	require.Panics(t, func() { next.Play(Flip(PositionAt(5))) })
}

func TestCopyIsDeep(t *testing.T) {
	b := NewBoard(9)
	cp := b.Copy()
	cp.Remove(PositionAt(0))
	_, occupied := b.At(PositionAt(0))
	require.True(t, occupied)
	require.NotEqual(t, b.Hash(), cp.Hash())
}
