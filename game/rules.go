package game

import "darkchess/utils"

// CanCapture applies the rank rule for every attacker except the cannon.
// The soldier always takes the general and the general never takes the soldier,
// whatever the rank order says.
func CanCapture(attacker, target PieceType) bool {
	if attacker == Soldier && target == General {
		return true
	}
	if attacker == General && target == Soldier {
		return false
	}
	return attacker.Rank() >= target.Rank()
}

// LegalActions returns every legal action for the side to move. Before the
// first flip only flips are legal; after game over nothing is.
func (b *Board) LegalActions() []Action {
	if b.GameOver {
		return nil
	}
	actions := make([]Action, 0, NumCells)
	for i := range b.Cells {
		cell := b.Cells[i]
		if cell.Occupied && !cell.Piece.FaceUp {
			actions = append(actions, Flip(PositionAt(i)))
		}
	}
	if b.SideToMove == NoColor {
		return actions
	}
	return b.appendPieceActions(actions, b.SideToMove)
}

// MovesFor returns the Move and Capture actions available to a color,
// regardless of whose turn it is.
func (b *Board) MovesFor(color Color) []Action {
	return b.appendPieceActions(nil, color)
}

// HasMoves reports whether a color has at least one Move or Capture.
func (b *Board) HasMoves(color Color) bool {
	for i := range b.Cells {
		cell := b.Cells[i]
		if !cell.Occupied || !cell.Piece.FaceUp || cell.Piece.Color != color {
			continue
		}
		if len(b.pieceActions(nil, PositionAt(i), cell.Piece)) > 0 {
			return true
		}
	}
	return false
}

// ActionsFrom returns the legal actions originating at a single cell.
func (b *Board) ActionsFrom(p Position) []Action {
	if b.GameOver || !p.InBounds() {
		return nil
	}
	cell := b.Cells[p.Index()]
	if !cell.Occupied {
		return nil
	}
	if !cell.Piece.FaceUp {
		return []Action{Flip(p)}
	}
	if b.SideToMove == NoColor || cell.Piece.Color != b.SideToMove {
		return nil
	}
	return b.pieceActions(nil, p, cell.Piece)
}

// Targets returns the destination cells of the Move and Capture actions of the piece at p.
func (b *Board) Targets(p Position) []Position {
	actions := utils.Filter(b.ActionsFrom(p), func(a Action) bool { return a.Type != FlipAction })
	return utils.Map(actions, func(a Action) Position { return a.To })
}

func (b *Board) appendPieceActions(actions []Action, color Color) []Action {
	for i := range b.Cells {
		cell := b.Cells[i]
		if cell.Occupied && cell.Piece.FaceUp && cell.Piece.Color == color {
			actions = b.pieceActions(actions, PositionAt(i), cell.Piece)
		}
	}
	return actions
}

func (b *Board) pieceActions(actions []Action, from Position, piece Piece) []Action {
	for _, d := range Directions {
		to := from.Add(d)
		if !to.InBounds() {
			continue
		}
		target := b.Cells[to.Index()]
		if !target.Occupied {
			actions = append(actions, Move(from, to))
			continue
		}
		if piece.Type == Cannon {
			continue
		}
		if target.Piece.FaceUp && target.Piece.Color != piece.Color && CanCapture(piece.Type, target.Piece.Type) {
			actions = append(actions, Capture(from, to))
		}
	}
	if piece.Type == Cannon {
		actions = b.cannonCaptures(actions, from, piece.Color)
	}
	return actions
}

// cannonCaptures scans each ray for exactly one screen followed by a face-up
// opposing piece. The scan ends at the first occupied cell after the screen.
func (b *Board) cannonCaptures(actions []Action, from Position, color Color) []Action {
	for _, d := range Directions {
		screened := false
		for cur := from.Add(d); cur.InBounds(); cur = cur.Add(d) {
			cell := b.Cells[cur.Index()]
			if !cell.Occupied {
				continue
			}
			if !screened {
				screened = true
				continue
			}
			if cell.Piece.FaceUp && cell.Piece.Color != color {
				actions = append(actions, Capture(from, cur))
			}
			break
		}
	}
	return actions
}
