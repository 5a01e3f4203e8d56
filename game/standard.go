package game

// StandardArmy is the piece multiset dealt to each color.
var StandardArmy = []struct {
	Type  PieceType
	Count int
}{
	{General, 1},
	{Advisor, 2},
	{Elephant, 2},
	{Chariot, 2},
	{Horse, 2},
	{Cannon, 2},
	{Soldier, 5},
}

// ArmySize is the number of pieces per color.
const ArmySize = 16

// Material values indexed by piece type.
var materialValues = [...]float64{
	NoPiece:  0,
	Soldier:  10,
	Cannon:   45,
	Horse:    25,
	Chariot:  25,
	Elephant: 50,
	Advisor:  90,
	General:  90,
}

// Value returns the material value of a piece type.
func Value(t PieceType) float64 {
	if t < 0 || int(t) >= len(materialValues) {
		return 0
	}
	return materialValues[t]
}

// standardPieces returns both armies face-down in a fixed order, color A first.
func standardPieces() []Piece {
	pieces := make([]Piece, 0, NumCells)
	for _, color := range []Color{ColorA, ColorB} {
		for _, entry := range StandardArmy {
			for i := 0; i < entry.Count; i++ {
				pieces = append(pieces, Piece{Color: color, Type: entry.Type})
			}
		}
	}
	return pieces
}
