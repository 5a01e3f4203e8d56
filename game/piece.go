package game

import "fmt"

// Color identifies the side owning a piece. NoColor doubles as the
// "undetermined" side to move before the first flip.
type Color int8

const (
	NoColor Color = iota
	ColorA
	ColorB
)

// Opponent returns the other side. The opponent of NoColor is NoColor.
func (c Color) Opponent() Color {
	switch c {
	case ColorA:
		return ColorB
	case ColorB:
		return ColorA
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case ColorA:
		return "A"
	case ColorB:
		return "B"
	default:
		return "none"
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A":
		*c = ColorA
	case "B":
		*c = ColorB
	case "none", "":
		*c = NoColor
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// PieceType is ordered by rank: a higher value outranks a lower one.
type PieceType int8

const (
	NoPiece PieceType = iota
	Soldier
	Cannon
	Horse
	Chariot
	Elephant
	Advisor
	General
)

var pieceNames = [...]string{
	NoPiece:  "none",
	Soldier:  "soldier",
	Cannon:   "cannon",
	Horse:    "horse",
	Chariot:  "chariot",
	Elephant: "elephant",
	Advisor:  "advisor",
	General:  "general",
}

// Rank returns the capture rank of the piece type.
func (t PieceType) Rank() int {
	return int(t)
}

func (t PieceType) String() string {
	if t < 0 || int(t) >= len(pieceNames) {
		return fmt.Sprintf("PieceType(%d)", t)
	}
	return pieceNames[t]
}

func (t PieceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	for i, name := range pieceNames {
		if name == string(text) {
			*t = PieceType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece type %q", text)
}

// Piece is immutable except for its face state.
type Piece struct {
	Color  Color     `json:"color"`
	Type   PieceType `json:"type"`
	FaceUp bool      `json:"faceUp"`
}

func (p Piece) String() string {
	if !p.FaceUp {
		return fmt.Sprintf("%s?%s", p.Color, p.Type)
	}
	return fmt.Sprintf("%s:%s", p.Color, p.Type)
}
