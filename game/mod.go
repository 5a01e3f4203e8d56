package game

// StateHash identifies a board configuration.
type StateHash uint64

// WinScore is the evaluation of a decided game from the winner's perspective.
const WinScore = 1_000_000.0

// Evaluate scores a board from the perspective of the given color. Higher is better.
type Evaluate func(b *Board, color Color) float64
