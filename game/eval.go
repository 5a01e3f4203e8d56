package game

import (
	"fmt"
	"sort"
)

// Evaluation term identifiers, as used in tier configuration.
const (
	TermMaterial      = "material"
	TermCenter        = "center"
	TermMobility      = "mobility"
	TermThreats       = "threats"
	TermGeneralSafety = "general_safety"
	TermEscape        = "escape_squares"
	TermGuards        = "guards"
	TermEdges         = "edges"
	TermSoldierChain  = "soldier_chain"
	TermFileControl   = "file_control"
	TermDevelopment   = "development"
	TermForks         = "forks"
	TermEndgame       = "endgame"
)

// EndgameFaceUpThreshold is the face-up piece count at or below which the endgame term switches sign.
const EndgameFaceUpThreshold = 10

// Term is one weighted component of an evaluation.
type Term struct {
	Name   string  `yaml:"name" json:"name"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// Evaluator is a weighted list of terms. The zero value scores every non-terminal board as 0.
type Evaluator []Term

// termFunc returns the contribution of a single color. The term value is the
// own contribution minus the opponent's, which keeps every term antisymmetric.
type termFunc func(a *analysis, c Color) float64

var terms = map[string]termFunc{
	TermMaterial:      materialTerm,
	TermCenter:        centerTerm,
	TermMobility:      mobilityTerm,
	TermThreats:       threatsTerm,
	TermGeneralSafety: generalSafetyTerm,
	TermEscape:        escapeTerm,
	TermGuards:        guardsTerm,
	TermEdges:         edgesTerm,
	TermSoldierChain:  soldierChainTerm,
	TermFileControl:   fileControlTerm,
	TermDevelopment:   developmentTerm,
	TermForks:         forksTerm,
	TermEndgame:       endgameTerm,
}

// TermNames returns every known term identifier in sorted order.
func TermNames() []string {
	names := make([]string, 0, len(terms))
	for name := range terms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate rejects unknown and duplicated terms.
func (e Evaluator) Validate() error {
	seen := make(map[string]bool, len(e))
	for _, t := range e {
		if _, ok := terms[t.Name]; !ok {
			return fmt.Errorf("unknown evaluation term %q", t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate evaluation term %q", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// Has reports whether the evaluator contains a term.
func (e Evaluator) Has(name string) bool {
	for _, t := range e {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Score evaluates the board from the perspective of color. Decided games score
// ±WinScore, and Score(b, A) == -Score(b, B) for every board.
func (e Evaluator) Score(b *Board, color Color) float64 {
	if color == NoColor {
		return 0
	}
	if b.GameOver {
		switch b.Winner {
		case color:
			return WinScore
		case NoColor:
			return 0
		default:
			return -WinScore
		}
	}

	a := analyze(b)
	opp := color.Opponent()
	score := 0.0
	for _, t := range e {
		fn, ok := terms[t.Name]
		if !ok {
			panic(fmt.Sprintf("unknown evaluation term %q", t.Name))
		}
		score += t.Weight * (fn(a, color) - fn(a, opp))
	}
	return score
}

// Breakdown returns the weighted value of every term for color, keyed by term name.
func (e Evaluator) Breakdown(b *Board, color Color) map[string]float64 {
	out := make(map[string]float64, len(e))
	if color == NoColor || b.GameOver {
		return out
	}
	a := analyze(b)
	opp := color.Opponent()
	for _, t := range e {
		if fn, ok := terms[t.Name]; ok {
			out[t.Name] = t.Weight * (fn(a, color) - fn(a, opp))
		}
	}
	return out
}

type located struct {
	Pos   Position
	Piece Piece
}

// analysis caches what the terms share so a board is scanned once per Score call.
type analysis struct {
	board    *Board
	all      [3][]located // every piece by color
	faceUp   [3][]located
	actions  [3][]Action // Move and Capture actions by color, ignoring whose turn it is
	faceDown int
	upCount  int
}

func analyze(b *Board) *analysis {
	a := &analysis{board: b}
	for i, cell := range b.Cells {
		if !cell.Occupied {
			continue
		}
		l := located{Pos: PositionAt(i), Piece: cell.Piece}
		c := cell.Piece.Color
		a.all[c] = append(a.all[c], l)
		if cell.Piece.FaceUp {
			a.faceUp[c] = append(a.faceUp[c], l)
			a.upCount++
		} else {
			a.faceDown++
		}
	}
	for _, c := range []Color{ColorA, ColorB} {
		a.actions[c] = b.MovesFor(c)
	}
	return a
}

func (a *analysis) endgame() bool {
	return a.faceDown == 0 && a.upCount <= EndgameFaceUpThreshold
}

func (a *analysis) general(c Color) (Position, bool) {
	for _, l := range a.faceUp[c] {
		if l.Piece.Type == General {
			return l.Pos, true
		}
	}
	return Position{}, false
}

// captureTargets returns the distinct cells color c can capture on, with the attacking cells.
func (a *analysis) captureTargets(c Color) map[Position][]Position {
	targets := make(map[Position][]Position)
	for _, act := range a.actions[c] {
		if act.Type == CaptureAction {
			targets[act.To] = append(targets[act.To], act.From)
		}
	}
	return targets
}

// attacked reports whether color by could capture a piece of type t standing on p.
func (a *analysis) attacked(p Position, by Color, t PieceType) bool {
	b := a.board
	for _, n := range p.Neighbors() {
		piece, ok := b.At(n)
		if ok && piece.FaceUp && piece.Color == by && piece.Type != Cannon && CanCapture(piece.Type, t) {
			return true
		}
	}
	for _, d := range Directions {
		screened := false
		for cur := p.Add(d); cur.InBounds(); cur = cur.Add(d) {
			piece, ok := b.At(cur)
			if !ok {
				continue
			}
			if !screened {
				screened = true
				continue
			}
			if piece.FaceUp && piece.Color == by && piece.Type == Cannon {
				return true
			}
			break
		}
	}
	return false
}

func materialTerm(a *analysis, c Color) float64 {
	total := 0.0
	for _, l := range a.all[c] {
		total += Value(l.Piece.Type)
	}
	return total
}

func centerTerm(a *analysis, c Color) float64 {
	n := 0.0
	for _, l := range a.faceUp[c] {
		if l.Pos.IsCenter() {
			n++
		}
	}
	return n
}

func mobilityTerm(a *analysis, c Color) float64 {
	return float64(len(a.actions[c]))
}

func threatsTerm(a *analysis, c Color) float64 {
	total := 0.0
	for target := range a.captureTargets(c) {
		if piece, ok := a.board.At(target); ok {
			total += Value(piece.Type)
		}
	}
	return total
}

func generalSafetyTerm(a *analysis, c Color) float64 {
	pos, ok := a.general(c)
	if ok && a.attacked(pos, c.Opponent(), General) {
		return -1
	}
	return 0
}

func escapeTerm(a *analysis, c Color) float64 {
	pos, ok := a.general(c)
	if !ok {
		return 0
	}
	n := 0.0
	for _, next := range pos.Neighbors() {
		if _, occupied := a.board.At(next); occupied {
			continue
		}
		if !a.attacked(next, c.Opponent(), General) {
			n++
		}
	}
	return n
}

func guardsTerm(a *analysis, c Color) float64 {
	pos, ok := a.general(c)
	if !ok {
		return 0
	}
	n := 0.0
	for _, next := range pos.Neighbors() {
		piece, occupied := a.board.At(next)
		if !occupied || piece.Color != c {
			continue
		}
		n++
		if piece.FaceUp && (piece.Type == Advisor || piece.Type == Elephant) {
			n++
		}
	}
	return n
}

func edgesTerm(a *analysis, c Color) float64 {
	total := 0.0
	for _, l := range a.faceUp[c] {
		switch {
		case l.Piece.Type == General && l.Pos.IsCorner():
			total -= 2
		case l.Piece.Type == General && l.Pos.IsEdge():
			total--
		case l.Piece.Type == Cannon && l.Pos.IsEdge():
			total += 0.5
		case l.Piece.Type != General && l.Piece.Type != Cannon && l.Pos.IsCorner():
			total -= 0.5
		}
	}
	return total
}

func soldierChainTerm(a *analysis, c Color) float64 {
	total := 0.0
	for _, l := range a.faceUp[c] {
		if l.Piece.Type != Soldier {
			continue
		}
		links := 0
		for _, next := range l.Pos.Neighbors() {
			piece, ok := a.board.At(next)
			if ok && piece.FaceUp && piece.Color == c && piece.Type == Soldier {
				links++
			}
		}
		if links == 0 {
			total--
		} else {
			total += float64(links)
		}
	}
	return total
}

// fileControlTerm counts the columns (and, at half weight, rows) where c has strictly more face-up pieces.
func fileControlTerm(a *analysis, c Color) float64 {
	var cols [3][Columns]int
	var rows [3][Rows]int
	for _, color := range []Color{ColorA, ColorB} {
		for _, l := range a.faceUp[color] {
			cols[color][l.Pos.Col]++
			rows[color][l.Pos.Row]++
		}
	}
	opp := c.Opponent()
	total := 0.0
	for i := 0; i < Columns; i++ {
		if cols[c][i] > cols[opp][i] {
			total++
		}
	}
	for i := 0; i < Rows; i++ {
		if rows[c][i] > rows[opp][i] {
			total += 0.5
		}
	}
	return total
}

func developmentTerm(a *analysis, c Color) float64 {
	if len(a.all[c]) == 0 {
		return 0
	}
	return float64(len(a.faceUp[c])) / float64(len(a.all[c]))
}

// forksTerm rewards attackers holding two or more nearby capture targets, and
// captures whose victim shields a more valuable piece directly behind it.
func forksTerm(a *analysis, c Color) float64 {
	byAttacker := make(map[Position]int)
	total := 0.0
	for target, attackers := range a.captureTargets(c) {
		victim, _ := a.board.At(target)
		for _, from := range attackers {
			if Distance(from, target) <= 2 {
				byAttacker[from]++
			}
			behind := target.Add(step(from, target))
			if piece, ok := a.board.At(behind); ok && piece.FaceUp && piece.Color != c && Value(piece.Type) > Value(victim.Type) {
				total += 0.5
			}
		}
	}
	for _, n := range byAttacker {
		if n >= 2 {
			total++
		}
	}
	return total
}

func endgameTerm(a *analysis, c Color) float64 {
	sign := -1.0
	if a.endgame() {
		sign = 1
	}
	total := 0.0
	if pos, ok := a.general(c); ok {
		total += sign * float64(3-centerDistance(pos))
	}
	if a.endgame() {
		total += 2 * float64(len(a.all[c]))
	}
	return total
}

// step returns the unit direction from one position toward another on the same line.
func step(from, to Position) Direction {
	return Direction{DCol: sign(to.Col - from.Col), DRow: sign(to.Row - from.Row)}
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
