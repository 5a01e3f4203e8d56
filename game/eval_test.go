package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func allTerms() Evaluator {
	var e Evaluator
	for i, name := range TermNames() {
		e = append(e, Term{Name: name, Weight: float64(i + 1)})
	}
	return e
}

func TestScoreIsAntisymmetric(t *testing.T) {
	e := allTerms()
	rng := rand.New(rand.NewSource(99))
	for g := 0; g < 5; g++ {
		b := NewBoard(uint64(g))
		for step := 0; step < 120 && !b.GameOver; step++ {
			require.InDelta(t, -e.Score(b, ColorB), e.Score(b, ColorA), 1e-9, "game %d step %d", g, step)
			actions := b.LegalActions()
			b = b.Play(actions[rng.Intn(len(actions))])
		}
	}
}

func TestScoreTerminal(t *testing.T) {
	b := NewEmptyBoard()
	b.Place(Pos(0, 0), up(ColorA, Soldier))
	b.SideToMove = ColorA
	require.True(t, b.Perform(Move(Pos(0, 0), Pos(0, 1))))

	e := Evaluator{{Name: TermMaterial, Weight: 1}}
	require.Equal(t, WinScore, e.Score(b, ColorA))
	require.Equal(t, -WinScore, e.Score(b, ColorB))
	require.Zero(t, e.Score(b, NoColor))
}

func TestTerms(t *testing.T) {
	cases := []struct {
		name     string
		term     string
		setup    func(b *Board)
		expected float64
	}{
		{
			name: "material counts face-down pieces",
			term: TermMaterial,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, General))
				b.Place(Pos(3, 7), down(ColorA, Cannon))
				b.Place(Pos(2, 7), up(ColorB, Soldier))
			},
			expected: 90 + 45 - 10,
		},
		{
			name: "center",
			term: TermCenter,
			setup: func(b *Board) {
				b.Place(Pos(1, 3), up(ColorA, Horse))
				b.Place(Pos(2, 4), up(ColorA, Horse))
				b.Place(Pos(1, 4), up(ColorB, Soldier))
			},
			expected: 1,
		},
		{
			name: "mobility ignores whose turn it is",
			term: TermMobility,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, Horse))
				b.Place(Pos(2, 2), up(ColorB, Horse))
			},
			expected: 2 - 4,
		},
		{
			name: "threats",
			term: TermThreats,
			setup: func(b *Board) {
				b.Place(Pos(1, 1), up(ColorA, Chariot))
				b.Place(Pos(1, 2), up(ColorB, Horse))
			},
			expected: 25,
		},
		{
			name: "soldier threatens general",
			term: TermGeneralSafety,
			setup: func(b *Board) {
				b.Place(Pos(1, 1), up(ColorA, General))
				b.Place(Pos(1, 2), up(ColorB, Soldier))
			},
			expected: -1,
		},
		{
			name: "cannon threatens general through a screen",
			term: TermGeneralSafety,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorB, General))
				b.Place(Pos(0, 1), down(ColorA, Soldier))
				b.Place(Pos(0, 4), up(ColorA, Cannon))
			},
			expected: 1,
		},
		{
			name: "escape squares",
			term: TermEscape,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, General))
				b.Place(Pos(0, 2), up(ColorB, Soldier))
			},
			expected: 1,
		},
		{
			name: "guards",
			term: TermGuards,
			setup: func(b *Board) {
				b.Place(Pos(1, 1), up(ColorA, General))
				b.Place(Pos(1, 2), up(ColorA, Advisor))
				b.Place(Pos(2, 1), up(ColorA, Soldier))
			},
			expected: 3,
		},
		{
			name: "edges",
			term: TermEdges,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, General))
				b.Place(Pos(0, 3), up(ColorA, Cannon))
				b.Place(Pos(3, 7), up(ColorB, Horse))
			},
			expected: -2 + 0.5 + 0.5,
		},
		{
			name: "soldier chain",
			term: TermSoldierChain,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, Soldier))
				b.Place(Pos(0, 1), up(ColorA, Soldier))
				b.Place(Pos(3, 7), up(ColorB, Soldier))
			},
			expected: 2 + 1,
		},
		{
			name: "file control",
			term: TermFileControl,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, Horse))
				b.Place(Pos(0, 1), up(ColorA, Horse))
				b.Place(Pos(0, 2), up(ColorB, Horse))
			},
			expected: 1 + 0.5 + 0.5 - 0.5,
		},
		{
			name: "development",
			term: TermDevelopment,
			setup: func(b *Board) {
				b.Place(Pos(0, 0), up(ColorA, Horse))
				b.Place(Pos(0, 1), down(ColorA, Horse))
				b.Place(Pos(3, 7), down(ColorB, Horse))
			},
			expected: 0.5,
		},
		{
			name: "fork",
			term: TermForks,
			setup: func(b *Board) {
				b.Place(Pos(1, 1), up(ColorA, General))
				b.Place(Pos(1, 2), up(ColorB, Horse))
				b.Place(Pos(2, 1), up(ColorB, Chariot))
			},
			expected: 1,
		},
		{
			name: "pin behind the victim",
			term: TermForks,
			setup: func(b *Board) {
				b.Place(Pos(1, 1), up(ColorA, Chariot))
				b.Place(Pos(1, 2), up(ColorB, Horse))
				b.Place(Pos(1, 3), up(ColorB, Advisor))
			},
			expected: 0.5,
		},
		{
			name: "endgame rewards centrality and piece lead",
			term: TermEndgame,
			setup: func(b *Board) {
				b.Place(Pos(1, 3), up(ColorA, General))
				b.Place(Pos(0, 0), up(ColorA, Soldier))
				b.Place(Pos(3, 7), up(ColorB, Soldier))
			},
			expected: 3 + 2*2 - 2*1,
		},
		{
			name: "midgame penalizes centrality",
			term: TermEndgame,
			setup: func(b *Board) {
				b.Place(Pos(1, 3), up(ColorA, General))
				b.Place(Pos(3, 7), down(ColorB, Soldier))
			},
			expected: -3,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewEmptyBoard()
			tc.setup(b)
			b.SideToMove = ColorA
			e := Evaluator{{Name: tc.term, Weight: 1}}
			require.InDelta(t, tc.expected, e.Score(b, ColorA), 1e-9)
			require.InDelta(t, -tc.expected, e.Score(b, ColorB), 1e-9)
			require.InDelta(t, tc.expected, e.Breakdown(b, ColorA)[tc.term], 1e-9)
		})
	}
}

func TestEvaluatorValidate(t *testing.T) {
	require.NoError(t, allTerms().Validate())
	require.Error(t, Evaluator{{Name: "tempo", Weight: 1}}.Validate())
	require.Error(t, Evaluator{{Name: TermCenter, Weight: 1}, {Name: TermCenter, Weight: 2}}.Validate())
	require.True(t, allTerms().Has(TermForks))
	require.Len(t, TermNames(), 13)
}
