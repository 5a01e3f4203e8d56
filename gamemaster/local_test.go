package gamemaster

import (
	"errors"
	"reflect"
	"testing"

	"darkchess/game"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	results []Result
}

func (r *recorder) RecordGame(result Result) {
	r.results = append(r.results, result)
}

func seeded(seed uint64) Context {
	return Context{Seed: &seed}
}

func TestNewSession(t *testing.T) {
	session, getUpdate, err := NewSession(seeded(12345))
	require.NoError(t, err)

	state := session.State()
	require.Equal(t, game.NewBoard(12345).Cells, state.Cells)
	require.Equal(t, uint64(12345), session.Seed())
	require.Equal(t, HumanVsComputer, session.Mode())

	// Check that getUpdate returns nil if no moves have been played
	action, board := getUpdate()
	if action != nil || board != nil {
		t.Errorf("expected no update yet, got action=%v board=%v", action, board)
	}

	_, _, err = NewSession(Context{Tier: "grandmaster"})
	require.Error(t, err)
}

func TestSessionPlay_ValidAction(t *testing.T) {
	session, getUpdate, err := NewSession(seeded(1))
	require.NoError(t, err)

	flip := game.Flip(game.Pos(2, 3))
	require.NoError(t, session.Play(flip))

	played, updated := getUpdate()
	require.NotNil(t, played)
	require.Equal(t, flip, *played)
	piece, _ := updated.At(game.Pos(2, 3))
	require.True(t, piece.FaceUp)
	require.Equal(t, piece.Color.Opponent(), updated.SideToMove)

	played, updated = getUpdate()
	require.Nil(t, played)
	require.Nil(t, updated)
}

func TestSessionPlay_IllegalAction(t *testing.T) {
	session, getUpdate, err := NewSession(seeded(1))
	require.NoError(t, err)
	before := session.State()

	err = session.Play(game.Move(game.Pos(0, 0), game.Pos(0, 1)))
	require.ErrorIs(t, err, ErrIllegalAction)
	require.Equal(t, before, session.State())

	played, _ := getUpdate()
	require.Nil(t, played)
}

func TestSessionPlay_GameOver(t *testing.T) {
	stats := &recorder{}
	seed := uint64(5)
	session, getUpdate, err := NewSession(Context{Mode: HumanVsHuman, Stats: stats, Seed: &seed})
	require.NoError(t, err)

	b := game.NewEmptyBoard()
	b.Place(game.Pos(0, 0), game.Piece{Color: game.ColorA, Type: game.Soldier, FaceUp: true})
	b.SideToMove = game.ColorA
	session.board = b // force internal state

	require.NoError(t, session.Play(game.Move(game.Pos(0, 0), game.Pos(0, 1))))

	played, final := getUpdate()
	require.NotNil(t, played)
	require.True(t, final.GameOver)

	played, final = getUpdate()
	require.Nil(t, played)
	require.Nil(t, final)

	require.Equal(t, []Result{{Seed: 5, Mode: HumanVsHuman, Tier: "easy", Winner: game.ColorA, Moves: 1}}, stats.results)

	err = session.Play(game.Move(game.Pos(0, 1), game.Pos(0, 2)))
	if err == nil || err.Error() != "game is over - no moves allowed" {
		t.Errorf("expected 'game is over - no moves allowed' error, got %v", err)
	}
	_, err = session.PlayComputer()
	require.True(t, errors.Is(err, ErrGameOver))
}

func TestSessionPlayComputer(t *testing.T) {
	session, getUpdate, err := NewSession(Context{Tier: "medium", Seed: new(uint64)})
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		before := session.State()
		action, err := session.PlayComputer()
		require.NoError(t, err)
		require.Contains(t, before.LegalActions(), action)

		played, _ := getUpdate()
		require.Equal(t, action, *played)
	}
}

func TestSessionTargets(t *testing.T) {
	session, _, err := NewSession(seeded(2))
	require.NoError(t, err)
	require.Empty(t, session.Targets(game.Pos(0, 0)), "face-down pieces have no targets")
	require.Len(t, session.LegalActions(), game.NumCells)
}

func TestSession_IdenticalInitStates(t *testing.T) {
	session1, _, _ := NewSession(seeded(77))
	session2, _, _ := NewSession(seeded(77))

	if !reflect.DeepEqual(session1.State(), session2.State()) {
		t.Error("expected the same initial state configuration, got differences")
	}
}
