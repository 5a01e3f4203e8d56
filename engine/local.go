package engine

import (
	"fmt"
	"time"

	"darkchess/experiments/metrics"
	"darkchess/game"
	"darkchess/meta"
	"darkchess/searcher/agent"
	"darkchess/utils"

	"github.com/rs/zerolog/log"
)

// Local plays a full game between two seats in-process. Seat 0 opens with the first
// flip; the colors are bound to seats once that flip reveals who moves next.
type Local struct {
	Board   *game.Board
	Seed    uint64
	Players []string
	Agents  []Adapter
	seats   map[game.Color]int
	history []Update
}

type Update struct {
	Step   int
	Action game.Action
	Hash   game.StateHash
}

var _ Engine = (*Local)(nil)

func LocalEngine(players []string, agents []agent.Agent, seed uint64) *Local {
	if len(players) != len(agents) {
		panic("number of players does not match number of agents")
	}
	if len(players) != 2 {
		panic("need exactly two players")
	}

	adapters := make([]Adapter, len(agents))
	for i, a := range agents {
		adapters[i] = Adapter{InternalAgent: a}
	}
	return &Local{
		Board:   game.NewBoard(seed),
		Seed:    seed,
		Players: players,
		Agents:  adapters,
		seats:   make(map[game.Color]int, 2),
	}
}

// Run executes the entire game loop until a winner is found or the turn cap is hit.
func (e *Local) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		Seed:           e.Seed,
		StartingPlayer: e.Players[0],
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting (seed %d)", e.Players[0], e.Seed)

	step := 0
	for !e.Board.GameOver && step < meta.MAX_TURNS {
		seat := e.SeatToMove()
		action, metric := e.Agents[seat].FindMove(e.Board)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       e.Players[seat],
			Action:       action.String(),
			SearchMetric: metric,
		})

		undetermined := e.Board.SideToMove == game.NoColor
		e.Board = e.Board.Play(action)
		if undetermined {
			e.bindSeats()
		}
		e.history = append(e.history, Update{Step: step, Action: action, Hash: e.Board.Hash()})
		step++
	}

	winner := e.Winner()
	if winner == "" {
		log.Info().Msgf("stopped after %d turns without a winner", step)
	} else {
		log.Info().Msgf("game ended after %d turns, winner: %s", step, winner)
	}

	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step
	return winner, gameMetric, moveMetrics
}

// SeatToMove returns the index of the seat whose turn it is.
func (e *Local) SeatToMove() int {
	if e.Board.SideToMove == game.NoColor {
		return 0
	}
	return e.seats[e.Board.SideToMove]
}

// ColorOf returns the color bound to a seat, or NoColor before the first flip.
func (e *Local) ColorOf(seat int) game.Color {
	for color, s := range e.seats {
		if s == seat {
			return color
		}
	}
	return game.NoColor
}

// Winner returns the winning seat's name, or "" while undecided or drawn.
func (e *Local) Winner() string {
	if !e.Board.GameOver || e.Board.Winner == game.NoColor {
		return ""
	}
	return e.Players[e.seats[e.Board.Winner]]
}

func (e *Local) History() []Update {
	return e.history
}

// bindSeats runs after the opening flip: the side now to move belongs to seat 1.
func (e *Local) bindSeats() {
	e.seats[e.Board.SideToMove] = 1
	e.seats[e.Board.SideToMove.Opponent()] = 0
	log.Debug().Msgf("%s plays %s, %s plays %s", e.Players[0], e.Board.SideToMove.Opponent(), e.Players[1], e.Board.SideToMove)
}

// Adapter guards the engine against agents returning illegal actions.
type Adapter struct {
	InternalAgent agent.Agent
}

func (a Adapter) FindMove(b *game.Board) (game.Action, metrics.SearchMetric) {
	legal := b.LegalActions()
	if len(legal) == 0 {
		panic(fmt.Sprintf("no legal actions at all!\n%s", b))
	}
	candidate, metric := a.InternalAgent.FindMove(b)
	if utils.FindIndex(legal, candidate) < 0 {
		log.Warn().Msgf("agent returned illegal action %s, forcing %s", candidate, legal[0])
		return legal[0], metric
	}
	return candidate, metric
}
