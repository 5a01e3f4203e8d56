package gamemaster

import (
	"errors"
	"fmt"

	"darkchess/game"
	"darkchess/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Mode describes who sits at the board.
type Mode string

const (
	HumanVsComputer    Mode = "pvc"
	HumanVsHuman       Mode = "pvp"
	ComputerVsComputer Mode = "cvc"
)

var (
	ErrIllegalAction = errors.New("illegal action")
	ErrGameOver      = errors.New("game is over - no moves allowed")
)

// Result summarizes a finished game for statistics.
type Result struct {
	Seed   uint64
	Mode   Mode
	Tier   string
	Winner game.Color
	Moves  int
}

// StatsRecorder receives every finished game. Persistence lives outside this module.
type StatsRecorder interface {
	RecordGame(Result)
}

// Context carries what used to be process-wide settings into a session.
// A nil Seed deals a random board; nil Tiers means DefaultTiers.
type Context struct {
	Mode  Mode
	Tier  string
	Tiers agent.Tiers
	Stats StatsRecorder
	Seed  *uint64
}

// UpdateGetter returns the next unread update, or nil, nil when there is none.
type UpdateGetter func() (*game.Action, *game.Board)

type update struct {
	action game.Action
	board  *game.Board
}

// Session owns one game from deal to result. It is not safe for concurrent use.
type Session struct {
	ctx      Context
	seed     uint64
	board    *game.Board
	tier     agent.Tier
	tiers    agent.Tiers
	selector *agent.Selector
	updates  []update
	read     int
	moves    int
}

func NewSession(ctx Context) (*Session, UpdateGetter, error) {
	tiers := ctx.Tiers
	if tiers == nil {
		tiers = agent.DefaultTiers()
	}
	if ctx.Tier == "" {
		ctx.Tier = tiers[0].Name
	}
	tier, err := tiers.Lookup(ctx.Tier)
	if err != nil {
		return nil, nil, err
	}
	if ctx.Mode == "" {
		ctx.Mode = HumanVsComputer
	}

	seed := game.RandomSeed()
	if ctx.Seed != nil {
		seed = *ctx.Seed
	}

	s := &Session{
		ctx:      ctx,
		seed:     seed,
		board:    game.NewBoard(seed),
		tier:     tier,
		tiers:    tiers,
		selector: agent.NewSelector(seed),
	}
	log.Debug().Msgf("new %s session at tier %s (seed %d)", ctx.Mode, tier.Name, seed)
	return s, s.nextUpdate, nil
}

func (s *Session) nextUpdate() (*game.Action, *game.Board) {
	if s.read >= len(s.updates) {
		return nil, nil
	}
	u := s.updates[s.read]
	s.read++
	action := u.action
	return &action, u.board.Copy()
}

// State returns a snapshot of the board.
func (s *Session) State() *game.Board {
	return s.board.Copy()
}

func (s *Session) Seed() uint64 {
	return s.seed
}

func (s *Session) Mode() Mode {
	return s.ctx.Mode
}

// Targets lists the destinations to highlight for the piece at p.
func (s *Session) Targets(p game.Position) []game.Position {
	return s.board.Targets(p)
}

func (s *Session) LegalActions() []game.Action {
	return s.board.LegalActions()
}

// Play applies an action chosen by a player. Illegal actions leave the game untouched.
func (s *Session) Play(action game.Action) error {
	if s.board.GameOver {
		return ErrGameOver
	}
	if !s.board.Perform(action) {
		return fmt.Errorf("%w: %s", ErrIllegalAction, action)
	}
	s.moves++
	s.updates = append(s.updates, update{action: action, board: s.board.Copy()})

	if s.board.GameOver {
		log.Info().Msgf("game over after %d moves, winner: %s", s.moves, s.board.Winner)
		if s.ctx.Stats != nil {
			s.ctx.Stats.RecordGame(Result{
				Seed:   s.seed,
				Mode:   s.ctx.Mode,
				Tier:   s.tier.Name,
				Winner: s.board.Winner,
				Moves:  s.moves,
			})
		}
	}
	return nil
}

// PlayComputer selects an action at the session's tier and applies it.
func (s *Session) PlayComputer() (game.Action, error) {
	if s.board.GameOver {
		return game.Action{}, ErrGameOver
	}
	action, _, found := s.selector.SelectMove(s.board, s.tier, s.tiers)
	if !found {
		return game.Action{}, ErrGameOver
	}
	if err := s.Play(action); err != nil {
		panic(fmt.Sprintf("generator/applier disagreement: %v", err))
	}
	return action, nil
}
