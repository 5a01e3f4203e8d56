package player

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"darkchess/game"
	"darkchess/gamemaster"
	"darkchess/meta"
)

type Controller interface {
	Run() error
}

// consoleController lets people play a session by typing commands:
//
//	flip <col> <row>
//	move <col> <row> <col> <row>   (also used for captures)
//	targets <col> <row>
//	quit
type consoleController struct {
	session   *gamemaster.Session
	getUpdate gamemaster.UpdateGetter
	in        *bufio.Scanner
	out       io.Writer
	human     game.Color // Bound after the opening flip in pvc mode
	plies     int
}

var errQuit = errors.New("quit")

func NewConsoleController(session *gamemaster.Session, getUpdate gamemaster.UpdateGetter, in io.Reader, out io.Writer) Controller {
	return &consoleController{
		session:   session,
		getUpdate: getUpdate,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

func (c *consoleController) Run() error {
	for {
		b := c.session.State()
		fmt.Fprintln(c.out, b)
		if b.GameOver {
			fmt.Fprintf(c.out, "game over, winner: %s\n", b.Winner)
			return nil
		}
		if c.plies >= meta.MAX_TURNS {
			fmt.Fprintf(c.out, "turn limit of %d reached, draw\n", meta.MAX_TURNS)
			return nil
		}

		if c.computerToMove(b) {
			action, err := c.session.PlayComputer()
			if err != nil {
				return err
			}
			c.drainUpdates()
			fmt.Fprintf(c.out, "computer plays %s\n", action)
			continue
		}

		fmt.Fprintf(c.out, "%s> ", b.Player())
		if !c.in.Scan() {
			return c.in.Err()
		}
		err := c.handle(b, c.in.Text())
		switch {
		case errors.Is(err, errQuit):
			return nil
		case err != nil:
			fmt.Fprintln(c.out, err)
		}
	}
}

func (c *consoleController) computerToMove(b *game.Board) bool {
	switch c.session.Mode() {
	case gamemaster.ComputerVsComputer:
		return true
	case gamemaster.HumanVsComputer:
		return c.human != game.NoColor && b.SideToMove != c.human
	default:
		return false
	}
}

func (c *consoleController) handle(b *game.Board, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	coords, err := parseInts(fields[1:])
	if err != nil {
		return err
	}

	switch {
	case fields[0] == "quit":
		return errQuit
	case fields[0] == "targets" && len(coords) == 2:
		fmt.Fprintf(c.out, "targets: %v\n", c.session.Targets(game.Pos(coords[0], coords[1])))
		return nil
	case fields[0] == "flip" && len(coords) == 2:
		return c.play(b, game.Flip(game.Pos(coords[0], coords[1])))
	case fields[0] == "move" && len(coords) == 4:
		return c.play(b, resolve(b, game.Pos(coords[0], coords[1]), game.Pos(coords[2], coords[3])))
	default:
		return fmt.Errorf("unknown command %q", line)
	}
}

func (c *consoleController) play(b *game.Board, action game.Action) error {
	opening := b.SideToMove == game.NoColor
	if err := c.session.Play(action); err != nil {
		return err
	}
	c.drainUpdates()
	if opening {
		// The opener plays the color that does not move next
		c.human = c.session.State().SideToMove.Opponent()
	}
	return nil
}

func (c *consoleController) drainUpdates() {
	c.plies++
	for action, _ := c.getUpdate(); action != nil; action, _ = c.getUpdate() {
	}
}

// resolve turns a from/to pair into the legal Move or Capture it names, if any.
func resolve(b *game.Board, from, to game.Position) game.Action {
	for _, a := range b.ActionsFrom(from) {
		if a.To == to && a.Type != game.FlipAction {
			return a
		}
	}
	return game.Move(from, to)
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad coordinate %q", f)
		}
		out[i] = n
	}
	return out, nil
}
