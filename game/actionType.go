package game

import "fmt"

// ActionType represents the kind of action a player can perform.
type ActionType int8

const (
	FlipAction ActionType = iota
	MoveAction
	CaptureAction
)

var actionNames = [...]string{
	FlipAction:    "flip",
	MoveAction:    "move",
	CaptureAction: "capture",
}

func (t ActionType) String() string {
	if t < 0 || int(t) >= len(actionNames) {
		return fmt.Sprintf("ActionType(%d)", t)
	}
	return actionNames[t]
}

func (t ActionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ActionType) UnmarshalText(text []byte) error {
	for i, name := range actionNames {
		if name == string(text) {
			*t = ActionType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action type %q", text)
}

// Action represents a single flip, step or capture. For flips From == To.
type Action struct {
	Type ActionType `json:"type"`
	From Position   `json:"from"`
	To   Position   `json:"to"`
}

func Flip(p Position) Action {
	return Action{Type: FlipAction, From: p, To: p}
}

func Move(from, to Position) Action {
	return Action{Type: MoveAction, From: from, To: to}
}

func Capture(from, to Position) Action {
	return Action{Type: CaptureAction, From: from, To: to}
}

func (a Action) String() string {
	if a.Type == FlipAction {
		return fmt.Sprintf("flip%s", a.From)
	}
	return fmt.Sprintf("%s%s->%s", a.Type, a.From, a.To)
}
