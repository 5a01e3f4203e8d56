package agent

import (
	"errors"
	"fmt"
	"os"
	"time"

	"darkchess/game"

	"gopkg.in/yaml.v3"
)

// Heuristic names a non-search action selection policy.
type Heuristic string

const (
	CaptureFirst Heuristic = "capture_first"
	Greedy       Heuristic = "greedy"
	Random       Heuristic = "random"
)

// Tier is a data-only difficulty level. Search tiers run iterative deepening as their
// primary path; the others use Heuristic directly. When a tier produces nothing, the
// tier named by Fallback is consulted through its Heuristic, down to uniform random.
type Tier struct {
	Name        string         `yaml:"name" json:"name"`
	MaxDepth    int            `yaml:"max_depth" json:"maxDepth"`
	TimeLimit   time.Duration  `yaml:"time_limit" json:"timeLimit"`
	Search      bool           `yaml:"search" json:"search"`
	Heuristic   Heuristic      `yaml:"heuristic" json:"heuristic"`
	CaptureBias float64        `yaml:"capture_bias" json:"captureBias"` // Chance of taking the most valuable capture
	Fallback    string         `yaml:"fallback" json:"fallback"`
	Terms       game.Evaluator `yaml:"terms" json:"terms"`
}

// Tiers is ordered from weakest to strongest.
type Tiers []Tier

var ErrUnknownTier = errors.New("unknown tier")

var (
	easyTerms = game.Evaluator{
		{Name: game.TermMaterial, Weight: 1},
		{Name: game.TermCenter, Weight: 2},
		{Name: game.TermMobility, Weight: 0.5},
	}
	mediumTerms = append(easyTerms[:len(easyTerms):len(easyTerms)],
		game.Term{Name: game.TermThreats, Weight: 0.5},
		game.Term{Name: game.TermGeneralSafety, Weight: 60},
		game.Term{Name: game.TermEscape, Weight: 4},
	)
	hardTerms = append(mediumTerms[:len(mediumTerms):len(mediumTerms)],
		game.Term{Name: game.TermGuards, Weight: 6},
		game.Term{Name: game.TermEdges, Weight: 4},
		game.Term{Name: game.TermSoldierChain, Weight: 3},
		game.Term{Name: game.TermFileControl, Weight: 2},
	)
	expertTerms = append(hardTerms[:len(hardTerms):len(hardTerms)],
		game.Term{Name: game.TermDevelopment, Weight: 20},
		game.Term{Name: game.TermForks, Weight: 8},
		game.Term{Name: game.TermEndgame, Weight: 10},
	)
)

// DefaultTiers returns the four built-in tiers. The result is a fresh copy.
func DefaultTiers() Tiers {
	return Tiers{
		{Name: "easy", MaxDepth: 1, TimeLimit: 100 * time.Millisecond, Heuristic: CaptureFirst, CaptureBias: 0.8, Terms: clone(easyTerms)},
		{Name: "medium", MaxDepth: 2, TimeLimit: 500 * time.Millisecond, Search: true, Heuristic: Greedy, Fallback: "easy", Terms: clone(mediumTerms)},
		{Name: "hard", MaxDepth: 3, TimeLimit: time.Second, Search: true, Heuristic: Greedy, Fallback: "medium", Terms: clone(hardTerms)},
		{Name: "expert", MaxDepth: 4, TimeLimit: 2 * time.Second, Search: true, Heuristic: Greedy, Fallback: "hard", Terms: clone(expertTerms)},
	}
}

func clone(e game.Evaluator) game.Evaluator {
	return append(game.Evaluator(nil), e...)
}

// LoadTiers reads a YAML tier file and validates it.
func LoadTiers(path string) (Tiers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiers: %w", err)
	}
	return ParseTiers(data)
}

// ParseTiers decodes YAML of the form `tiers: [...]` and validates the result.
func ParseTiers(data []byte) (Tiers, error) {
	var doc struct {
		Tiers Tiers `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode tiers: %w", err)
	}
	if err := doc.Tiers.Validate(); err != nil {
		return nil, err
	}
	return doc.Tiers, nil
}

// Lookup returns the tier with the given name.
func (ts Tiers) Lookup(name string) (Tier, error) {
	for _, t := range ts {
		if t.Name == name {
			return t, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, name)
}

// Names returns the tier names in order.
func (ts Tiers) Names() []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Validate checks that tiers strictly increase in depth, time and number of
// evaluation terms, and that fallbacks only point at weaker tiers.
func (ts Tiers) Validate() error {
	if len(ts) == 0 {
		return errors.New("no tiers configured")
	}
	seen := make(map[string]bool, len(ts))
	for i, t := range ts {
		if t.Name == "" {
			return fmt.Errorf("tier %d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tier %q", t.Name)
		}
		if t.MaxDepth <= 0 || t.TimeLimit <= 0 {
			return fmt.Errorf("tier %q: depth and time limit must be positive", t.Name)
		}
		switch t.Heuristic {
		case CaptureFirst, Greedy, Random:
		default:
			return fmt.Errorf("tier %q: unknown heuristic %q", t.Name, t.Heuristic)
		}
		if t.CaptureBias < 0 || t.CaptureBias > 1 {
			return fmt.Errorf("tier %q: capture bias %v outside [0, 1]", t.Name, t.CaptureBias)
		}
		if err := t.Terms.Validate(); err != nil {
			return fmt.Errorf("tier %q: %w", t.Name, err)
		}
		if t.Fallback != "" && !seen[t.Fallback] {
			return fmt.Errorf("tier %q: fallback %q is not a weaker tier", t.Name, t.Fallback)
		}
		if i > 0 {
			prev := ts[i-1]
			if t.MaxDepth <= prev.MaxDepth || t.TimeLimit <= prev.TimeLimit || len(t.Terms) <= len(prev.Terms) {
				return fmt.Errorf("tier %q must be strictly stronger than %q", t.Name, prev.Name)
			}
		}
		seen[t.Name] = true
	}
	return nil
}
