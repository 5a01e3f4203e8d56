// meta/meta.go
package meta

// GO_ROUTINES defines the number of games played in parallel by experiments.
const GO_ROUTINES = 8

// GAMES defines the number of games per matchup in experiments.
const GAMES = 20

// MAX_TURNS defines the number of actions after which a game is declared a draw.
const MAX_TURNS = 300
