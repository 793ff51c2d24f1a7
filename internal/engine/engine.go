// Package engine defines the narrow rules-engine surface consumed by the
// parsing and editing core, together with an adapter backed by
// github.com/corentings/chess/v2. The core never decides move legality or
// derives positions itself; every question of that kind goes through an
// Engine instance, and distinct logical lines always use distinct
// instances.
package engine

// Engine is one line's rules-engine instance. Implementations are not safe
// for concurrent use; each logical line owns its own instance.
type Engine interface {
	// Move applies a move in SAN form. A non-nil error is an
	// authoritative rejection; the engine state is unchanged in that
	// case.
	Move(san string) error

	// MoveSquares applies a move given as source and destination squares
	// (board drop input) with an optional promotion piece letter. An
	// unspecified promotion defaults to queen; this is the only input
	// repair performed, and only on this entry point. It returns the SAN
	// form of the applied move.
	MoveSquares(from, to, promo string) (string, error)

	// FEN returns the current position.
	FEN() string

	// Turn returns the side to move, 'w' or 'b'.
	Turn() byte

	// History returns the SAN moves applied so far, oldest first.
	History() []string

	// Undo reverts the most recent move. It reports whether a move was
	// reverted.
	Undo() bool

	// Load replaces the engine state with the given position and clears
	// the history.
	Load(fen string) error

	// Fork returns a fresh, independent instance seeded from the current
	// position. Forks never share mutable state with their origin.
	Fork() (Engine, error)
}

// Factory creates an engine at the given position. An empty fen means the
// standard starting position.
type Factory func(fen string) (Engine, error)
