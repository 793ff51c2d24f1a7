// Package enginetest provides a scripted rules engine for tests. It
// accepts SAN-shaped tokens without real chess knowledge and derives
// deterministic synthetic positions, so tests of the parsing and editing
// core exercise tree mechanics rather than chess rules.
package enginetest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pgnview/pgnview/internal/engine"
	pgnerr "github.com/pgnview/pgnview/internal/errors"
)

// sanShape screens candidate tokens the way a rules engine would reject
// garbage: castling, piece moves with optional disambiguation and
// capture, pawn moves and promotions.
var sanShape = regexp.MustCompile(`^(?:O-O(?:-O)?|(?:[KQRNB][a-h]?[1-8]?x?|[a-h]x)?[a-h][1-8](?:=[QRNB])?)$`)

// Fake is a scripted engine.Engine. Its FEN is the seed position followed
// by the applied moves, so equal paths produce equal positions and
// diverging paths never collide.
type Fake struct {
	seed   string
	moves  []string
	reject map[string]bool
	drops  map[string]string
}

// Options configures rejection scripting shared by a factory's instances.
type Options struct {
	// Reject lists SAN strings the engine refuses even though they are
	// SAN-shaped.
	Reject []string

	// Drops maps square input ("e2e4", "e7e8q") to the SAN produced.
	// Unlisted inputs are illegal drops.
	Drops map[string]string
}

// Factory returns an engine.Factory producing Fake instances that share
// the given scripting.
func Factory(opts Options) engine.Factory {
	reject := make(map[string]bool, len(opts.Reject))
	for _, san := range opts.Reject {
		reject[san] = true
	}
	return func(fen string) (engine.Engine, error) {
		return newFake(fen, reject, opts.Drops), nil
	}
}

// NewFactory returns a factory with no scripted rejections.
func NewFactory() engine.Factory {
	return Factory(Options{})
}

func newFake(fen string, reject map[string]bool, drops map[string]string) *Fake {
	if fen == "" {
		fen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	}
	return &Fake{seed: fen, reject: reject, drops: drops}
}

func (f *Fake) Move(san string) error {
	if !sanShape.MatchString(san) || f.reject[san] {
		return fmt.Errorf("%w: %s", pgnerr.ErrIllegalMove, san)
	}
	f.moves = append(f.moves, san)
	return nil
}

func (f *Fake) MoveSquares(from, to, promo string) (string, error) {
	san, ok := f.drops[from+to+promo]
	if !ok && promo == "" {
		san, ok = f.drops[from+to+"q"]
	}
	if !ok {
		return "", fmt.Errorf("%w: %s-%s", pgnerr.ErrIllegalMove, from, to)
	}
	if err := f.Move(san); err != nil {
		return "", err
	}
	return san, nil
}

func (f *Fake) FEN() string {
	if len(f.moves) == 0 {
		return f.seed
	}
	return f.seed + "|" + strings.Join(f.moves, " ")
}

func (f *Fake) Turn() byte {
	parts := strings.Split(f.seed, "|")
	base := byte('w')
	if strings.Contains(parts[0], " b ") {
		base = 'b'
	}
	applied := len(f.moves)
	for _, p := range parts[1:] {
		applied += len(strings.Fields(p))
	}
	if applied%2 == 0 {
		return base
	}
	if base == 'w' {
		return 'b'
	}
	return 'w'
}

func (f *Fake) History() []string {
	return append([]string(nil), f.moves...)
}

func (f *Fake) Undo() bool {
	if len(f.moves) == 0 {
		return false
	}
	f.moves = f.moves[:len(f.moves)-1]
	return true
}

func (f *Fake) Load(fen string) error {
	f.seed = fen
	f.moves = nil
	return nil
}

func (f *Fake) Fork() (engine.Engine, error) {
	return newFake(f.FEN(), f.reject, f.drops), nil
}
