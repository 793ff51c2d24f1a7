package engine

import (
	"fmt"
	"strings"

	"github.com/corentings/chess/v2"

	pgnerr "github.com/pgnview/pgnview/internal/errors"
)

// chessEngine adapts github.com/corentings/chess/v2 to the Engine surface.
type chessEngine struct {
	game    *chess.Game
	history []string
}

// New creates an engine at the given position. An empty fen means the
// standard starting position.
func New(fen string) (Engine, error) {
	game, err := newGame(fen)
	if err != nil {
		return nil, err
	}
	return &chessEngine{game: game}, nil
}

func newGame(fen string) (*chess.Game, error) {
	if fen == "" {
		return chess.NewGame(), nil
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", pgnerr.ErrInvalidFEN, fen)
	}
	return chess.NewGame(opt), nil
}

func (e *chessEngine) Move(san string) error {
	if err := e.game.PushMove(san, nil); err != nil {
		return fmt.Errorf("%w: %s", pgnerr.ErrIllegalMove, san)
	}
	e.history = append(e.history, san)
	return nil
}

func (e *chessEngine) MoveSquares(from, to, promo string) (string, error) {
	san, err := e.pushSquares(from + to + promo)
	if err != nil && promo == "" && promotionRank(to) {
		// Board drops leave the promotion piece unspecified; queen is
		// the defined default.
		san, err = e.pushSquares(from + to + "q")
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s-%s", pgnerr.ErrIllegalMove, from, to)
	}
	e.history = append(e.history, san)
	return san, nil
}

func (e *chessEngine) pushSquares(uci string) (string, error) {
	pos := e.game.Position()
	move, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", err
	}
	legal := findLegal(pos, move)
	if legal == nil {
		return "", fmt.Errorf("illegal move %s", uci)
	}
	san := chess.AlgebraicNotation{}.Encode(pos, legal)
	if err := e.game.PushMove(san, nil); err != nil {
		return "", err
	}
	return san, nil
}

// findLegal matches a decoded square pair against the legal moves of pos.
// UCI decoding alone does not prove legality, so the match keeps drops
// from bogus squares out of the game.
func findLegal(pos *chess.Position, move *chess.Move) *chess.Move {
	for _, vm := range pos.ValidMoves() {
		if vm.S1() == move.S1() && vm.S2() == move.S2() && vm.Promo() == move.Promo() {
			return &vm
		}
	}
	return nil
}

func promotionRank(to string) bool {
	return strings.HasSuffix(to, "1") || strings.HasSuffix(to, "8")
}

func (e *chessEngine) FEN() string {
	return e.game.FEN()
}

func (e *chessEngine) Turn() byte {
	if e.game.Position().Turn() == chess.White {
		return 'w'
	}
	return 'b'
}

func (e *chessEngine) History() []string {
	return append([]string(nil), e.history...)
}

func (e *chessEngine) Undo() bool {
	if !e.game.GoBack() {
		return false
	}
	if len(e.history) > 0 {
		e.history = e.history[:len(e.history)-1]
	}
	return true
}

func (e *chessEngine) Load(fen string) error {
	game, err := newGame(fen)
	if err != nil {
		return err
	}
	e.game = game
	e.history = nil
	return nil
}

func (e *chessEngine) Fork() (Engine, error) {
	return New(e.FEN())
}
