package parser

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine"
	pgnerr "github.com/pgnview/pgnview/internal/errors"
	"github.com/pgnview/pgnview/internal/tree"
)

// parseContext is one open line during building: the mainline, or one
// parenthesized variation. Each context owns its own rules-engine
// instance; instances are never shared between lines, so advancing one
// line can never corrupt a sibling or ancestor position.
type parseContext struct {
	// branch is the node this line continues from.
	branch *tree.GameNode

	// cursor is the most recently created node of this line, nil until
	// the line's first move.
	cursor *tree.GameNode

	eng engine.Engine

	// interrupted records that the line was just entered or resumed
	// after a comment or variation, which forces the next move's number
	// to be restated.
	interrupted bool

	// leading holds floating comments and inert text seen before the
	// line's first move.
	leading []string
}

// attachPoint returns the node a new move of this line continues from.
func (c *parseContext) attachPoint() *tree.GameNode {
	if c.cursor != nil {
		return c.cursor
	}
	return c.branch
}

// Builder consumes the token stream and constructs the game tree, driving
// the rules engine move by move. It is total: malformed input degrades to
// fewer nodes with the offending text preserved, never to a failure.
//
// Variation nesting is handled with an explicit context stack rather than
// recursion, so input nesting depth cannot overflow the call stack.
type Builder struct {
	lexer     *Lexer
	opts      *config.Options
	newEngine engine.Factory
	tree      *tree.Tree
	stack     []*parseContext
	log       *zap.Logger
	done      bool
}

// NewBuilder prepares a build over the movetext read from r. A nil
// newEngine uses the corentings/chess adapter; a nil opts uses defaults.
// An error is returned only for an unusable starting position.
func NewBuilder(r io.Reader, newEngine engine.Factory, opts *config.Options) (*Builder, error) {
	if opts == nil {
		opts = config.NewOptions()
	}
	if newEngine == nil {
		newEngine = engine.New
	}

	eng, err := newEngine(opts.StartFEN)
	if err != nil {
		return nil, err
	}

	t := tree.New(eng.FEN())
	b := &Builder{
		lexer:     NewLexer(r, opts),
		opts:      opts,
		newEngine: newEngine,
		tree:      t,
		log:       opts.Log(),
	}
	b.stack = []*parseContext{{branch: t.Root, eng: eng, interrupted: true}}
	return b, nil
}

// Parse builds the game tree for text in one call.
func Parse(text string, newEngine engine.Factory, opts *config.Options) (*tree.Tree, error) {
	b, err := NewBuilder(strings.NewReader(text), newEngine, opts)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// Tree returns the tree built so far. During chunked building it exposes
// the partial result for incremental display.
func (b *Builder) Tree() *tree.Tree {
	return b.tree
}

// Done reports whether the input has been fully consumed.
func (b *Builder) Done() bool {
	return b.done
}

// Build consumes the remaining input and returns the completed tree.
func (b *Builder) Build() *tree.Tree {
	b.Step(0)
	return b.tree
}

// Step consumes tokens until the budget elapses or input ends, and
// reports whether building is complete. A budget of zero or less means no
// limit. Chunked runs produce exactly the tree a single Build call would.
func (b *Builder) Step(budget time.Duration) bool {
	if b.done {
		return true
	}
	var deadline time.Time
	if budget > 0 {
		deadline = time.Now().Add(budget)
	}
	for !b.done {
		b.consume(b.lexer.Next())
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			break
		}
	}
	return b.done
}

// BuildContext builds in chunks of the configured budget, checking ctx
// between chunks. On cancellation the partial tree is returned together
// with the context's error.
func (b *Builder) BuildContext(ctx context.Context) (*tree.Tree, error) {
	for !b.Step(b.opts.Budget()) {
		if err := ctx.Err(); err != nil {
			return b.tree, err
		}
	}
	return b.tree, nil
}

// ctx returns the innermost open line.
func (b *Builder) ctx() *parseContext {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) consume(tok Token) {
	switch tok.Type {
	case MoveNumberToken:
		// Re-derivable from ply; discarded.

	case SanToken:
		b.onSan(tok)

	case CheckToken:
		if cur := b.ctx().cursor; cur != nil {
			cur.Move += tok.Text
		}

	case CommentToken:
		b.onComment(tok.Text)

	case NAGToken, EvalToken:
		if b.opts.DropAnnotations {
			return
		}
		if cur := b.ctx().cursor; cur != nil {
			cur.AppendAnnotation(tok.Text)
		} else {
			b.log.Debug("annotation before any move dropped",
				zap.String("glyph", tok.Text), zap.Uint("line", tok.Line))
		}

	case VariationStart:
		b.pushContext()

	case VariationEnd:
		b.popContext()

	case ResultToken:
		if len(b.stack) > 1 {
			// A result inside a variation cannot terminate the game.
			b.log.Debug("result inside variation ignored", zap.String("result", tok.Text))
			return
		}
		b.tree.SetResult(tok.Text)
		b.done = true

	case EOFToken:
		b.done = true
	}
}

// onSan submits a candidate move to the line's engine. Accepted moves
// become nodes; rejected ones are preserved verbatim as inert text so the
// rendered line stays visually faithful to the source.
func (b *Builder) onSan(tok Token) {
	ctx := b.ctx()
	san := LookupSAN(tok.Text)

	if err := ctx.eng.Move(san); err != nil {
		b.log.Warn("move rejected by rules engine, kept as text",
			zap.String("move", tok.Text), zap.Uint("line", tok.Line),
			zap.Error(pgnerr.Wrap(err, tok.Line, tok.Text)))
		b.attachInert(ctx, tok.Text)
		ctx.interrupted = true
		return
	}

	parent := ctx.attachPoint()
	node := b.tree.NewNode(parent, tok.Text, san, ctx.eng.FEN())
	node.NumberRestated = ctx.interrupted
	if parent.Mainline == nil {
		parent.Mainline = node
	} else {
		parent.Variations = append(parent.Variations, node)
	}
	if len(ctx.leading) > 0 {
		node.PreComments = ctx.leading
		ctx.leading = nil
	}
	ctx.cursor = node
	ctx.interrupted = false
}

func (b *Builder) onComment(text string) {
	if b.opts.DropComments || text == "" {
		return
	}
	ctx := b.ctx()
	switch {
	case ctx.cursor != nil:
		ctx.cursor.AppendComment(text)
	case b.opts.LeadingComments == config.AttachToParent:
		ctx.branch.AppendComment(text)
	case len(b.stack) == 1:
		// A leading comment of the game itself.
		b.tree.LeadingComments = append(b.tree.LeadingComments, text)
	default:
		// Floating: rendered before the variation's first move.
		ctx.leading = append(ctx.leading, text)
	}
	ctx.interrupted = true
}

// attachInert preserves rejected move text on the nearest open line.
func (b *Builder) attachInert(ctx *parseContext, text string) {
	if ctx.cursor != nil {
		ctx.cursor.AppendComment(text)
		return
	}
	if len(b.stack) == 1 {
		b.tree.LeadingComments = append(b.tree.LeadingComments, text)
		return
	}
	ctx.leading = append(ctx.leading, text)
}

// pushContext opens a variation: an alternative to the line's most recent
// move, branching from that move's parent. The new context gets a fresh
// engine instance seeded from the branch position snapshot.
func (b *Builder) pushContext() {
	ctx := b.ctx()
	branch := ctx.branch
	if ctx.cursor != nil {
		branch = ctx.cursor.Parent
	}

	eng, err := b.newEngine(branch.FEN)
	if err != nil {
		// Keep the parse total: the variation's moves will be rejected
		// and preserved as inert text.
		b.log.Error("engine fork failed, variation kept as text", zap.Error(err))
		eng = deadEngine{fen: branch.FEN}
	}
	b.stack = append(b.stack, &parseContext{
		branch:      branch,
		eng:         eng,
		interrupted: true,
	})
}

// popContext closes the innermost variation and resumes its parent line,
// which must restate its next move number.
func (b *Builder) popContext() {
	if len(b.stack) == 1 {
		b.log.Debug("unmatched variation close")
		return
	}
	closed := b.ctx()
	b.stack = b.stack[:len(b.stack)-1]

	if len(closed.leading) > 0 {
		// The variation held no moves; keep its text on the branch node.
		for _, text := range closed.leading {
			closed.branch.AppendComment(text)
		}
	}
	b.ctx().interrupted = true
}

// LookupSAN converts authored move text to the form submitted to the
// rules engine: decorations stripped, zero-style castling normalized.
// Display text is never altered.
func LookupSAN(display string) string {
	s := strings.TrimRight(display, "+#")
	switch strings.ToUpper(s) {
	case "0-0", "O-O":
		return "O-O"
	case "0-0-0", "O-O-O":
		return "O-O-O"
	}
	return s
}

// deadEngine rejects every move. It stands in for an engine the factory
// could not provide, keeping the parser total.
type deadEngine struct{ fen string }

func (d deadEngine) Move(san string) error { return pgnerr.ErrIllegalMove }
func (d deadEngine) MoveSquares(from, to, promo string) (string, error) {
	return "", pgnerr.ErrIllegalMove
}
func (d deadEngine) FEN() string                  { return d.fen }
func (d deadEngine) Turn() byte                   { return 'w' }
func (d deadEngine) History() []string            { return nil }
func (d deadEngine) Undo() bool                   { return false }
func (d deadEngine) Load(fen string) error        { return pgnerr.ErrInvalidFEN }
func (d deadEngine) Fork() (engine.Engine, error) { return d, nil }
