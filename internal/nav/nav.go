// Package nav provides cursor navigation over a game tree. Every
// transition materializes the cursor position by replaying the path from
// the root through a fresh rules-engine instance and issues exactly one
// render call to the board widget.
package nav

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine"
	"github.com/pgnview/pgnview/internal/tree"
)

// BoardWidget is the rendering collaborator. It draws a position and may
// animate the transition; it must tolerate being retargeted before a
// prior animation completes.
type BoardWidget interface {
	SetPosition(fen string, animate bool)
}

// Navigator owns the cursor over one game tree and keeps one board widget
// in sync with it. Timer-driven work (delayed resync, auto-play) is
// superseded by any newer navigation: a stale completion never repositions
// the board or runs its callback.
type Navigator struct {
	mu        sync.Mutex
	tree      *tree.Tree
	cursor    *tree.GameNode
	board     BoardWidget
	newEngine engine.Factory
	log       *zap.Logger

	// gen increments on every navigation; pending timers capture the
	// value at scheduling time and fire only if it is unchanged.
	gen     uint64
	pending *time.Timer
}

// New creates a navigator with its cursor at the root. A nil newEngine
// uses the corentings/chess adapter. The initial render is not issued
// here; call Render once the widget is ready.
func New(t *tree.Tree, board BoardWidget, newEngine engine.Factory, opts *config.Options) *Navigator {
	if newEngine == nil {
		newEngine = engine.New
	}
	return &Navigator{
		tree:      t,
		cursor:    t.Root,
		board:     board,
		newEngine: newEngine,
		log:       opts.Log(),
	}
}

// Tree returns the navigated tree.
func (n *Navigator) Tree() *tree.Tree {
	return n.tree
}

// Cursor returns the current node.
func (n *Navigator) Cursor() *tree.GameNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cursor
}

// Render issues the initial (non-animated) render of the cursor position.
func (n *Navigator) Render() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revalidate()
	n.moveTo(n.cursor, false)
}

// ToStart moves the cursor to the root.
func (n *Navigator) ToStart() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revalidate()
	n.moveTo(n.tree.Root, true)
	return true
}

// ToEnd moves the cursor to the end of the mainline continuing from the
// current cursor.
func (n *Navigator) ToEnd() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revalidate()
	n.moveTo(n.cursor.Terminal(), true)
	return true
}

// StepForward follows the mainline one move. It reports whether the
// cursor moved.
func (n *Navigator) StepForward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revalidate()
	return n.stepForward(true)
}

// StepBackward moves to the parent. It reports whether the cursor moved.
func (n *Navigator) StepBackward() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revalidate()
	if n.cursor.Parent == nil {
		return false
	}
	n.moveTo(n.cursor.Parent, true)
	return true
}

// Goto jumps directly to node (move-list click, variation entry). A node
// that is not part of the tree is a no-op.
func (n *Navigator) Goto(node *tree.GameNode) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if node == nil || !n.tree.Contains(node) {
		n.log.Debug("goto ignored for detached node")
		return false
	}
	n.moveTo(node, true)
	return true
}

// GotoQuiet moves the cursor without animation, used by the editor after
// structural changes.
func (n *Navigator) GotoQuiet(node *tree.GameNode) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if node == nil || !n.tree.Contains(node) {
		return false
	}
	n.moveTo(node, false)
	return true
}

// Resync schedules a non-animated re-render after delay, letting the
// widget settle a prior animation. Any navigation issued before the timer
// fires wins over the pending resync.
func (n *Navigator) Resync(delay time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	g := n.gen
	fen := n.cursor.FEN
	n.stopPending()
	n.pending = time.AfterFunc(delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if g != n.gen {
			return
		}
		n.board.SetPosition(fen, false)
	})
}

// AutoPlay schedules a mainline step after delay (an opponent reply, for
// instance) and then runs onDone. Navigating away before the timer fires
// suppresses both the step and the callback.
func (n *Navigator) AutoPlay(delay time.Duration, onDone func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	g := n.gen
	n.stopPending()
	n.pending = time.AfterFunc(delay, func() {
		n.mu.Lock()
		if g != n.gen {
			n.mu.Unlock()
			return
		}
		n.revalidate()
		moved := n.stepForward(true)
		n.mu.Unlock()
		if moved && onDone != nil {
			onDone()
		}
	})
}

// stepForward advances along the mainline. Callers hold the lock.
func (n *Navigator) stepForward(animate bool) bool {
	if n.cursor.Mainline == nil {
		return false
	}
	n.moveTo(n.cursor.Mainline, animate)
	return true
}

// moveTo commits a transition: supersedes pending timers, materializes
// the position, and issues exactly one render call. Callers hold the lock.
func (n *Navigator) moveTo(node *tree.GameNode, animate bool) {
	n.gen++
	n.stopPending()
	fen := n.materialize(node)
	n.cursor = node
	n.board.SetPosition(fen, animate)
}

// revalidate defends against a cursor invalidated by tree edits, falling
// back to the root. Callers hold the lock.
func (n *Navigator) revalidate() {
	if !n.tree.Contains(n.cursor) {
		n.log.Debug("cursor detached from tree, resetting to root")
		n.cursor = n.tree.Root
	}
}

func (n *Navigator) stopPending() {
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
}

// materialize replays the path from the root to node through a fresh
// engine instance. Replaying rather than keeping an incremental engine
// avoids aliasing when the same node is reached via different paths
// during editing. On replay failure the node's stored position is used.
func (n *Navigator) materialize(node *tree.GameNode) string {
	if node.Parent == nil {
		return node.FEN
	}

	var path []*tree.GameNode
	for cur := node; cur.Parent != nil; cur = cur.Parent {
		path = append(path, cur)
	}

	eng, err := n.newEngine(n.tree.Root.FEN)
	if err != nil {
		n.log.Warn("replay engine unavailable, using stored position", zap.Error(err))
		return node.FEN
	}
	for i := len(path) - 1; i >= 0; i-- {
		if err := eng.Move(path[i].SAN); err != nil {
			n.log.Warn("replay diverged, using stored position",
				zap.String("move", path[i].SAN), zap.Error(err))
			return node.FEN
		}
	}
	fen := eng.FEN()
	if fen != node.FEN {
		n.log.Debug("replayed position differs from stored",
			zap.String("replayed", fen), zap.String("stored", node.FEN))
	}
	return fen
}
