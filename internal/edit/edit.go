// Package edit mutates a game tree in response to user actions: dropping
// a piece to insert or branch, promoting a variation to the mainline, and
// deleting a variation subtree, with a single level of undo.
package edit

import (
	"sync"

	"go.uber.org/zap"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine"
	pgnerr "github.com/pgnview/pgnview/internal/errors"
	"github.com/pgnview/pgnview/internal/nav"
	"github.com/pgnview/pgnview/internal/tree"
)

// Editor applies structural edits at the navigator's cursor. Every edit
// that changes the cursor goes through the navigator, so the board render
// stays consistent with the tree.
type Editor struct {
	mu        sync.Mutex
	nav       *nav.Navigator
	tree      *tree.Tree
	newEngine engine.Factory
	log       *zap.Logger

	// last holds the inverse of the most recent structural edit. Only one
	// level is kept; a new edit replaces it and Undo consumes it.
	last *inverse
}

// inverse is what Undo replays to restore the arrangement before an edit.
type inverse struct {
	kind   inverseKind
	parent *tree.GameNode
	node   *tree.GameNode

	// demoted is the former mainline child for a promotion.
	demoted *tree.GameNode

	// index is the node's original position among the parent's variations.
	index int
}

type inverseKind int

const (
	inverseNone inverseKind = iota
	inverseInsert
	inversePromote
	inverseDelete
)

// New creates an editor over the navigator's tree. A nil newEngine uses
// the corentings/chess adapter.
func New(n *nav.Navigator, newEngine engine.Factory, opts *config.Options) *Editor {
	if newEngine == nil {
		newEngine = engine.New
	}
	return &Editor{
		nav:       n,
		tree:      n.Tree(),
		newEngine: newEngine,
		log:       opts.Log(),
	}
}

// InsertSquares interprets a piece drop at the cursor position. An
// illegal drop is rejected. A drop matching an existing continuation only
// navigates; a new move extends the mainline when the cursor has no
// continuation yet, and otherwise starts a variation. It reports whether
// the drop was accepted.
func (e *Editor) InsertSquares(from, to, promo string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cursor := e.nav.Cursor()
	eng, err := e.newEngine(cursor.FEN)
	if err != nil {
		e.log.Error("engine unavailable for insert", zap.Error(err))
		return false
	}
	san, err := eng.MoveSquares(from, to, promo)
	if err != nil {
		e.log.Debug("drop rejected",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		return false
	}
	e.insert(cursor, san, eng.FEN())
	return true
}

// Insert applies a move given in algebraic notation at the cursor, with
// the same matching and branching behavior as InsertSquares.
func (e *Editor) Insert(san string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cursor := e.nav.Cursor()
	eng, err := e.newEngine(cursor.FEN)
	if err != nil {
		e.log.Error("engine unavailable for insert", zap.Error(err))
		return false
	}
	if err := eng.Move(san); err != nil {
		e.log.Debug("move rejected", zap.String("move", san), zap.Error(err))
		return false
	}
	e.insert(cursor, san, eng.FEN())
	return true
}

// insert attaches or matches the accepted move. Callers hold the lock.
func (e *Editor) insert(cursor *tree.GameNode, san, fen string) {
	if next := cursor.Mainline; next != nil && next.SAN == san {
		e.nav.GotoQuiet(next)
		return
	}
	for _, v := range cursor.Variations {
		if v.Parent == cursor && v.SAN == san {
			e.nav.GotoQuiet(v)
			return
		}
	}

	node := e.tree.NewNode(cursor, san, san, fen)
	if cursor.Mainline == nil {
		cursor.Mainline = node
	} else {
		node.NumberRestated = true
		cursor.Variations = append(cursor.Variations, node)
	}
	e.last = &inverse{kind: inverseInsert, parent: cursor, node: node}
	e.nav.GotoQuiet(node)
}

// Promote makes the variation node n the mainline continuation of its
// parent. The former mainline child becomes the parent's first variation.
// Stale or non-variation nodes are no-ops.
func (e *Editor) Promote(n *tree.GameNode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n == nil || !e.tree.Contains(n) {
		e.log.Debug("promote ignored", zap.Error(pgnerr.ErrStaleNode))
		return false
	}
	if !n.IsVariation() {
		return false
	}
	parent := n.Parent
	idx := variationIndex(parent, n)
	if idx < 0 {
		return false
	}

	demoted := parent.Mainline
	parent.Variations = append(parent.Variations[:idx], parent.Variations[idx+1:]...)
	parent.Mainline = n
	if demoted != nil {
		parent.Variations = append([]*tree.GameNode{demoted}, parent.Variations...)
	}

	e.last = &inverse{kind: inversePromote, parent: parent, node: n, demoted: demoted, index: idx}
	e.log.Info("variation promoted", zap.String("move", n.Move), zap.Int("node", n.ID))
	return true
}

// Delete removes the variation subtree rooted at n. If the cursor is
// inside the subtree it is relocated to n's parent first. Stale or
// non-variation nodes are no-ops.
func (e *Editor) Delete(n *tree.GameNode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n == nil || !e.tree.Contains(n) {
		e.log.Debug("delete ignored", zap.Error(pgnerr.ErrStaleNode))
		return false
	}
	if !n.IsVariation() {
		return false
	}
	parent := n.Parent
	idx := variationIndex(parent, n)
	if idx < 0 {
		return false
	}

	if inSubtree(n, e.nav.Cursor()) {
		e.nav.GotoQuiet(parent)
	}

	parent.Variations = append(parent.Variations[:idx], parent.Variations[idx+1:]...)
	n.Parent = nil

	e.last = &inverse{kind: inverseDelete, parent: parent, node: n, index: idx}
	e.log.Info("variation deleted", zap.String("move", n.Move), zap.Int("node", n.ID))
	return true
}

// Undo reverses the most recent structural edit and reports whether
// anything was undone. The undo slot is consumed.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	inv := e.last
	if inv == nil || inv.kind == inverseNone {
		return false
	}
	e.last = nil

	switch inv.kind {
	case inverseInsert:
		parent := inv.parent
		if parent.Mainline == inv.node {
			parent.Mainline = nil
		} else if idx := variationIndex(parent, inv.node); idx >= 0 {
			parent.Variations = append(parent.Variations[:idx], parent.Variations[idx+1:]...)
		}
		inv.node.Parent = nil
		if !e.tree.Contains(e.nav.Cursor()) {
			e.nav.GotoQuiet(parent)
		}

	case inversePromote:
		parent := inv.parent
		if idx := variationIndex(parent, inv.demoted); idx >= 0 {
			parent.Variations = append(parent.Variations[:idx], parent.Variations[idx+1:]...)
		}
		parent.Mainline = inv.demoted
		at := inv.index
		if at > len(parent.Variations) {
			at = len(parent.Variations)
		}
		parent.Variations = append(parent.Variations[:at],
			append([]*tree.GameNode{inv.node}, parent.Variations[at:]...)...)

	case inverseDelete:
		parent := inv.parent
		inv.node.Parent = parent
		at := inv.index
		if at > len(parent.Variations) {
			at = len(parent.Variations)
		}
		parent.Variations = append(parent.Variations[:at],
			append([]*tree.GameNode{inv.node}, parent.Variations[at:]...)...)
	}
	return true
}

// CanUndo reports whether an edit is available to undo.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last != nil
}

func variationIndex(parent *tree.GameNode, n *tree.GameNode) int {
	for i, v := range parent.Variations {
		if v == n {
			return i
		}
	}
	return -1
}

// inSubtree reports whether cur lies in the subtree rooted at n.
func inSubtree(n, cur *tree.GameNode) bool {
	for ; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}
