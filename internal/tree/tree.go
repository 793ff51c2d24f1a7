package tree

import (
	"strconv"
	"strings"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Tree owns a game's node graph and allocates node identities.
type Tree struct {
	// Root is the synthetic node holding the starting position.
	Root *GameNode

	// Result is the game result token, if one was seen. Only the first
	// result encountered during a parse is kept.
	Result string

	// LeadingComments is prose that preceded the first move of the game
	// when leading comments are kept floating.
	LeadingComments []string

	nextID int
}

// New creates a tree whose root carries startFEN. An empty startFEN means
// the standard initial position. The root's ply is seeded from the
// position's side to move and fullmove counter so that the move-number law
// (number = ply/2 + 1, White iff ply even) holds for custom starting
// positions as well.
func New(startFEN string) *Tree {
	if startFEN == "" {
		startFEN = StartingFEN
	}
	t := &Tree{}
	t.Root = &GameNode{
		ID:  t.allocID(),
		FEN: startFEN,
		Ply: rootPly(startFEN),
	}
	return t
}

// rootPly derives the root's ply seed from a FEN's side-to-move and
// fullmove fields. The first move's ply is rootPly+1.
func rootPly(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return -1
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		full = 1
	}
	ply := (full - 1) * 2
	if fields[1] == "b" {
		ply++
	}
	return ply - 1
}

// NewNode allocates a node continuing from parent. The node is not linked
// into the tree; the caller attaches it as mainline or variation.
func (t *Tree) NewNode(parent *GameNode, display, san, fen string) *GameNode {
	return &GameNode{
		ID:     t.allocID(),
		Move:   display,
		SAN:    san,
		FEN:    fen,
		Parent: parent,
		Ply:    parent.Ply + 1,
	}
}

func (t *Tree) allocID() int {
	id := t.nextID
	t.nextID++
	return id
}

// SetResult records the game result. Later results are ignored, which
// defends against a result appearing both in the header and after the
// movetext.
func (t *Tree) SetResult(result string) {
	if t.Result == "" {
		t.Result = result
	}
}

// Contains reports whether n is linked into this tree. Every step on the
// walk to the root must be a real edge, either the parent's mainline
// child or a member of its variations, so nodes that were allocated but
// never attached do not count as members.
func (t *Tree) Contains(n *GameNode) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == t.Root {
			return true
		}
		if cur.Parent == nil {
			return false
		}
		if cur.Parent.Mainline != cur && !cur.IsVariation() {
			return false
		}
	}
	return false
}

// NodeCount returns the number of nodes in the tree, excluding the root.
func (t *Tree) NodeCount() int {
	count := 0
	stack := []*GameNode{t.Root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n != t.Root {
			count++
		}
		if n.Mainline != nil {
			stack = append(stack, n.Mainline)
		}
		stack = append(stack, n.Variations...)
	}
	return count
}

// MainlineLength returns the number of mainline half-moves.
func (t *Tree) MainlineLength() int {
	count := 0
	for cur := t.Root.Mainline; cur != nil; cur = cur.Mainline {
		count++
	}
	return count
}

// Mainline returns the principal line as a slice, excluding the root.
func (t *Tree) Mainline() []*GameNode {
	var line []*GameNode
	for cur := t.Root.Mainline; cur != nil; cur = cur.Mainline {
		line = append(line, cur)
	}
	return line
}
