// Package tree defines the game tree built from PGN movetext: nodes with a
// mainline successor, a list of alternative continuations, comments and
// inline annotation glyphs. The tree holds positions derived from the
// external rules engine; it never computes chess legality itself.
package tree

// GameNode is a single half-move in the game tree. The synthetic root node
// carries the starting position and an empty Move.
type GameNode struct {
	// ID is unique within the owning Tree and stable for the session.
	// It is used for cursor and display correlation, not equality.
	ID int

	// Move is the display text as authored in the source (castling glyphs
	// and check decorations preserved). Empty only for the root.
	Move string

	// SAN is the engine-accepted form of Move: decorations stripped and
	// zero-style castling normalized. Used for replay, never for display.
	SAN string

	// FEN is the position after this move, as reported by the rules
	// engine. For the root it is the starting position.
	FEN string

	// Parent is the preceding node; nil for the root and for nodes that
	// have been unlinked from their tree.
	Parent *GameNode

	// Mainline is the principal continuation, if any.
	Mainline *GameNode

	// Variations are alternative continuations from this node, each an
	// alternative to Mainline. Insertion order is display order.
	Variations []*GameNode

	// Comments is prose attached after this move in the source.
	Comments []string

	// PreComments is prose that appeared before this move (leading
	// comments of a line, when they are kept floating).
	PreComments []string

	// Annotations are NAG and evaluation glyphs rendered inline with the
	// move, distinct from Comments.
	Annotations []string

	// Ply is the 0-based half-move index. White moves have even Ply.
	// The root is seeded one below the first move's ply so that
	// Ply = Parent.Ply + 1 holds throughout, including custom starting
	// positions.
	Ply int

	// NumberRestated records that this move followed an interruption
	// (comment or variation) in the source, so its number is restated
	// even for Black.
	NumberRestated bool
}

// IsRoot reports whether n is the synthetic root of its tree.
func (n *GameNode) IsRoot() bool {
	return n.Parent == nil && n.Move == ""
}

// White reports whether this move was played by White.
// Not meaningful for the root.
func (n *GameNode) White() bool {
	return n.Ply%2 == 0
}

// MoveNumber returns the displayed move number for this node.
func (n *GameNode) MoveNumber() int {
	return n.Ply/2 + 1
}

// IsVariation reports whether n is reachable from its parent through the
// Variations list rather than as the mainline continuation.
func (n *GameNode) IsVariation() bool {
	if n == nil || n.Parent == nil {
		return false
	}
	for _, v := range n.Parent.Variations {
		if v == n {
			return true
		}
	}
	return false
}

// Terminal returns the last node reached by repeatedly following the
// mainline from n.
func (n *GameNode) Terminal() *GameNode {
	cur := n
	for cur.Mainline != nil {
		cur = cur.Mainline
	}
	return cur
}

// AppendComment attaches prose to this node. Empty strings are dropped.
func (n *GameNode) AppendComment(text string) {
	if text == "" {
		return
	}
	n.Comments = append(n.Comments, text)
}

// AppendAnnotation attaches an inline glyph to this node.
func (n *GameNode) AppendAnnotation(glyph string) {
	if glyph == "" {
		return
	}
	n.Annotations = append(n.Annotations, glyph)
}
