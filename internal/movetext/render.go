package movetext

import (
	"io"
	"strconv"
	"strings"

	"github.com/pgnview/pgnview/internal/tree"
)

// Render writes the tree's movetext to w, wrapped at width columns.
func Render(t *tree.Tree, w io.Writer, width int) {
	ow := NewWriter(w, width)
	for _, c := range t.LeadingComments {
		ow.Write("{" + c + "}")
	}
	renderLine(ow, t.Root.Mainline)
	if t.Result != "" {
		ow.Write(t.Result)
	}
	ow.NewLine()
}

// RenderString returns the rendered movetext as a single string.
func RenderString(t *tree.Tree, width int) string {
	var sb strings.Builder
	Render(t, &sb, width)
	return sb.String()
}

// renderLine walks one line from its head, emitting each move, its
// comments, and the alternatives to it. Alternatives hang off a move's
// parent but print after the move itself, which is where authored PGN
// places them. A move number is emitted before White's move
// unconditionally and before Black's move only after an interruption:
// the start of the line, a comment, or a variation.
func renderLine(ow *Writer, head *tree.GameNode) {
	interrupted := true
	for node := head; node != nil; node = node.Mainline {
		for _, c := range node.PreComments {
			ow.Write("{" + c + "}")
		}

		writeMove(ow, node, interrupted)
		interrupted = false

		for _, c := range node.Comments {
			ow.Write("{" + c + "}")
			interrupted = true
		}
		if node.Parent != nil && node.Parent.Mainline == node {
			for _, v := range node.Parent.Variations {
				ow.OpenGroup()
				renderLine(ow, v)
				ow.CloseGroup()
				interrupted = true
			}
		}
	}
}

// writeMove emits the number prefix (when due) and the move with its
// inline annotation glyphs.
func writeMove(ow *Writer, node *tree.GameNode, interrupted bool) {
	if node.White() {
		ow.Write(numberPrefix(node, "."))
		ow.Write(text(node))
		return
	}
	if interrupted {
		ow.Write(numberPrefix(node, "..."))
	}
	ow.Write(text(node))
}

func numberPrefix(node *tree.GameNode, dots string) string {
	return strconv.Itoa(node.MoveNumber()) + dots
}

func text(node *tree.GameNode) string {
	if len(node.Annotations) == 0 {
		return node.Move
	}
	return node.Move + strings.Join(node.Annotations, "")
}
