package edit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine/enginetest"
	"github.com/pgnview/pgnview/internal/nav"
	"github.com/pgnview/pgnview/internal/parser"
	"github.com/pgnview/pgnview/internal/tree"
)

type nullBoard struct{}

func (nullBoard) SetPosition(fen string, animate bool) {}

func newFixture(t *testing.T, movetext string) (*Editor, *nav.Navigator) {
	t.Helper()
	factory := enginetest.Factory(enginetest.Options{
		Drops: map[string]string{
			"e2e4":  "e4",
			"g1f3":  "Nf3",
			"f1c4":  "Bc4",
			"e7e8q": "e8=Q",
		},
	})
	opts := &config.Options{StartFEN: "start"}
	tr, err := parser.Parse(movetext, factory, opts)
	require.NoError(t, err)
	n := nav.New(tr, nullBoard{}, factory, opts)
	return New(n, factory, opts), n
}

func TestInsertExtendsMainline(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5")

	require.True(t, n.ToEnd())
	require.True(t, e.Insert("Nf3"))

	line := n.Tree().Mainline()
	require.Len(t, line, 3)
	require.Equal(t, "Nf3", line[2].SAN)
	require.Same(t, line[2], n.Cursor())
	require.Equal(t, "start|e4 e5|Nf3", line[2].FEN)
}

func TestInsertMatchingMoveOnlyNavigates(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5")

	before := n.Tree().NodeCount()
	require.True(t, e.Insert("e4"))

	require.Equal(t, before, n.Tree().NodeCount())
	require.Same(t, n.Tree().Root.Mainline, n.Cursor())
	require.False(t, e.CanUndo(), "pure navigation leaves nothing to undo")
}

func TestInsertBranchesFromMidline(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3")

	e5 := n.Tree().Root.Mainline.Mainline
	require.True(t, n.Goto(e5))
	require.True(t, e.Insert("Bc4"))

	require.Len(t, e5.Variations, 1)
	bc4 := e5.Variations[0]
	require.Equal(t, "Bc4", bc4.SAN)
	require.True(t, bc4.NumberRestated)
	require.True(t, bc4.IsVariation())
	require.Same(t, bc4, n.Cursor())
	require.Equal(t, "Nf3", e5.Mainline.SAN, "mainline untouched")
}

func TestInsertMatchingVariationNavigates(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4)")

	e5 := n.Tree().Root.Mainline.Mainline
	require.True(t, n.Goto(e5))

	before := n.Tree().NodeCount()
	require.True(t, e.Insert("Bc4"))
	require.Equal(t, before, n.Tree().NodeCount())
	require.Same(t, e5.Variations[0], n.Cursor())
}

func TestInsertSquaresUsesDropTranslation(t *testing.T) {
	e, n := newFixture(t, "")

	require.True(t, e.InsertSquares("e2", "e4", ""))
	require.Equal(t, "e4", n.Cursor().SAN)

	require.False(t, e.InsertSquares("a1", "h8", ""), "unscripted drop is illegal")
}

func TestInsertRejectsIllegalMove(t *testing.T) {
	e, n := newFixture(t, "1. e4")

	require.False(t, e.Insert("zz9"))
	require.Equal(t, 1, n.Tree().NodeCount())
	require.False(t, e.CanUndo())
}

func TestUndoInsert(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5")

	require.True(t, n.ToEnd())
	require.True(t, e.Insert("Nf3"))
	inserted := n.Cursor()

	require.True(t, e.Undo())
	require.False(t, n.Tree().Contains(inserted))
	require.Equal(t, 2, n.Tree().NodeCount())
	require.Same(t, n.Tree().Root.Mainline.Mainline, n.Cursor(), "cursor relocated off the removed node")
	require.False(t, e.Undo(), "undo slot is consumed")
}

func TestPromoteSwapsWithMainline(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4 Nc6) Nc6")

	e5 := n.Tree().Root.Mainline.Mainline
	nf3 := e5.Mainline
	bc4 := e5.Variations[0]

	require.True(t, e.Promote(bc4))
	require.Same(t, bc4, e5.Mainline)
	require.Equal(t, []*tree.GameNode{nf3}, e5.Variations)
	require.False(t, bc4.IsVariation())
	require.True(t, nf3.IsVariation())
	require.Equal(t, "Nc6", bc4.Mainline.SAN, "promoted line keeps its continuation")
}

func TestPromoteUndoRestoresArrangement(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4) (2. d4)")

	e5 := n.Tree().Root.Mainline.Mainline
	nf3 := e5.Mainline
	bc4, d4 := e5.Variations[0], e5.Variations[1]

	require.True(t, e.Promote(d4))
	require.True(t, e.Undo())

	require.Same(t, nf3, e5.Mainline)
	require.Equal(t, []*tree.GameNode{bc4, d4}, e5.Variations)
}

func TestPromoteRejectsMainlineAndStaleNodes(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4)")

	e5 := n.Tree().Root.Mainline.Mainline
	require.False(t, e.Promote(e5.Mainline), "mainline node")
	require.False(t, e.Promote(nil))

	bc4 := e5.Variations[0]
	require.True(t, e.Delete(bc4))
	require.False(t, e.Promote(bc4), "stale node")
}

func TestDeleteRelocatesCursorOutOfSubtree(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4 Nc6) Nc6")

	e5 := n.Tree().Root.Mainline.Mainline
	bc4 := e5.Variations[0]
	require.True(t, n.Goto(bc4.Mainline), "cursor deep inside the variation")

	require.True(t, e.Delete(bc4))
	require.Same(t, e5, n.Cursor())
	require.Empty(t, e5.Variations)
	require.False(t, n.Tree().Contains(bc4))
}

func TestDeleteUndoRestoresIndexAndSubtree(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4) (2. d4) (2. f4)")

	e5 := n.Tree().Root.Mainline.Mainline
	bc4, d4, f4 := e5.Variations[0], e5.Variations[1], e5.Variations[2]

	require.True(t, e.Delete(d4))
	require.Equal(t, []*tree.GameNode{bc4, f4}, e5.Variations)

	require.True(t, e.Undo())
	require.Equal(t, []*tree.GameNode{bc4, d4, f4}, e5.Variations)
	require.Same(t, e5, d4.Parent)
	require.True(t, n.Tree().Contains(d4))
}

func TestUndoKeepsOnlyLatestEdit(t *testing.T) {
	e, n := newFixture(t, "1. e4 e5 2. Nf3 (2. Bc4) (2. d4)")

	e5 := n.Tree().Root.Mainline.Mainline
	bc4, d4 := e5.Variations[0], e5.Variations[1]

	require.True(t, e.Delete(bc4))
	require.True(t, e.Delete(d4))
	require.True(t, e.Undo())

	// Only the second delete is reversible.
	require.Equal(t, []*tree.GameNode{d4}, e5.Variations)
	require.False(t, n.Tree().Contains(bc4))
	require.False(t, e.Undo())
}
