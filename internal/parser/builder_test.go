package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pgnview/pgnview/internal/config"
	"github.com/pgnview/pgnview/internal/engine/enginetest"
	"github.com/pgnview/pgnview/internal/parser"
	"github.com/pgnview/pgnview/internal/testutil"
	"github.com/pgnview/pgnview/internal/tree"
)

func buildFake(t *testing.T, movetext string, opts *config.Options) *tree.Tree {
	t.Helper()
	if opts == nil {
		opts = config.NewOptions()
	}
	opts.StartFEN = "start"
	tr, err := parser.Parse(movetext, enginetest.NewFactory(), opts)
	testutil.AssertNoError(t, err)
	return tr
}

// mainlineSANs walks the principal line and returns its moves.
func mainlineSANs(tr *tree.Tree) []string {
	var sans []string
	for _, n := range tr.Mainline() {
		sans = append(sans, n.SAN)
	}
	return sans
}

func TestBuildMainline(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Nf3 Nc6", nil)

	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "e5", "Nf3", "Nc6"})
	testutil.AssertEqual(t, tr.NodeCount(), 4)

	// Positions chain from the start through each move.
	testutil.AssertEqual(t, tr.Root.FEN, "start")
	testutil.AssertEqual(t, tr.Root.Mainline.FEN, "start|e4")
	testutil.AssertEqual(t, tr.Root.Terminal().FEN, "start|e4 e5 Nf3 Nc6")
}

func TestBuildPlyAndNumberLaw(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Nf3", nil)

	line := tr.Mainline()
	testutil.AssertEqual(t, line[0].MoveNumber(), 1)
	testutil.AssertTrue(t, line[0].White())
	testutil.AssertEqual(t, line[1].MoveNumber(), 1)
	testutil.AssertTrue(t, !line[1].White())
	testutil.AssertEqual(t, line[2].MoveNumber(), 2)
	testutil.AssertTrue(t, line[2].White())
}

func TestBuildVariationBranchesFromPredecessor(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Nf3 (2. Bc4 Nc6) 2... Nc6", nil)

	e5 := tr.Root.Mainline.Mainline
	nf3 := e5.Mainline
	testutil.AssertEqual(t, nf3.SAN, "Nf3")

	// The alternative to Nf3 hangs off Nf3's parent.
	testutil.AssertEqual(t, len(e5.Variations), 1)
	bc4 := e5.Variations[0]
	testutil.AssertEqual(t, bc4.SAN, "Bc4")
	testutil.AssertTrue(t, bc4.Parent == e5)
	testutil.AssertTrue(t, bc4.IsVariation())
	testutil.AssertEqual(t, bc4.Ply, nf3.Ply)

	// The variation's own continuation is its mainline.
	testutil.AssertEqual(t, bc4.Mainline.SAN, "Nc6")
	testutil.AssertTrue(t, !bc4.Mainline.IsVariation())

	// The outer line resumes after the close.
	testutil.AssertEqual(t, nf3.Mainline.SAN, "Nc6")
	testutil.AssertEqual(t, tr.NodeCount(), 6)
}

func TestBuildVariationPositionsAreIsolated(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Nf3 (2. Bc4 Nc6) 2... Nc6", nil)

	e5 := tr.Root.Mainline.Mainline
	bc4 := e5.Variations[0]

	// The variation's engine was forked from the branch position, so its
	// positions extend e5's, and the outer line is untouched by it.
	testutil.AssertEqual(t, bc4.FEN, "start|e4 e5|Bc4")
	testutil.AssertEqual(t, bc4.Mainline.FEN, "start|e4 e5|Bc4 Nc6")
	testutil.AssertEqual(t, e5.Mainline.Mainline.FEN, "start|e4 e5 Nf3 Nc6")
}

func TestBuildNestedVariations(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 (1... c5 2. Nf3 (2. Nc3)) 2. Nf3", nil)

	e4 := tr.Root.Mainline
	testutil.AssertEqual(t, len(e4.Variations), 1)
	c5 := e4.Variations[0]
	testutil.AssertEqual(t, c5.SAN, "c5")

	nf3 := c5.Mainline
	testutil.AssertEqual(t, nf3.SAN, "Nf3")
	testutil.AssertEqual(t, len(c5.Variations), 1)
	testutil.AssertEqual(t, c5.Variations[0].SAN, "Nc3")
}

func TestBuildNumberRestatement(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Nf3 (2. Bc4 Nc6) 2... Nc6", nil)

	line := tr.Mainline()
	testutil.AssertTrue(t, line[0].NumberRestated, "first move of the game")
	testutil.AssertTrue(t, !line[1].NumberRestated)
	testutil.AssertTrue(t, !line[2].NumberRestated)
	testutil.AssertTrue(t, line[3].NumberRestated, "move after a variation close")

	e5 := tr.Root.Mainline.Mainline
	bc4 := e5.Variations[0]
	testutil.AssertTrue(t, bc4.NumberRestated, "first move of a variation")
	testutil.AssertTrue(t, !bc4.Mainline.NumberRestated)
}

func TestBuildCommentForcesRestatement(t *testing.T) {
	tr := buildFake(t, "1. e4 {center} e5", nil)

	line := tr.Mainline()
	testutil.AssertEqual(t, line[0].Comments, []string{"center"})
	testutil.AssertTrue(t, line[1].NumberRestated)
}

func TestBuildRejectedMoveKeptAsText(t *testing.T) {
	tr := buildFake(t, "1. e4 Zx9 2. Nf3", nil)

	// Zx9 is not SAN-shaped: it becomes inert text on the last good move
	// and the line continues.
	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "Nf3"})
	testutil.AssertEqual(t, tr.Root.Mainline.Comments, []string{"Zx9"})
	testutil.AssertTrue(t, tr.Root.Mainline.Mainline.NumberRestated)
}

func TestBuildScriptedRejection(t *testing.T) {
	opts := config.NewOptions()
	opts.StartFEN = "start"
	factory := enginetest.Factory(enginetest.Options{Reject: []string{"e5"}})
	tr, err := parser.Parse("1. e4 e5 2. Nf3", factory, opts)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "Nf3"})
}

func TestBuildLeadingCommentFloats(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Nf3 ({better first} 2. Bc4)", nil)

	e5 := tr.Root.Mainline.Mainline
	bc4 := e5.Variations[0]
	testutil.AssertEqual(t, bc4.PreComments, []string{"better first"})
	testutil.AssertEqual(t, len(e5.Comments), 0)
}

func TestBuildLeadingCommentAttachesToParent(t *testing.T) {
	opts := config.NewOptions()
	opts.LeadingComments = config.AttachToParent
	tr := buildFake(t, "1. e4 e5 2. Nf3 ({better first} 2. Bc4)", opts)

	e5 := tr.Root.Mainline.Mainline
	bc4 := e5.Variations[0]
	testutil.AssertEqual(t, len(bc4.PreComments), 0)
	testutil.AssertEqual(t, e5.Comments, []string{"better first"})
}

func TestBuildGameLeadingComment(t *testing.T) {
	tr := buildFake(t, "{Annotated by NN} 1. e4", nil)

	testutil.AssertEqual(t, tr.LeadingComments, []string{"Annotated by NN"})
	testutil.AssertEqual(t, len(tr.Root.Comments), 0)
}

func TestBuildEmptyVariationKeepsItsText(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 ({transposes})", nil)

	e5 := tr.Root.Mainline.Mainline
	testutil.AssertEqual(t, e5.Parent.Comments, []string{"transposes"})
	testutil.AssertEqual(t, tr.NodeCount(), 2)
}

func TestBuildAnnotationsAttachToMove(t *testing.T) {
	tr := buildFake(t, "1. e4! e5 $2 2. Nf3 +/-", nil)

	line := tr.Mainline()
	testutil.AssertEqual(t, line[0].Annotations, []string{"!"})
	testutil.AssertEqual(t, line[1].Annotations, []string{"?"})
	testutil.AssertEqual(t, line[2].Annotations, []string{"±"})
}

func TestBuildCheckDecoratesDisplayText(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. Qh5 g6 3. Qxe5+", nil)

	last := tr.Root.Terminal()
	testutil.AssertEqual(t, last.Move, "Qxe5+")
	testutil.AssertEqual(t, last.SAN, "Qxe5")
}

func TestBuildZeroCastlingNormalizedForEngine(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 2. 0-0", nil)

	last := tr.Root.Terminal()
	testutil.AssertEqual(t, last.Move, "0-0")
	testutil.AssertEqual(t, last.SAN, "O-O")
}

func TestBuildResultTerminatesGame(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 1-0 1. d4", nil)

	testutil.AssertEqual(t, tr.Result, "1-0")
	// Nothing after the result is consumed.
	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "e5"})
}

func TestBuildResultInsideVariationIgnored(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 (1... c5 1-0) 2. Nf3 1/2-1/2", nil)

	testutil.AssertEqual(t, tr.Result, "1/2-1/2")
	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "e5", "Nf3"})
}

func TestBuildDropCommentsAndAnnotations(t *testing.T) {
	opts := config.NewOptions()
	opts.DropComments = true
	opts.DropAnnotations = true
	tr := buildFake(t, "1. e4! {good} e5 $2", opts)

	line := tr.Mainline()
	testutil.AssertEqual(t, len(line[0].Comments), 0)
	testutil.AssertEqual(t, len(line[0].Annotations), 0)
	testutil.AssertEqual(t, len(line[1].Annotations), 0)
}

func TestBuildUnclosedVariationAtEOF(t *testing.T) {
	tr := buildFake(t, "1. e4 e5 (1... c5 2. Nf3", nil)

	// The open variation is terminated by end of input; its nodes are kept.
	e4 := tr.Root.Mainline
	testutil.AssertEqual(t, len(e4.Variations), 1)
	testutil.AssertEqual(t, e4.Variations[0].Mainline.SAN, "Nf3")
}

func TestStepwiseBuildMatchesSingleBuild(t *testing.T) {
	const movetext = "1. e4 e5 2. Nf3 (2. Bc4 {line} Nc6 (2... d6)) 2... Nc6 3. Bb5 1-0"

	whole := buildFake(t, movetext, nil)

	opts := config.NewOptions()
	opts.StartFEN = "start"
	b, err := parser.NewBuilder(strings.NewReader(movetext), enginetest.NewFactory(), opts)
	testutil.AssertNoError(t, err)
	steps := 0
	for !b.Step(1) {
		steps++
		if steps > 10000 {
			t.Fatal("chunked build did not terminate")
		}
	}
	chunked := b.Tree()

	testutil.AssertEqual(t, chunked.NodeCount(), whole.NodeCount())
	testutil.AssertEqual(t, chunked.Result, whole.Result)
	testutil.AssertEqual(t, mainlineSANs(chunked), mainlineSANs(whole))
	testutil.AssertEqual(t, chunked.Root.Terminal().FEN, whole.Root.Terminal().FEN)
}

func TestBuildContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := config.NewOptions()
	opts.StartFEN = "start"
	b, err := parser.NewBuilder(strings.NewReader("1. e4 e5"), enginetest.NewFactory(), opts)
	testutil.AssertNoError(t, err)

	tr, err := b.BuildContext(ctx)
	testutil.AssertTrue(t, err == context.Canceled || err == nil)
	testutil.AssertTrue(t, tr != nil)
}

func TestBuildContextCompletes(t *testing.T) {
	opts := config.NewOptions()
	opts.StartFEN = "start"
	b, err := parser.NewBuilder(strings.NewReader("1. e4 e5 2. Nf3"), enginetest.NewFactory(), opts)
	testutil.AssertNoError(t, err)

	tr, err := b.BuildContext(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "e5", "Nf3"})
}

func TestBuildWithRealRulesEngine(t *testing.T) {
	tr, err := parser.Parse("1. e4 e5 2. Nf3 (2. Bc4 Nc6) 2... Nc6 1-0", nil, nil)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "e5", "Nf3", "Nc6"})
	testutil.AssertEqual(t, tr.Result, "1-0")
	testutil.AssertEqual(t, tr.Root.FEN, tree.StartingFEN)

	e5 := tr.Root.Mainline.Mainline
	testutil.AssertEqual(t, len(e5.Variations), 1)
	bc4 := e5.Variations[0]
	testutil.AssertTrue(t, bc4.FEN != e5.Mainline.FEN, "sibling moves reach different positions")
	testutil.AssertTrue(t, strings.Contains(bc4.FEN, " b "), "black to move after Bc4")
}

func TestBuildRealEngineRejectsIllegalMove(t *testing.T) {
	tr, err := parser.Parse("1. e4 e4 e5 2. Nf3", nil, nil)
	testutil.AssertNoError(t, err)

	// The second e4 is illegal from this position and is kept as text.
	testutil.AssertEqual(t, mainlineSANs(tr), []string{"e4", "e5", "Nf3"})
	testutil.AssertEqual(t, tr.Root.Mainline.Comments, []string{"e4"})
}

func TestLookupSAN(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"e4", "e4"},
		{"Nf3+", "Nf3"},
		{"Qxe5#", "Qxe5"},
		{"0-0", "O-O"},
		{"0-0-0", "O-O-O"},
		{"O-O+", "O-O"},
		{"e8=Q", "e8=Q"},
	}
	for _, tt := range tests {
		if got := parser.LookupSAN(tt.display); got != tt.want {
			t.Errorf("LookupSAN(%q) = %q; want %q", tt.display, got, tt.want)
		}
	}
}
